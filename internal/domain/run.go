package domain

import "time"

// TimerRun is the persisted record of one finished countdown.
type TimerRun struct {
	ID                   string
	SessionLengthSeconds int
	TotalDurationSeconds int
	ElapsedSeconds       int
	CompletedSessions    int
	Outcome              RunOutcome
	StartedAt            time.Time
	EndedAt              time.Time

	// Repository context of the directory the run was started in, if any.
	GitBranch string
	GitCommit string
}

// NewTimerRun creates a run record for cfg that started at startedAt.
func NewTimerRun(cfg SessionConfig, startedAt time.Time) *TimerRun {
	return &TimerRun{
		ID:                   generateID(),
		SessionLengthSeconds: cfg.SessionLengthSeconds,
		TotalDurationSeconds: cfg.TotalDurationSeconds,
		StartedAt:            startedAt,
	}
}

// Finish stamps the run with its final elapsed value and outcome.
func (r *TimerRun) Finish(elapsed int, outcome RunOutcome, endedAt time.Time) {
	r.ElapsedSeconds = elapsed
	r.Outcome = outcome
	r.EndedAt = endedAt
	if r.SessionLengthSeconds > 0 {
		r.CompletedSessions = elapsed / r.SessionLengthSeconds
	}
}

// Config returns the session config the run was started with.
func (r *TimerRun) Config() SessionConfig {
	return SessionConfig{
		SessionLengthSeconds: r.SessionLengthSeconds,
		TotalDurationSeconds: r.TotalDurationSeconds,
	}
}

// CurrentState is what the status command and MCP server report.
type CurrentState struct {
	PermissionDeclined bool
	Timer              TimerSnapshot
	RecentRuns         []*TimerRun
}

// GetOutcomeLabel returns a human-readable label for a run outcome.
func GetOutcomeLabel(o RunOutcome) string {
	switch o {
	case OutcomeCompleted:
		return "Completed"
	case OutcomeCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}
