package domain

import "fmt"

// SweepDegrees is the angular range of a full ring in the timer display.
const SweepDegrees = 300.0

// TimerPhase is the coarse state of the countdown engine.
type TimerPhase string

const (
	TimerIdle    TimerPhase = "idle"
	TimerRunning TimerPhase = "running"
)

// RunOutcome records how a run ended.
type RunOutcome string

const (
	OutcomeCompleted RunOutcome = "completed"
	OutcomeCancelled RunOutcome = "cancelled"
)

// TimerState is the mutable part of the engine.
type TimerState struct {
	ElapsedSeconds int
	IsRunning      bool
}

// Phase returns the state machine phase.
func (s TimerState) Phase() TimerPhase {
	if s.IsRunning {
		return TimerRunning
	}
	return TimerIdle
}

// TimerSnapshot is published to observers after every change.
type TimerSnapshot struct {
	State             TimerState
	Config            SessionConfig
	SessionFraction   float64
	BatchFraction     float64
	CompletedSessions int

	// SessionBoundary is set on the tick that finishes a session.
	SessionBoundary bool

	// Final is set on the reset snapshot that ends a run. FinalElapsedSeconds
	// keeps the elapsed value the run reached before the reset.
	Final               bool
	FinalElapsedSeconds int
	Outcome             RunOutcome
}

// NewTimerSnapshot derives both fractions for elapsed under cfg.
func NewTimerSnapshot(cfg SessionConfig, state TimerState) TimerSnapshot {
	snap := TimerSnapshot{State: state, Config: cfg}
	snap.SessionFraction = SessionFraction(state.ElapsedSeconds, cfg)
	snap.BatchFraction = BatchFraction(state.ElapsedSeconds, cfg)
	if cfg.SessionLengthSeconds > 0 {
		snap.CompletedSessions = state.ElapsedSeconds / cfg.SessionLengthSeconds
		snap.SessionBoundary = state.ElapsedSeconds > 0 && state.ElapsedSeconds%cfg.SessionLengthSeconds == 0
	}
	return snap
}

// SessionSweep returns the inner ring angle for a ring spanning span
// degrees. A non-positive span uses SweepDegrees.
func (s TimerSnapshot) SessionSweep(span float64) float64 {
	return s.SessionFraction * sweepSpan(span)
}

// BatchSweep returns the outer ring angle for a ring spanning span degrees.
func (s TimerSnapshot) BatchSweep(span float64) float64 {
	return s.BatchFraction * sweepSpan(span)
}

func sweepSpan(span float64) float64 {
	if span <= 0 {
		return SweepDegrees
	}
	return span
}

// Elapsed returns the elapsed time formatted as MM:SS.
func (s TimerSnapshot) Elapsed() string {
	return FormatElapsed(s.State.ElapsedSeconds)
}

// SessionFraction is the position inside the current session, in [0, 1).
func SessionFraction(elapsed int, cfg SessionConfig) float64 {
	if cfg.SessionLengthSeconds <= 0 || elapsed <= 0 {
		return 0
	}
	return float64(elapsed%cfg.SessionLengthSeconds) / float64(cfg.SessionLengthSeconds)
}

// BatchFraction is the position inside the total bound, in [0, 1).
// An unbounded run has no outer position and always reports 0.
func BatchFraction(elapsed int, cfg SessionConfig) float64 {
	if !cfg.IsBounded() || cfg.TotalDurationSeconds <= 0 || elapsed <= 0 {
		return 0
	}
	return float64(elapsed%cfg.TotalDurationSeconds) / float64(cfg.TotalDurationSeconds)
}

// FormatElapsed formats seconds as MM:SS. Minutes do not roll over into hours.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
