package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/xvierd/arc-cli/internal/domain"
	"github.com/xvierd/arc-cli/internal/ports"
)

const recentRunWindow = 7 * 24 * time.Hour

// StateService records finished runs and implements the MCPStateProvider interface.
type StateService struct {
	storage ports.Storage
	logger  hclog.Logger
	now     func() time.Time

	mu         sync.Mutex
	timer      *TimerEngine
	current    *domain.TimerRun
	git        ports.GitDetector
	workingDir string
}

// NewStateService creates a new state service.
func NewStateService(storage ports.Storage, logger hclog.Logger) *StateService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &StateService{storage: storage, logger: logger, now: time.Now}
}

// SetGitDetector tags new runs with the repository around workingDir.
func (s *StateService) SetGitDetector(git ports.GitDetector, workingDir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.git = git
	s.workingDir = workingDir
}

// Attach records every run of timer. The returned func detaches it.
func (s *StateService) Attach(timer *TimerEngine) func() {
	s.mu.Lock()
	s.timer = timer
	s.mu.Unlock()
	return timer.Subscribe(s.record)
}

func (s *StateService) record(snap domain.TimerSnapshot) {
	switch {
	case snap.Final:
		s.mu.Lock()
		run := s.current
		s.current = nil
		s.mu.Unlock()
		if run == nil {
			return
		}

		run.Finish(snap.FinalElapsedSeconds, snap.Outcome, s.now())
		if err := s.storage.Runs().Save(context.Background(), run); err != nil {
			s.logger.Error("failed to save run", "id", run.ID, "error", err)
			return
		}
		s.logger.Debug("run saved", "id", run.ID, "outcome", run.Outcome, "elapsed", run.ElapsedSeconds)

	case snap.State.IsRunning && snap.State.ElapsedSeconds == 0:
		run := domain.NewTimerRun(snap.Config, s.now())
		s.tagGit(run)
		s.mu.Lock()
		s.current = run
		s.mu.Unlock()
	}
}

func (s *StateService) tagGit(run *domain.TimerRun) {
	s.mu.Lock()
	git, dir := s.git, s.workingDir
	s.mu.Unlock()
	if git == nil {
		return
	}

	info, err := git.Detect(context.Background(), dir)
	if err != nil {
		s.logger.Debug("run not tagged with git context", "error", err)
		return
	}
	run.GitBranch = info.Branch
	run.GitCommit = info.Commit
}

// PermissionDeclined reports the persisted "declined" flag.
func (s *StateService) PermissionDeclined(ctx context.Context) (bool, error) {
	declined, err := s.storage.Preferences().GetBool(ctx, domain.PreferenceDeniedNotifications, false)
	if err != nil {
		return false, fmt.Errorf("failed to read permission preference: %w", err)
	}
	return declined, nil
}

// GetCurrentState implements ports.MCPStateProvider.
func (s *StateService) GetCurrentState(ctx context.Context) (*domain.CurrentState, error) {
	declined, err := s.PermissionDeclined(ctx)
	if err != nil {
		return nil, err
	}

	runs, err := s.GetRecentRuns(ctx, 10)
	if err != nil {
		return nil, err
	}

	state := &domain.CurrentState{
		PermissionDeclined: declined,
		RecentRuns:         runs,
	}

	s.mu.Lock()
	timer := s.timer
	s.mu.Unlock()
	if timer != nil {
		state.Timer = timer.Snapshot()
	}
	return state, nil
}

// GetRecentRuns implements ports.MCPStateProvider.
func (s *StateService) GetRecentRuns(ctx context.Context, limit int) ([]*domain.TimerRun, error) {
	since := s.now().Add(-recentRunWindow)
	runs, err := s.storage.Runs().FindRecent(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent runs: %w", err)
	}
	return runs, nil
}

// ResetPermission implements ports.MCPStateProvider.
func (s *StateService) ResetPermission(ctx context.Context) error {
	if err := s.storage.Preferences().Delete(ctx, domain.PreferenceDeniedNotifications); err != nil {
		return fmt.Errorf("failed to reset permission preference: %w", err)
	}
	s.logger.Info("permission preference reset")
	return nil
}

// Ensure StateService implements MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)
