package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/arc-cli/internal/domain"
	"github.com/xvierd/arc-cli/internal/ports"
)

type fakeGit struct {
	info *ports.GitInfo
	err  error
	dirs []string
}

func (g *fakeGit) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	g.dirs = append(g.dirs, workingDir)
	return g.info, g.err
}

func TestStateService_RecordsRuns(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	ticks := newManualTicks()
	engine := NewTimerEngine(WithTickSource(ticks.source))
	state := NewStateService(store, nil)
	detach := state.Attach(engine)
	defer detach()

	cfg := domain.SessionConfig{SessionLengthSeconds: 2, TotalDurationSeconds: 6}

	require.True(t, engine.Start(ctx, cfg))
	for i := 0; i < 3; i++ {
		ticks.tick(t)
	}
	engine.Cancel()
	engine.Wait()

	require.True(t, engine.Start(ctx, cfg))
	for i := 0; i < 6; i++ {
		ticks.tick(t)
	}
	engine.Wait()

	runs, err := state.GetRecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	outcomes := map[domain.RunOutcome]*domain.TimerRun{}
	for _, r := range runs {
		outcomes[r.Outcome] = r
	}

	cancelled := outcomes[domain.OutcomeCancelled]
	require.NotNil(t, cancelled)
	assert.Equal(t, 3, cancelled.ElapsedSeconds)
	assert.Equal(t, 1, cancelled.CompletedSessions)

	completed := outcomes[domain.OutcomeCompleted]
	require.NotNil(t, completed)
	assert.Equal(t, 6, completed.ElapsedSeconds)
	assert.Equal(t, 3, completed.CompletedSessions)
	assert.Equal(t, cfg, completed.Config())
}

func TestStateService_GetCurrentState(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	state := NewStateService(store, nil)

	current, err := state.GetCurrentState(ctx)
	require.NoError(t, err)
	assert.False(t, current.PermissionDeclined)
	assert.Empty(t, current.RecentRuns)
	assert.False(t, current.Timer.State.IsRunning)

	require.NoError(t, store.Preferences().SetBool(ctx, domain.PreferenceDeniedNotifications, true))
	current, err = state.GetCurrentState(ctx)
	require.NoError(t, err)
	assert.True(t, current.PermissionDeclined)
}

func TestStateService_ResetPermission(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Preferences().SetBool(ctx, domain.PreferenceDeniedNotifications, true))

	state := NewStateService(store, nil)
	require.NoError(t, state.ResetPermission(ctx))

	declined, err := state.PermissionDeclined(ctx)
	require.NoError(t, err)
	assert.False(t, declined)

	gate := NewPermissionGate(store.Preferences(), &fakePrompter{supported: true}, WithLoadDelay(0))
	assert.Equal(t, domain.DecisionNotYetAsked, gate.Resolve(ctx))
}

func TestStateService_TagsRunsWithGit(t *testing.T) {
	tests := []struct {
		name       string
		git        *fakeGit
		wantBranch string
	}{
		{"inside a repository", &fakeGit{info: &ports.GitInfo{Branch: "feature/rings", Commit: "abc123"}}, "feature/rings"},
		{"outside a repository", &fakeGit{err: errors.New("no git repository found")}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := setupTestStorage(t)
			defer cleanup()
			ctx := context.Background()

			ticks := newManualTicks()
			engine := NewTimerEngine(WithTickSource(ticks.source))
			state := NewStateService(store, nil)
			state.SetGitDetector(tt.git, "/work/arc")
			defer state.Attach(engine)()

			require.True(t, engine.Start(ctx, domain.SessionConfig{SessionLengthSeconds: 1, TotalDurationSeconds: 1}))
			ticks.tick(t)
			engine.Wait()

			runs, err := state.GetRecentRuns(ctx, 1)
			require.NoError(t, err)
			require.Len(t, runs, 1)
			assert.Equal(t, tt.wantBranch, runs[0].GitBranch)
			assert.Equal(t, []string{"/work/arc"}, tt.git.dirs)
		})
	}
}
