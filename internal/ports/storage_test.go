package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xvierd/arc-cli/internal/domain"
)

// Mock implementations for testing interfaces.

type mockPreferenceStore struct {
	values map[string]bool
}

func (m *mockPreferenceStore) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	v, ok := m.values[key]
	if !ok {
		return def, nil
	}
	return v, nil
}

func (m *mockPreferenceStore) SetBool(ctx context.Context, key string, value bool) error {
	m.values[key] = value
	return nil
}

func (m *mockPreferenceStore) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

type mockRunRepository struct {
	runs map[string]*domain.TimerRun
}

func (m *mockRunRepository) Save(ctx context.Context, run *domain.TimerRun) error {
	m.runs[run.ID] = run
	return nil
}

func (m *mockRunRepository) FindByID(ctx context.Context, id string) (*domain.TimerRun, error) {
	run, ok := m.runs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return run, nil
}

func (m *mockRunRepository) FindRecent(ctx context.Context, since time.Time, limit int) ([]*domain.TimerRun, error) {
	var result []*domain.TimerRun
	for _, run := range m.runs {
		if !run.StartedAt.Before(since) {
			result = append(result, run)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

var (
	_ PreferenceStore = (*mockPreferenceStore)(nil)
	_ RunRepository   = (*mockRunRepository)(nil)
)

func TestMockPreferenceStore(t *testing.T) {
	store := &mockPreferenceStore{values: make(map[string]bool)}
	ctx := context.Background()

	t.Run("missing key returns default", func(t *testing.T) {
		got, err := store.GetBool(ctx, domain.PreferenceDeniedNotifications, false)
		if err != nil {
			t.Errorf("GetBool() error = %v", err)
		}
		if got {
			t.Error("GetBool() = true, want default false")
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := store.SetBool(ctx, domain.PreferenceDeniedNotifications, true); err != nil {
			t.Errorf("SetBool() error = %v", err)
		}
		got, _ := store.GetBool(ctx, domain.PreferenceDeniedNotifications, false)
		if !got {
			t.Error("GetBool() = false after SetBool(true)")
		}
	})
}

func TestMockRunRepository(t *testing.T) {
	repo := &mockRunRepository{runs: make(map[string]*domain.TimerRun)}
	ctx := context.Background()

	run := domain.NewTimerRun(domain.DefaultSessionConfig(), time.Now())
	if err := repo.Save(ctx, run); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	t.Run("find saved run", func(t *testing.T) {
		found, err := repo.FindByID(ctx, run.ID)
		if err != nil {
			t.Errorf("FindByID() error = %v", err)
		}
		if found != run {
			t.Error("FindByID() returned a different run")
		}
	})

	t.Run("find non-existent run", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "non-existent")
		if !errors.Is(err, domain.ErrRunNotFound) {
			t.Errorf("FindByID() error = %v, want ErrRunNotFound", err)
		}
	})
}
