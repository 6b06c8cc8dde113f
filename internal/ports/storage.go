// Package ports defines the interfaces (driven and driving ports)
// for the arc application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/arc-cli/internal/domain"
)

// PreferenceStore is a keyed store of small application preferences.
// This is a driven port (implemented by adapters).
type PreferenceStore interface {
	// GetBool returns the stored value for key, or def when the key is absent.
	GetBool(ctx context.Context, key string, def bool) (bool, error)

	// SetBool stores value under key.
	SetBool(ctx context.Context, key string, value bool) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// RunRepository defines the interface for timer run persistence.
// This is a driven port (implemented by adapters).
type RunRepository interface {
	// Save persists a finished run.
	Save(ctx context.Context, run *domain.TimerRun) error

	// FindByID retrieves a run by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.TimerRun, error)

	// FindRecent retrieves runs that started at or after since, newest first.
	FindRecent(ctx context.Context, since time.Time, limit int) ([]*domain.TimerRun, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Preferences provides access to the preference store.
	Preferences() PreferenceStore

	// Runs provides access to run history.
	Runs() RunRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
