package ports

import (
	"context"

	"github.com/xvierd/arc-cli/internal/domain"
)

// PermissionPrompter is the platform's runtime permission dialog.
// This is a driven port (implemented by adapters).
type PermissionPrompter interface {
	// Supported reports whether the platform has a runtime prompt at all.
	// When false the permission is treated as always granted.
	Supported() bool

	// Request shows the prompt for permission and blocks until the user answers.
	Request(ctx context.Context, permission string) (bool, error)
}

// Notifier posts user-visible notifications.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// Notify displays a notification if notifications are enabled.
	Notify(title, message string) error

	// NotifySessionComplete announces the end of one session of a run.
	NotifySessionComplete(completed int, cfg domain.SessionConfig) error

	// NotifyRunComplete announces that a run reached its bound.
	NotifyRunComplete(elapsedSeconds int) error

	// IsEnabled returns true if notifications are enabled.
	IsEnabled() bool
}
