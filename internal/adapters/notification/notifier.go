// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/xvierd/arc-cli/internal/config"
	"github.com/xvierd/arc-cli/internal/domain"
	"github.com/xvierd/arc-cli/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg  *config.NotificationConfig
	send func(title, message string) error
	beep func() error
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{
		cfg: cfg,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		beep: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		},
	}
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}

	if err := n.send(title, message); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if n.cfg.Sound {
		// A missing sound device is not worth failing the notification for.
		_ = n.beep()
	}
	return nil
}

// NotifySessionComplete displays a notification when one session of a run ends.
func (n *Notifier) NotifySessionComplete(completed int, cfg domain.SessionConfig) error {
	message := fmt.Sprintf("Session %d finished.", completed)
	if cfg.IsBounded() {
		message = fmt.Sprintf("Session %d of %d finished.", completed, cfg.SessionCount())
	}
	return n.Notify("Session Complete", message)
}

// NotifyRunComplete displays a notification when a whole run reaches its bound.
func (n *Notifier) NotifyRunComplete(elapsedSeconds int) error {
	message := fmt.Sprintf("Timer finished after %s.", domain.FormatElapsed(elapsedSeconds))
	return n.Notify("Timer Finished", message)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}
