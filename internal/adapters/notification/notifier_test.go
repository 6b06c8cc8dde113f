package notification

import (
	"errors"
	"testing"

	"github.com/xvierd/arc-cli/internal/config"
	"github.com/xvierd/arc-cli/internal/domain"
)

type capture struct {
	titles   []string
	messages []string
	beeps    int
	err      error
}

func newCapturingNotifier(cfg *config.NotificationConfig, c *capture) *Notifier {
	n := New(cfg)
	n.send = func(title, message string) error {
		c.titles = append(c.titles, title)
		c.messages = append(c.messages, message)
		return c.err
	}
	n.beep = func() error {
		c.beeps++
		return nil
	}
	return n
}

func TestNotifier_Disabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.NotificationConfig
	}{
		{"nil config", nil},
		{"disabled", &config.NotificationConfig{Enabled: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c capture
			n := newCapturingNotifier(tt.cfg, &c)

			if n.IsEnabled() {
				t.Error("IsEnabled() = true, want false")
			}
			if err := n.Notify("t", "m"); err != nil {
				t.Errorf("Notify() error = %v", err)
			}
			if len(c.titles) != 0 {
				t.Errorf("sent %d notifications, want 0", len(c.titles))
			}
		})
	}
}

func TestNotifier_SessionAndRunMessages(t *testing.T) {
	var c capture
	n := newCapturingNotifier(&config.NotificationConfig{Enabled: true}, &c)

	bounded := domain.SessionConfig{SessionLengthSeconds: 600, TotalDurationSeconds: 3600}
	unbounded := domain.SessionConfig{SessionLengthSeconds: 600, TotalDurationSeconds: domain.Unbounded}

	if err := n.NotifySessionComplete(2, bounded); err != nil {
		t.Fatalf("NotifySessionComplete() error = %v", err)
	}
	if err := n.NotifySessionComplete(7, unbounded); err != nil {
		t.Fatalf("NotifySessionComplete() error = %v", err)
	}
	if err := n.NotifyRunComplete(3600); err != nil {
		t.Fatalf("NotifyRunComplete() error = %v", err)
	}

	want := []string{
		"Session 2 of 6 finished.",
		"Session 7 finished.",
		"Timer finished after 60:00.",
	}
	for i, m := range want {
		if c.messages[i] != m {
			t.Errorf("message[%d] = %q, want %q", i, c.messages[i], m)
		}
	}
	if c.beeps != 0 {
		t.Errorf("beeps = %d, want 0 with sound off", c.beeps)
	}
}

func TestNotifier_Sound(t *testing.T) {
	var c capture
	n := newCapturingNotifier(&config.NotificationConfig{Enabled: true, Sound: true}, &c)

	if err := n.Notify("t", "m"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if c.beeps != 1 {
		t.Errorf("beeps = %d, want 1", c.beeps)
	}
}

func TestNotifier_SendError(t *testing.T) {
	boom := errors.New("no dbus")
	c := capture{err: boom}
	n := newCapturingNotifier(&config.NotificationConfig{Enabled: true, Sound: true}, &c)

	err := n.Notify("t", "m")
	if !errors.Is(err, boom) {
		t.Errorf("Notify() error = %v, want %v", err, boom)
	}
	if c.beeps != 0 {
		t.Errorf("beeps = %d, want 0 after failed send", c.beeps)
	}
}
