package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/xvierd/arc-cli/internal/domain"
	"github.com/xvierd/arc-cli/internal/ports"
)

// Coordinator owns the screen flow: it connects the permission gate, the
// navigation stack, the session selection and the timer engine.
type Coordinator struct {
	Nav      *NavigationController
	Gate     *PermissionGate
	Sessions *SessionService
	Timer    *TimerEngine

	notifier ports.Notifier
	logger   hclog.Logger

	mu     sync.Mutex
	active domain.SessionConfig
	detach []func()
}

// NewCoordinator wires the collaborators together. notifier may be nil.
func NewCoordinator(nav *NavigationController, gate *PermissionGate, sessions *SessionService, timer *TimerEngine, notifier ports.Notifier, logger hclog.Logger) *Coordinator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	c := &Coordinator{
		Nav:      nav,
		Gate:     gate,
		Sessions: sessions,
		Timer:    timer,
		notifier: notifier,
		logger:   logger,
		active:   domain.DefaultSessionConfig(),
	}
	gate.OnGranted(c.OnPermissionGranted)
	c.detach = append(c.detach, timer.Subscribe(c.onSnapshot))
	return c
}

// InitialScreen is the root of a fresh back-stack.
func InitialScreen() domain.Screen {
	return domain.ScreenRequestPermission
}

// OnPermissionGranted leaves the permission screen for the start screen.
func (c *Coordinator) OnPermissionGranted() {
	if c.Nav.Top() != domain.ScreenRequestPermission {
		return
	}
	c.logger.Debug("permission granted, showing start screen")
	c.Nav.Replace(domain.ScreenStartService)
}

// OnPermissionDenied keeps the permission screen; the gate shows the rationale.
func (c *Coordinator) OnPermissionDenied() {
	c.logger.Debug("permission denied, staying on permission screen")
}

// OnStartService fixes the selected config and opens the timer screen.
func (c *Coordinator) OnStartService() error {
	cfg, err := c.Sessions.Config()
	if err != nil {
		return fmt.Errorf("failed to build session config: %w", err)
	}
	c.mu.Lock()
	c.active = cfg
	c.mu.Unlock()

	c.Nav.Push(domain.ScreenTimer)
	return nil
}

// ActiveConfig returns the config handed to the timer screen.
func (c *Coordinator) ActiveConfig() domain.SessionConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// StartTimer starts the engine with the active config.
func (c *Coordinator) StartTimer(ctx context.Context) bool {
	return c.Timer.Start(ctx, c.ActiveConfig())
}

// Back pops the top screen. Leaving the timer screen cancels the run.
func (c *Coordinator) Back() bool {
	if c.Nav.Top() == domain.ScreenTimer {
		c.Timer.Cancel()
	}
	return c.Nav.Pop()
}

// Close stops the timer and waits for background work.
func (c *Coordinator) Close() {
	c.Timer.Cancel()
	c.Timer.Wait()
	c.Gate.Flush()
	for _, fn := range c.detach {
		fn()
	}
}

func (c *Coordinator) onSnapshot(snap domain.TimerSnapshot) {
	if !c.notificationsAllowed() {
		return
	}

	var err error
	switch {
	case snap.Final && snap.Outcome == domain.OutcomeCompleted:
		err = c.notifier.NotifyRunComplete(snap.FinalElapsedSeconds)
	case snap.SessionBoundary && !snap.Final:
		// The last boundary of a bounded run is announced by the final snapshot.
		if snap.Config.IsBounded() && snap.State.ElapsedSeconds >= snap.Config.TotalDurationSeconds {
			return
		}
		err = c.notifier.NotifySessionComplete(snap.CompletedSessions, snap.Config)
	}
	if err != nil {
		c.logger.Warn("failed to send notification", "error", err)
	}
}

func (c *Coordinator) notificationsAllowed() bool {
	if c.notifier == nil || !c.notifier.IsEnabled() {
		return false
	}
	return c.Gate.Decision() == domain.DecisionGranted
}
