package services

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/xvierd/arc-cli/internal/domain"
)

// TickSource starts a periodic tick and returns its channel plus a stop func.
type TickSource func(interval time.Duration) (<-chan time.Time, func())

func tickerSource(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}

// TimerOption configures a TimerEngine.
type TimerOption func(*TimerEngine)

// WithTickInterval sets the time between ticks. Non-positive values are ignored.
func WithTickInterval(d time.Duration) TimerOption {
	return func(e *TimerEngine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithTickSource replaces the wall-clock ticker.
func WithTickSource(src TickSource) TimerOption {
	return func(e *TimerEngine) {
		if src != nil {
			e.ticks = src
		}
	}
}

// WithTimerLogger sets the engine logger.
func WithTimerLogger(l hclog.Logger) TimerOption {
	return func(e *TimerEngine) {
		if l != nil {
			e.logger = l
		}
	}
}

type snapshotSubscriber struct {
	id int
	fn func(domain.TimerSnapshot)
}

// TimerEngine counts elapsed seconds for one run at a time and publishes a
// snapshot with the session and batch fractions after every change.
type TimerEngine struct {
	interval time.Duration
	ticks    TickSource
	logger   hclog.Logger

	mu     sync.Mutex
	config domain.SessionConfig
	state  domain.TimerState
	active bool
	cancel context.CancelFunc
	done   chan struct{}

	subs   []snapshotSubscriber
	nextID int
}

// NewTimerEngine creates an idle engine.
func NewTimerEngine(opts ...TimerOption) *TimerEngine {
	done := make(chan struct{})
	close(done)

	e := &TimerEngine{
		interval: time.Second,
		ticks:    tickerSource,
		logger:   hclog.NewNullLogger(),
		done:     done,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins a run with cfg. It returns false without side effects when a
// run is already active or cfg is invalid. The run ends when the bound is
// reached, Cancel is called or ctx is cancelled.
func (e *TimerEngine) Start(ctx context.Context, cfg domain.SessionConfig) bool {
	if err := cfg.Validate(); err != nil {
		e.logger.Warn("start rejected", "error", err)
		return false
	}

	e.mu.Lock()
	if e.active {
		e.mu.Unlock()
		e.logger.Debug("start ignored, run already active")
		return false
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	e.active = true
	e.config = cfg
	e.state = domain.TimerState{IsRunning: true}
	e.cancel = cancel
	e.done = done
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.logger.Info("run started", "session_seconds", cfg.SessionLengthSeconds, "total_seconds", cfg.TotalDurationSeconds)
	e.publish(snap)

	go e.run(runCtx, cfg, done)
	return true
}

func (e *TimerEngine) run(ctx context.Context, cfg domain.SessionConfig, done chan struct{}) {
	outcome := domain.OutcomeCancelled
	ticks, stop := e.ticks(e.interval)

	defer func() {
		stop()
		e.finish(outcome)
		close(done)
	}()

	for {
		e.mu.Lock()
		elapsed := e.state.ElapsedSeconds
		e.mu.Unlock()

		if cfg.IsBounded() && elapsed >= cfg.TotalDurationSeconds {
			outcome = domain.OutcomeCompleted
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticks:
		}

		e.mu.Lock()
		e.state.ElapsedSeconds++
		snap := e.snapshotLocked()
		e.mu.Unlock()

		if snap.SessionBoundary {
			e.logger.Debug("session finished", "completed", snap.CompletedSessions)
		}
		e.publish(snap)
	}
}

// finish resets the state and publishes the final snapshot. The engine stays
// active until subscribers have seen it so a new Start cannot interleave.
func (e *TimerEngine) finish(outcome domain.RunOutcome) {
	e.mu.Lock()
	reached := e.state.ElapsedSeconds
	e.state = domain.TimerState{}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	snap := e.snapshotLocked()
	snap.Final = true
	snap.FinalElapsedSeconds = reached
	snap.Outcome = outcome
	e.mu.Unlock()

	e.logger.Info("run ended", "outcome", outcome, "elapsed", reached)
	e.publish(snap)

	e.mu.Lock()
	e.active = false
	e.mu.Unlock()
}

// Cancel stops the active run, if any. The final snapshot is published
// asynchronously; use Wait to block until it has been delivered.
func (e *TimerEngine) Cancel() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Done returns a channel closed when the current run has fully ended.
// It is already closed while the engine is idle.
func (e *TimerEngine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// Wait blocks until the current run has ended.
func (e *TimerEngine) Wait() {
	<-e.Done()
}

// IsRunning reports whether a run is active.
func (e *TimerEngine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.IsRunning
}

// Snapshot returns the current state and fractions.
func (e *TimerEngine) Snapshot() domain.TimerSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe registers fn for every published snapshot and returns a func that
// removes it. fn is called from the engine goroutine and must not block long.
func (e *TimerEngine) Subscribe(fn func(domain.TimerSnapshot)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, snapshotSubscriber{id: id, fn: fn})

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

func (e *TimerEngine) snapshotLocked() domain.TimerSnapshot {
	return domain.NewTimerSnapshot(e.config, e.state)
}

func (e *TimerEngine) publish(snap domain.TimerSnapshot) {
	e.mu.Lock()
	subs := make([]snapshotSubscriber, len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, s := range subs {
		s.fn(snap)
	}
}
