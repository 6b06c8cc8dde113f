package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/singleflight"

	"github.com/xvierd/arc-cli/internal/domain"
	"github.com/xvierd/arc-cli/internal/ports"
)

// DefaultLoadDelay is how long the gate shows its loading view before reading storage.
const DefaultLoadDelay = 5 * time.Second

const preferenceWriteTimeout = 5 * time.Second

// GateOption configures a PermissionGate.
type GateOption func(*PermissionGate)

// WithLoadDelay sets the artificial delay before the persisted flag is read.
func WithLoadDelay(d time.Duration) GateOption {
	return func(g *PermissionGate) {
		if d >= 0 {
			g.delay = d
		}
	}
}

// WithGateLogger sets the gate logger.
func WithGateLogger(l hclog.Logger) GateOption {
	return func(g *PermissionGate) {
		if l != nil {
			g.logger = l
		}
	}
}

// PermissionGate decides whether the notification permission flow shows the
// loading view, the declined rationale or the ask-again prompt.
type PermissionGate struct {
	store    ports.PreferenceStore
	prompter ports.PermissionPrompter
	delay    time.Duration
	logger   hclog.Logger

	group  singleflight.Group
	writes sync.WaitGroup

	mu        sync.Mutex
	decision  domain.PermissionDecision
	prompted  bool
	declines  uint64
	flight    *resolveFlight
	flights   uint64
	subs      []func(domain.PermissionDecision)
	onGranted []func()
}

// resolveFlight is one shared storage read. It outlives the caller that
// started it and is cancelled once every waiter has gone.
type resolveFlight struct {
	key     string
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// NewPermissionGate creates a gate in the loading state. A nil prompter is
// treated as a platform without runtime permissions.
func NewPermissionGate(store ports.PreferenceStore, prompter ports.PermissionPrompter, opts ...GateOption) *PermissionGate {
	g := &PermissionGate{
		store:    store,
		prompter: prompter,
		delay:    DefaultLoadDelay,
		logger:   hclog.NewNullLogger(),
		decision: domain.DecisionUnknown,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Resolve waits for the load delay, then reads the persisted flag. Concurrent
// callers share one resolution and each stops waiting when its own ctx ends.
// Once resolved, later calls return the current decision without touching
// storage. If ctx ends first the decision stays unknown.
func (g *PermissionGate) Resolve(ctx context.Context) domain.PermissionDecision {
	if d := g.Decision(); d != domain.DecisionUnknown {
		return d
	}

	f := g.joinFlight(ctx)
	ch := g.group.DoChan(f.key, func() (interface{}, error) {
		defer g.endFlight(f)
		return g.resolve(f.ctx), nil
	})

	select {
	case res := <-ch:
		g.leaveFlight(f)
		return res.Val.(domain.PermissionDecision)
	case <-ctx.Done():
		g.leaveFlight(f)
		return g.Decision()
	}
}

func (g *PermissionGate) joinFlight(ctx context.Context) *resolveFlight {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.flight == nil {
		g.flights++
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		g.flight = &resolveFlight{
			key:    "resolve-" + strconv.FormatUint(g.flights, 10),
			ctx:    fctx,
			cancel: cancel,
		}
	}
	g.flight.waiters++
	return g.flight
}

func (g *PermissionGate) leaveFlight(f *resolveFlight) {
	g.mu.Lock()
	defer g.mu.Unlock()
	f.waiters--
	if f.waiters == 0 {
		f.cancel()
		if g.flight == f {
			g.flight = nil
		}
	}
}

func (g *PermissionGate) endFlight(f *resolveFlight) {
	f.cancel()
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.flight == f {
		g.flight = nil
	}
}

func (g *PermissionGate) resolve(ctx context.Context) domain.PermissionDecision {
	g.mu.Lock()
	if g.decision != domain.DecisionUnknown {
		d := g.decision
		g.mu.Unlock()
		return d
	}
	declines := g.declines
	g.mu.Unlock()

	if !g.supported() {
		g.logger.Debug("runtime permission not supported, granting")
		g.grant()
		return domain.DecisionGranted
	}

	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return g.Decision()
		case <-timer.C:
		}
	}

	declined, err := g.store.GetBool(ctx, domain.PreferenceDeniedNotifications, false)
	if err != nil {
		if ctx.Err() != nil {
			return g.Decision()
		}
		g.logger.Warn("failed to read permission preference, asking again", "error", err)
		declined = false
	}

	d := domain.DecisionFromDeclined(declined)
	if !g.settle(d, declines) {
		g.logger.Debug("permission changed while loading, keeping it", "read", d)
		return g.Decision()
	}
	g.logger.Debug("permission resolved", "decision", d)
	return d
}

// settle leaves loading with d unless something else already moved the gate
// or a decline happened since the read started.
func (g *PermissionGate) settle(d domain.PermissionDecision, declines uint64) bool {
	g.mu.Lock()
	if g.decision != domain.DecisionUnknown || g.declines != declines {
		g.mu.Unlock()
		return false
	}
	g.decision = d
	if d == domain.DecisionNotYetAsked {
		g.prompted = false
	}
	subs := g.subscribersLocked()
	g.mu.Unlock()

	for _, fn := range subs {
		fn(d)
	}
	return true
}

// Request shows the platform prompt. It only acts from the ask-again view
// and at most once per entry into it; otherwise it returns the current decision.
func (g *PermissionGate) Request(ctx context.Context) (domain.PermissionDecision, error) {
	if !g.supported() {
		g.grant()
		return domain.DecisionGranted, nil
	}

	g.mu.Lock()
	if g.decision != domain.DecisionNotYetAsked || g.prompted {
		d := g.decision
		g.mu.Unlock()
		return d, nil
	}
	g.prompted = true
	g.mu.Unlock()

	granted, err := g.prompter.Request(ctx, domain.PermissionPostNotifications)
	if err != nil {
		g.mu.Lock()
		g.prompted = false
		g.mu.Unlock()
		return g.Decision(), fmt.Errorf("failed to request permission: %w", err)
	}

	if granted {
		g.logger.Info("permission granted")
		g.grant()
		return domain.DecisionGranted, nil
	}

	g.logger.Info("permission denied by user")
	g.MarkDeclined()
	return domain.DecisionDenied, nil
}

// MarkDeclined records that the user refused. Observers briefly see the
// unknown decision, the flag is written in the background and the gate
// moves to denied without waiting for the write.
func (g *PermissionGate) MarkDeclined() {
	g.mu.Lock()
	if g.decision == domain.DecisionDenied {
		g.mu.Unlock()
		return
	}
	g.declines++
	g.mu.Unlock()

	g.set(domain.DecisionUnknown)

	g.writes.Add(1)
	go func() {
		defer g.writes.Done()
		ctx, cancel := context.WithTimeout(context.Background(), preferenceWriteTimeout)
		defer cancel()
		if err := g.store.SetBool(ctx, domain.PreferenceDeniedNotifications, true); err != nil {
			g.logger.Warn("failed to persist permission denial", "error", err)
		}
	}()

	g.set(domain.DecisionDenied)
}

// Flush waits for background preference writes to finish.
func (g *PermissionGate) Flush() {
	g.writes.Wait()
}

// Decision returns the current decision.
func (g *PermissionGate) Decision() domain.PermissionDecision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decision
}

// View returns the sub-view for the current decision.
func (g *PermissionGate) View() domain.GateView {
	return g.Decision().View()
}

// Subscribe registers fn for decision changes.
func (g *PermissionGate) Subscribe(fn func(domain.PermissionDecision)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subs = append(g.subs, fn)
}

// OnGranted registers fn to run once the permission is granted.
func (g *PermissionGate) OnGranted(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onGranted = append(g.onGranted, fn)
}

func (g *PermissionGate) supported() bool {
	return g.prompter != nil && g.prompter.Supported()
}

func (g *PermissionGate) grant() {
	g.mu.Lock()
	if g.decision == domain.DecisionGranted {
		g.mu.Unlock()
		return
	}
	g.decision = domain.DecisionGranted
	subs := g.subscribersLocked()
	callbacks := make([]func(), len(g.onGranted))
	copy(callbacks, g.onGranted)
	g.mu.Unlock()

	for _, fn := range subs {
		fn(domain.DecisionGranted)
	}
	for _, fn := range callbacks {
		fn()
	}
}

func (g *PermissionGate) set(d domain.PermissionDecision) {
	g.mu.Lock()
	g.decision = d
	subs := g.subscribersLocked()
	g.mu.Unlock()

	for _, fn := range subs {
		fn(d)
	}
}

func (g *PermissionGate) subscribersLocked() []func(domain.PermissionDecision) {
	subs := make([]func(domain.PermissionDecision), len(g.subs))
	copy(subs, g.subs)
	return subs
}
