package services

import (
	"sync"

	"github.com/xvierd/arc-cli/internal/domain"
)

// NavigationController keeps the back-stack of screens. The root entry is
// never popped.
type NavigationController struct {
	mu    sync.Mutex
	stack []domain.Screen
	subs  []func([]domain.Screen)
}

// NewNavigationController creates a stack holding only root.
func NewNavigationController(root domain.Screen) *NavigationController {
	return &NavigationController{stack: []domain.Screen{root}}
}

// Push appends screen.
func (n *NavigationController) Push(screen domain.Screen) {
	n.mu.Lock()
	n.stack = append(n.stack, screen)
	entries := n.entriesLocked()
	n.mu.Unlock()
	n.notify(entries)
}

// Pop removes the top entry. At the root it does nothing and returns false.
func (n *NavigationController) Pop() bool {
	n.mu.Lock()
	if len(n.stack) <= 1 {
		n.mu.Unlock()
		return false
	}
	n.stack = n.stack[:len(n.stack)-1]
	entries := n.entriesLocked()
	n.mu.Unlock()
	n.notify(entries)
	return true
}

// Replace swaps the top entry for screen. At the root this replaces the root.
func (n *NavigationController) Replace(screen domain.Screen) {
	n.mu.Lock()
	n.stack[len(n.stack)-1] = screen
	entries := n.entriesLocked()
	n.mu.Unlock()
	n.notify(entries)
}

// Top returns the screen to render.
func (n *NavigationController) Top() domain.Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stack[len(n.stack)-1]
}

// Depth returns the number of entries.
func (n *NavigationController) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.stack)
}

// Entries returns a copy of the stack, root first.
func (n *NavigationController) Entries() []domain.Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.entriesLocked()
}

// Subscribe registers fn for stack changes.
func (n *NavigationController) Subscribe(fn func([]domain.Screen)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, fn)
}

func (n *NavigationController) entriesLocked() []domain.Screen {
	out := make([]domain.Screen, len(n.stack))
	copy(out, n.stack)
	return out
}

func (n *NavigationController) notify(entries []domain.Screen) {
	n.mu.Lock()
	subs := make([]func([]domain.Screen), len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()

	for _, fn := range subs {
		fn(entries)
	}
}
