package tui

import (
	"context"

	"github.com/xvierd/arc-cli/internal/ports"
)

// promptRequest is one pending question shown by the permission screen.
type promptRequest struct {
	permission string
	reply      chan bool
}

// Prompter asks for a runtime permission inside the running program.
type Prompter struct {
	enabled  bool
	requests chan promptRequest
}

// Ensure Prompter implements ports.PermissionPrompter.
var _ ports.PermissionPrompter = (*Prompter)(nil)

// NewPrompter creates a prompter. When enabled is false the platform is
// reported as having no runtime permission prompt.
func NewPrompter(enabled bool) *Prompter {
	return &Prompter{
		enabled:  enabled,
		requests: make(chan promptRequest),
	}
}

// Supported implements ports.PermissionPrompter.
func (p *Prompter) Supported() bool {
	return p.enabled
}

// Request implements ports.PermissionPrompter. It blocks until the screen
// answers or ctx ends.
func (p *Prompter) Request(ctx context.Context, permission string) (bool, error) {
	req := promptRequest{permission: permission, reply: make(chan bool, 1)}

	select {
	case p.requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case granted := <-req.reply:
		return granted, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
