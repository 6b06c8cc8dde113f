package ports

import (
	"context"

	"github.com/xvierd/arc-cli/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides state information to the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// GetCurrentState returns the permission flag, timer snapshot and recent runs.
	GetCurrentState(ctx context.Context) (*domain.CurrentState, error)

	// GetRecentRuns returns at most limit recent timer runs.
	GetRecentRuns(ctx context.Context, limit int) ([]*domain.TimerRun, error)

	// ResetPermission clears the persisted "declined" flag.
	ResetPermission(ctx context.Context) error
}
