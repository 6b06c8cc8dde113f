// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xvierd/arc-cli/internal/domain"
	"github.com/xvierd/arc-cli/internal/ports"
)

const defaultRunLimit = 10

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	logger        hclog.Logger
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider, version string, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &Server{
		stateProvider: stateProvider,
		logger:        logger,
	}

	s.server = server.NewMCPServer(
		"arc",
		version,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_timer_state",
			mcp.WithDescription("Get the arc timer state and the permission flag. The server runs in its own process, so its timer is idle unless a run was started in it; last_run carries the most recent recorded run"),
		),
		s.handleGetTimerState,
	)

	listRunsTool := mcp.NewTool(
		"list_runs",
		mcp.WithDescription("List recent timer runs from the last seven days, newest first"),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum number of runs to return (default: 10)"),
		),
		mcp.WithString(
			"outcome",
			mcp.Description("Filter runs by outcome"),
			mcp.Enum(string(domain.OutcomeCompleted), string(domain.OutcomeCancelled)),
		),
	)
	s.server.AddTool(listRunsTool, s.handleListRuns)

	s.server.AddTool(
		mcp.NewTool(
			"get_permission_state",
			mcp.WithDescription("Report whether the user has declined the notification permission"),
		),
		s.handleGetPermissionState,
	)

	resetTool := mcp.NewTool(
		"reset_permission",
		mcp.WithDescription("Clear the declined notification permission so arc asks again on next start"),
		mcp.WithString(
			"confirm",
			mcp.Required(),
			mcp.Description("Must be \"yes\" to reset"),
		),
	)
	s.server.AddTool(resetTool, s.handleResetPermission)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.logger.Info("serving MCP over stdio")

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// handleGetTimerState handles the get_timer_state tool.
func (s *Server) handleGetTimerState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.GetCurrentState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current state: %w", err)
	}

	snap := state.Timer
	result := map[string]interface{}{
		"phase":               string(snap.State.Phase()),
		"elapsed":             domain.FormatElapsed(snap.State.ElapsedSeconds),
		"elapsed_seconds":     snap.State.ElapsedSeconds,
		"session_fraction":    snap.SessionFraction,
		"batch_fraction":      snap.BatchFraction,
		"completed_sessions":  snap.CompletedSessions,
		"permission_declined": state.PermissionDeclined,
	}
	if snap.State.IsRunning {
		result["session_length"] = snap.Config.SessionLabel()
		result["total"] = snap.Config.TotalLabel()
	} else if len(state.RecentRuns) > 0 {
		result["last_run"] = runToMap(state.RecentRuns[0])
	}

	return jsonResult(result)
}

// handleListRuns handles the list_runs tool.
func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultRunLimit)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}
	outcome := request.GetString("outcome", "")

	runs, err := s.stateProvider.GetRecentRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	var items []map[string]interface{}
	for _, run := range runs {
		if outcome != "" && string(run.Outcome) != outcome {
			continue
		}
		items = append(items, runToMap(run))
	}

	result := map[string]interface{}{
		"runs":        items,
		"total_count": len(items),
	}
	if outcome != "" {
		result["filter_outcome"] = outcome
	}

	return jsonResult(result)
}

// handleGetPermissionState handles the get_permission_state tool.
func (s *Server) handleGetPermissionState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.GetCurrentState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get permission state: %w", err)
	}

	view := domain.GateAskAgain
	if state.PermissionDeclined {
		view = domain.GateDeclined
	}

	return jsonResult(map[string]interface{}{
		"permission": domain.PermissionPostNotifications,
		"declined":   state.PermissionDeclined,
		"view":       domain.GetGateViewLabel(view),
	})
}

// handleResetPermission handles the reset_permission tool.
func (s *Server) handleResetPermission(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	confirm, err := request.RequireString("confirm")
	if err != nil {
		return mcp.NewToolResultError("confirm is required"), nil
	}
	if confirm != "yes" {
		return mcp.NewToolResultError("confirm must be \"yes\""), nil
	}

	if err := s.stateProvider.ResetPermission(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset permission: %w", err)
	}
	s.logger.Info("permission reset via MCP")

	return mcp.NewToolResultText("Notification permission reset. arc will ask again on next start."), nil
}

func runToMap(run *domain.TimerRun) map[string]interface{} {
	cfg := run.Config()
	m := map[string]interface{}{
		"id":                 run.ID,
		"session_length":     cfg.SessionLabel(),
		"total":              cfg.TotalLabel(),
		"elapsed":            domain.FormatElapsed(run.ElapsedSeconds),
		"completed_sessions": run.CompletedSessions,
		"outcome":            domain.GetOutcomeLabel(run.Outcome),
		"started_at":         run.StartedAt.Format(time.RFC3339),
		"ended_at":           run.EndedAt.Format(time.RFC3339),
	}
	if run.GitBranch != "" {
		m["git_branch"] = run.GitBranch
		m["git_commit"] = run.GitCommit
	}
	return m
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
