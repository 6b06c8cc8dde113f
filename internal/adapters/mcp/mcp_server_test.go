package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xvierd/arc-cli/internal/domain"
)

// mockStateProvider is a mock implementation of ports.MCPStateProvider for testing.
type mockStateProvider struct {
	currentState *domain.CurrentState
	runs         []*domain.TimerRun
	resetCalls   int
	err          error
}

func (m *mockStateProvider) GetCurrentState(ctx context.Context) (*domain.CurrentState, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.currentState, nil
}

func (m *mockStateProvider) GetRecentRuns(ctx context.Context, limit int) ([]*domain.TimerRun, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.runs) > limit {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *mockStateProvider) ResetPermission(ctx context.Context) error {
	m.resetCalls++
	return m.err
}

func newRun(outcome domain.RunOutcome, elapsed int) *domain.TimerRun {
	run := domain.NewTimerRun(domain.DefaultSessionConfig(), time.Now().Add(-time.Hour))
	run.Finish(elapsed, outcome, time.Now())
	return run
}

func callArgs(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Content[0])
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(text.Text), &out); err != nil {
		t.Fatalf("result is not JSON: %v\n%s", err, text.Text)
	}
	return out
}

func TestNewServer(t *testing.T) {
	mock := &mockStateProvider{}
	server := NewServer(mock, "test", nil)

	if server == nil {
		t.Fatal("NewServer() returned nil")
	}
	if server.stateProvider != mock {
		t.Error("NewServer() did not set state provider correctly")
	}
	if server.server == nil {
		t.Error("NewServer() did not create MCP server")
	}
}

func TestServer_IsRunning(t *testing.T) {
	server := NewServer(&mockStateProvider{}, "test", nil)

	if server.IsRunning() {
		t.Error("IsRunning() should return false before Start()")
	}
	if err := server.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestServer_handleGetTimerState(t *testing.T) {
	cfg := domain.DefaultSessionConfig()
	mock := &mockStateProvider{
		currentState: &domain.CurrentState{
			PermissionDeclined: true,
			Timer:              domain.NewTimerSnapshot(cfg, domain.TimerState{ElapsedSeconds: 900, IsRunning: true}),
		},
	}

	server := NewServer(mock, "test", nil)
	result, err := server.handleGetTimerState(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetTimerState() error = %v", err)
	}

	out := resultJSON(t, result)
	if out["elapsed"] != "15:00" {
		t.Errorf("elapsed = %v, want 15:00", out["elapsed"])
	}
	if out["phase"] != "running" {
		t.Errorf("phase = %v, want running", out["phase"])
	}
	if out["completed_sessions"] != float64(1) {
		t.Errorf("completed_sessions = %v, want 1", out["completed_sessions"])
	}
	if out["session_fraction"] != 0.5 {
		t.Errorf("session_fraction = %v, want 0.5", out["session_fraction"])
	}
	if out["permission_declined"] != true {
		t.Errorf("permission_declined = %v, want true", out["permission_declined"])
	}
	if out["total"] != "60 Min" {
		t.Errorf("total = %v, want 60 Min", out["total"])
	}
}

func TestServer_handleGetTimerState_Idle(t *testing.T) {
	mock := &mockStateProvider{currentState: &domain.CurrentState{}}
	server := NewServer(mock, "test", nil)

	result, err := server.handleGetTimerState(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetTimerState() error = %v", err)
	}
	out := resultJSON(t, result)
	if out["phase"] != "idle" {
		t.Errorf("phase = %v, want idle", out["phase"])
	}
	if _, ok := out["total"]; ok {
		t.Error("idle state should not report a total")
	}
	if _, ok := out["last_run"]; ok {
		t.Error("no runs recorded, last_run should be absent")
	}
}

func TestServer_handleGetTimerState_IdleReportsLastRun(t *testing.T) {
	last := newRun(domain.OutcomeCancelled, 1320)
	mock := &mockStateProvider{currentState: &domain.CurrentState{
		RecentRuns: []*domain.TimerRun{last, newRun(domain.OutcomeCompleted, 3600)},
	}}
	server := NewServer(mock, "test", nil)

	result, err := server.handleGetTimerState(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetTimerState() error = %v", err)
	}
	out := resultJSON(t, result)
	run, ok := out["last_run"].(map[string]interface{})
	if !ok {
		t.Fatalf("last_run = %v, want the most recent run", out["last_run"])
	}
	if run["id"] != last.ID || run["elapsed"] != "22:00" {
		t.Errorf("last_run = %v, want run %s at 22:00", run, last.ID)
	}
}

func TestServer_handleGetTimerState_Error(t *testing.T) {
	mock := &mockStateProvider{err: errors.New("db closed")}
	server := NewServer(mock, "test", nil)

	if _, err := server.handleGetTimerState(context.Background(), mcp.CallToolRequest{}); err == nil {
		t.Error("handleGetTimerState() should fail when the provider fails")
	}
}

func TestServer_handleListRuns(t *testing.T) {
	mock := &mockStateProvider{
		runs: []*domain.TimerRun{
			newRun(domain.OutcomeCompleted, 3600),
			newRun(domain.OutcomeCancelled, 125),
			newRun(domain.OutcomeCompleted, 3600),
		},
	}
	server := NewServer(mock, "test", nil)

	tests := []struct {
		name      string
		args      map[string]interface{}
		wantCount float64
		isError   bool
	}{
		{"all", nil, 3, false},
		{"limited", map[string]interface{}{"limit": float64(2)}, 2, false},
		{"completed only", map[string]interface{}{"outcome": "completed"}, 2, false},
		{"cancelled only", map[string]interface{}{"outcome": "cancelled"}, 1, false},
		{"bad limit", map[string]interface{}{"limit": float64(0)}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := server.handleListRuns(context.Background(), callArgs(tt.args))
			if err != nil {
				t.Fatalf("handleListRuns() error = %v", err)
			}
			if tt.isError {
				if !result.IsError {
					t.Error("handleListRuns() should return a tool error")
				}
				return
			}
			out := resultJSON(t, result)
			if out["total_count"] != tt.wantCount {
				t.Errorf("total_count = %v, want %v", out["total_count"], tt.wantCount)
			}
		})
	}
}

func TestServer_handleListRuns_Fields(t *testing.T) {
	mock := &mockStateProvider{runs: []*domain.TimerRun{newRun(domain.OutcomeCancelled, 125)}}
	server := NewServer(mock, "test", nil)

	result, err := server.handleListRuns(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleListRuns() error = %v", err)
	}
	out := resultJSON(t, result)
	runs, ok := out["runs"].([]interface{})
	if !ok || len(runs) != 1 {
		t.Fatalf("runs = %v", out["runs"])
	}
	run := runs[0].(map[string]interface{})
	if run["elapsed"] != "02:05" {
		t.Errorf("elapsed = %v, want 02:05", run["elapsed"])
	}
	if run["outcome"] != "Cancelled" {
		t.Errorf("outcome = %v, want Cancelled", run["outcome"])
	}
	if run["session_length"] != "10 Min" {
		t.Errorf("session_length = %v, want 10 Min", run["session_length"])
	}
}

func TestServer_handleGetPermissionState(t *testing.T) {
	tests := []struct {
		declined bool
		wantView string
	}{
		{false, "Ask Again"},
		{true, "Declined"},
	}

	for _, tt := range tests {
		t.Run(tt.wantView, func(t *testing.T) {
			mock := &mockStateProvider{currentState: &domain.CurrentState{PermissionDeclined: tt.declined}}
			server := NewServer(mock, "test", nil)

			result, err := server.handleGetPermissionState(context.Background(), mcp.CallToolRequest{})
			if err != nil {
				t.Fatalf("handleGetPermissionState() error = %v", err)
			}
			out := resultJSON(t, result)
			if out["declined"] != tt.declined {
				t.Errorf("declined = %v, want %v", out["declined"], tt.declined)
			}
			if out["view"] != tt.wantView {
				t.Errorf("view = %v, want %v", out["view"], tt.wantView)
			}
		})
	}
}

func TestServer_handleResetPermission(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]interface{}
		isError   bool
		wantReset int
	}{
		{"missing confirm", nil, true, 0},
		{"wrong confirm", map[string]interface{}{"confirm": "no"}, true, 0},
		{"confirmed", map[string]interface{}{"confirm": "yes"}, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockStateProvider{}
			server := NewServer(mock, "test", nil)

			result, err := server.handleResetPermission(context.Background(), callArgs(tt.args))
			if err != nil {
				t.Fatalf("handleResetPermission() error = %v", err)
			}
			if result.IsError != tt.isError {
				t.Errorf("IsError = %v, want %v", result.IsError, tt.isError)
			}
			if mock.resetCalls != tt.wantReset {
				t.Errorf("reset calls = %d, want %d", mock.resetCalls, tt.wantReset)
			}
		})
	}
}
