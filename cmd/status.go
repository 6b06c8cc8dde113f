package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xvierd/arc-cli/internal/adapters/git"
	"github.com/xvierd/arc-cli/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current status",
	Long:  `Display the notification permission state and the runs of the last seven days.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := app.state.GetCurrentState(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get current state: %w", err)
		}

		if jsonOutput {
			return outputStatusJSON(cmd.OutOrStdout(), state)
		}
		printStatusText(cmd.OutOrStdout(), state)
		return nil
	},
}

// statusJSON builds the map printed by status --json.
func statusJSON(state *domain.CurrentState) map[string]interface{} {
	runs := make([]map[string]interface{}, 0, len(state.RecentRuns))
	for _, run := range state.RecentRuns {
		runs = append(runs, map[string]interface{}{
			"id":                 run.ID,
			"outcome":            string(run.Outcome),
			"elapsed_seconds":    run.ElapsedSeconds,
			"completed_sessions": run.CompletedSessions,
			"session_seconds":    run.SessionLengthSeconds,
			"total_seconds":      run.TotalDurationSeconds,
			"started_at":         run.StartedAt.Format("2006-01-02T15:04:05"),
			"git_branch":         run.GitBranch,
			"git_commit":         run.GitCommit,
		})
	}

	return map[string]interface{}{
		"permission_declined": state.PermissionDeclined,
		"timer": map[string]interface{}{
			"running":         state.Timer.State.IsRunning,
			"elapsed_seconds": state.Timer.State.ElapsedSeconds,
		},
		"recent_runs": runs,
	}
}

// outputStatusJSON outputs the status in JSON format
func outputStatusJSON(w io.Writer, state *domain.CurrentState) error {
	jsonData, err := json.MarshalIndent(statusJSON(state), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	fmt.Fprintln(w, string(jsonData))
	return nil
}

// printStatusText prints the status in plain text format
func printStatusText(w io.Writer, state *domain.CurrentState) {
	if state.PermissionDeclined {
		fmt.Fprintln(w, "Notifications: declined (run `arc permission reset` to be asked again)")
	} else {
		fmt.Fprintln(w, "Notifications: not declined")
	}

	if len(state.RecentRuns) == 0 {
		fmt.Fprintln(w, "\nNo runs in the last 7 days.")
		return
	}

	fmt.Fprintf(w, "\nRecent runs:\n")
	for _, run := range state.RecentRuns {
		cfg := run.Config()
		fmt.Fprintf(w, "   %s  %-9s  %s  %s / %s  (%d sessions)",
			run.StartedAt.Format("Jan 02 15:04"),
			domain.GetOutcomeLabel(run.Outcome),
			domain.FormatElapsed(run.ElapsedSeconds),
			cfg.SessionLabel(),
			cfg.TotalLabel(),
			run.CompletedSessions)
		if run.GitBranch != "" {
			fmt.Fprintf(w, "  %s (%s)", run.GitBranch, git.ShortCommit(run.GitCommit))
		}
		fmt.Fprintln(w)
	}
}
