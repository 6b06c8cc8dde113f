package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/xvierd/arc-cli/internal/adapters/prompt"
	"github.com/xvierd/arc-cli/internal/adapters/tui"
	"github.com/xvierd/arc-cli/internal/domain"
	"github.com/xvierd/arc-cli/internal/services"
)

var (
	startTotal   string
	startSession string
)

// errPermissionDeclined is returned when the user declined notifications before.
var errPermissionDeclined = errors.New("notifications were declined; run `arc permission reset` to be asked again")

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a countdown inline",
	Long: `Start a countdown in the current terminal without the full-screen interface.
Use --total and --session to skip the pickers. Both accept a preset label
("90", "until") or a number of minutes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		interactive := term.IsTerminal(os.Stdin.Fd()) && !jsonOutput
		if err := selectStartConfig(app.sessions, startTotal, startSession, interactive); err != nil {
			if errors.Is(err, errPickerAborted) {
				return nil
			}
			return err
		}

		coord := app.newCoordinator(prompt.New(app.config.Permission.RuntimePrompt))
		defer coord.Close()

		if err := passGate(ctx, coord.Gate); err != nil {
			return err
		}
		if err := coord.OnStartService(); err != nil {
			return err
		}

		final, err := tui.RunInline(ctx, coord.Timer, coord.ActiveConfig(), &app.config.Theme)
		if err != nil {
			return err
		}
		return printRunResult(cmd.OutOrStdout(), final, jsonOutput)
	},
}

func init() {
	startCmd.Flags().StringVarP(&startTotal, "total", "t", "", "Total duration: 60, 90, until (or minutes)")
	startCmd.Flags().StringVarP(&startSession, "session", "s", "", "Session length: 10, 15 (or minutes)")
}

var errPickerAborted = errors.New("picker aborted")

// selectStartConfig applies the flag values to sessions, falling back to the
// pickers for missing values when interactive.
func selectStartConfig(sessions *services.SessionService, total, session string, interactive bool) error {
	if total != "" {
		minutes, err := parsePreset(total, sessions.MatchTotal)
		if err != nil {
			return fmt.Errorf("invalid --total: %w", err)
		}
		if err := sessions.SelectTotal(minutes); err != nil {
			return err
		}
	} else if interactive {
		if err := pickPreset("Total:", sessions.TotalPresets(), sessions.SelectedTotal(), sessions.SelectTotal); err != nil {
			return err
		}
	}

	if session != "" {
		minutes, err := parsePreset(session, sessions.MatchSession)
		if err != nil {
			return fmt.Errorf("invalid --session: %w", err)
		}
		if err := sessions.SelectSession(minutes); err != nil {
			return err
		}
	} else if interactive {
		if err := pickPreset("Session:", sessions.SessionPresets(), sessions.SelectedSession(), sessions.SelectSession); err != nil {
			return err
		}
	}
	return nil
}

// parsePreset reads a positive number of minutes or fuzzy-matches a preset label.
func parsePreset(value string, match func(string) (services.Preset, bool)) (int, error) {
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return n, nil
	}
	p, ok := match(value)
	if !ok {
		return 0, fmt.Errorf("%w: no preset matches %q", domain.ErrInvalidSessionConfig, value)
	}
	return p.Minutes, nil
}

func pickPreset(title string, presets []services.Preset, selected int, apply func(int) error) error {
	res := tui.RunPresetPicker(title, presets, tui.PresetIndex(presets, selected), &app.config.Theme)
	if res.Aborted {
		return errPickerAborted
	}
	return apply(presets[res.Index].Minutes)
}

// passGate resolves the permission gate and asks once when nothing is stored.
func passGate(ctx context.Context, gate *services.PermissionGate) error {
	d := gate.Resolve(ctx)
	if d == domain.DecisionNotYetAsked {
		var err error
		d, err = gate.Request(ctx)
		if err != nil {
			return err
		}
	}

	switch d {
	case domain.DecisionGranted:
		return nil
	case domain.DecisionDenied:
		return errPermissionDeclined
	default:
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("permission state is %s", domain.GetGateViewLabel(gate.View()))
	}
}

// printRunResult prints how the run ended.
func printRunResult(w io.Writer, final domain.TimerSnapshot, asJSON bool) error {
	if asJSON {
		result := map[string]interface{}{
			"outcome":            string(final.Outcome),
			"elapsed_seconds":    final.FinalElapsedSeconds,
			"completed_sessions": finalSessions(final),
			"session_seconds":    final.Config.SessionLengthSeconds,
			"total_seconds":      final.Config.TotalDurationSeconds,
		}
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(w, string(jsonData))
		return nil
	}

	fmt.Fprintf(w, "%s after %s (%d sessions)\n",
		domain.GetOutcomeLabel(final.Outcome),
		domain.FormatElapsed(final.FinalElapsedSeconds),
		finalSessions(final))
	return nil
}

func finalSessions(final domain.TimerSnapshot) int {
	if final.Config.SessionLengthSeconds <= 0 {
		return 0
	}
	return final.FinalElapsedSeconds / final.Config.SessionLengthSeconds
}
