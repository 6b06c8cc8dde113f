package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var permissionCmd = &cobra.Command{
	Use:   "permission",
	Short: "Inspect or reset the notification permission",
}

var permissionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show whether notifications were declined",
	RunE: func(cmd *cobra.Command, args []string) error {
		declined, err := app.state.PermissionDeclined(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			data, err := json.MarshalIndent(map[string]interface{}{
				"declined":       declined,
				"runtime_prompt": app.config.Permission.RuntimePrompt,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal permission: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if declined {
			fmt.Fprintln(out, "Notifications were declined. arc will not ask again until you run `arc permission reset`.")
		} else {
			fmt.Fprintln(out, "Notifications were not declined.")
		}
		return nil
	},
}

var permissionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget a declined permission so arc asks again",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.state.ResetPermission(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Permission reset. arc will ask again on the next start.")
		return nil
	},
}

func init() {
	permissionCmd.AddCommand(permissionShowCmd)
	permissionCmd.AddCommand(permissionResetCmd)
}
