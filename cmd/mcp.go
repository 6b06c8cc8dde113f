package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/arc-cli/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server provides tools for querying the timer, recent runs and the permission state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol
		errOut := cmd.ErrOrStderr()
		fmt.Fprintln(errOut, "Starting MCP server on stdio. Press Ctrl+C to stop.")

		ctx := setupSignalHandler()

		server := mcp.NewServer(app.state, Version, app.logger.Named("mcp"))
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
