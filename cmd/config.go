package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xvierd/arc-cli/internal/config"
	"github.com/xvierd/arc-cli/internal/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit timer defaults and notifications",
	Long:  `Interactively configure the default session length, the default total and notifications.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()

		printConfig(out, app.config)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  What would you like to change?")
		fmt.Fprintln(out, "    [s] Default session length")
		fmt.Fprintln(out, "    [t] Default total")
		fmt.Fprintln(out, "    [n] Toggle notifications")
		fmt.Fprintln(out, "    [q] Quit without saving")
		fmt.Fprint(out, "  Choose: ")

		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(strings.ToLower(choice))

		var err error
		switch choice {
		case "s":
			err = editSessionDefault(reader, out, app.config)
		case "t":
			err = editTotalDefault(reader, out, app.config)
		case "n":
			err = editNotifications(reader, out, app.config)
		case "q", "":
			return nil
		default:
			return fmt.Errorf("invalid choice %q", choice)
		}
		if err != nil {
			return err
		}
		return saveConfig(app.config)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		printConfig(cmd.OutOrStdout(), app.config)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := effectiveConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

func effectiveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func saveConfig(cfg *config.Config) error {
	path, err := effectiveConfigPath()
	if err != nil {
		return err
	}
	if err := config.SaveTo(path, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	defaults := "invalid"
	if sc, err := cfg.ToSessionConfig(); err == nil {
		defaults = fmt.Sprintf("%s sessions, %s total", sc.SessionLabel(), sc.TotalLabel())
	}

	notifStatus := "off"
	if cfg.Notifications.Enabled {
		notifStatus = "on"
		if cfg.Notifications.Sound {
			notifStatus = "on (with sound)"
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Current configuration:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "    Defaults:        %s\n", defaults)
	fmt.Fprintf(w, "    Tick interval:   %s\n", cfg.TickInterval())
	fmt.Fprintf(w, "    Load delay:      %s\n", cfg.LoadDelay())
	fmt.Fprintf(w, "    Runtime prompt:  %v\n", cfg.Permission.RuntimePrompt)
	fmt.Fprintf(w, "    Notifications:   %s\n", notifStatus)
	fmt.Fprintf(w, "    Data directory:  %s\n", cfg.Storage.DataDir)
	fmt.Fprintf(w, "    Log:             %s (%s)\n", config.GetLogPath(cfg), cfg.Log.Level)
}

func editSessionDefault(reader *bufio.Reader, w io.Writer, cfg *config.Config) error {
	fmt.Fprintf(w, "  Session length in minutes [%d]: ", cfg.Timer.SessionMinutes)
	minutes, err := readMinutes(reader, cfg.Timer.SessionMinutes)
	if err != nil {
		return err
	}
	if minutes <= 0 {
		return fmt.Errorf("%w: session length must be positive", domain.ErrInvalidSessionConfig)
	}
	cfg.Timer.SessionMinutes = minutes
	return nil
}

func editTotalDefault(reader *bufio.Reader, w io.Writer, cfg *config.Config) error {
	fmt.Fprintf(w, "  Total in minutes, or 'until' to run until stopped [%d]: ", cfg.Timer.TotalMinutes)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	if line == "until" {
		cfg.Timer.TotalMinutes = domain.Unbounded
		return nil
	}

	minutes, err := parseMinutes(line, cfg.Timer.TotalMinutes)
	if err != nil {
		return err
	}
	if minutes <= 0 && minutes != domain.Unbounded {
		return fmt.Errorf("%w: total must be positive", domain.ErrInvalidSessionConfig)
	}
	cfg.Timer.TotalMinutes = minutes
	return nil
}

func editNotifications(reader *bufio.Reader, w io.Writer, cfg *config.Config) error {
	fmt.Fprintf(w, "  Enable notifications? [%s]: ", yesNo(cfg.Notifications.Enabled))
	cfg.Notifications.Enabled = readYesNo(reader, cfg.Notifications.Enabled)
	if cfg.Notifications.Enabled {
		fmt.Fprintf(w, "  Play a sound? [%s]: ", yesNo(cfg.Notifications.Sound))
		cfg.Notifications.Sound = readYesNo(reader, cfg.Notifications.Sound)
	}
	return nil
}

func readMinutes(reader *bufio.Reader, current int) (int, error) {
	line, _ := reader.ReadString('\n')
	return parseMinutes(strings.TrimSpace(line), current)
}

func parseMinutes(s string, current int) (int, error) {
	if s == "" {
		return current, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number of minutes %q", s)
	}
	return n, nil
}

func readYesNo(reader *bufio.Reader, current bool) bool {
	line, _ := reader.ReadString('\n')
	switch strings.TrimSpace(strings.ToLower(line)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	}
	return current
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
