package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeCmd is a helper to execute a cobra command in tests
func executeCmd(cmd *cobra.Command, args ...string) (stdout string, stderr string, err error) {
	bufOut := new(bytes.Buffer)
	bufErr := new(bytes.Buffer)

	cmd.SetOut(bufOut)
	cmd.SetErr(bufErr)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return bufOut.String(), bufErr.String(), err
}

// isolate points HOME at a temp dir and resets the global flags.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	dbPath, configPath, jsonOutput = "", "", false
	t.Cleanup(func() { dbPath, configPath, jsonOutput = "", "", false })
	return home
}

// executeIn runs rootCmd with the database and the config file inside home.
func executeIn(home string, args ...string) (string, error) {
	dbPath, configPath, jsonOutput = "", "", false
	args = append(args,
		"--db", filepath.Join(home, "arc.db"),
		"--config", filepath.Join(home, "config.toml"),
	)
	stdout, _, err := executeCmd(rootCmd, args...)
	return stdout, err
}

func TestRootCmd_Use(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}

	if rootCmd.Use != "arc" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "arc")
	}
}

func TestRootCmd_Help(t *testing.T) {
	stdout, _, err := executeCmd(rootCmd, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}

	if !strings.Contains(stdout, "arc") {
		t.Error("help output should contain 'arc'")
	}
}

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"db", "config", "json"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("--%s flag should be registered", name)
		}
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	want := []string{"start", "status", "permission", "config", "mcp"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
