// Package logging builds the hclog loggers shared by arc's services and adapters.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/xvierd/arc-cli/internal/config"
)

// New returns a logger named "arc" that writes to w at the configured level.
func New(cfg config.LogConfig, w io.Writer) hclog.Logger {
	level := hclog.LevelFromString(cfg.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "arc",
		Level:  level,
		Output: w,
	})
}

// Open creates the log file at path (and its directory) and returns a logger
// writing to it plus the closer for the file. The terminal belongs to the TUI,
// so nothing is logged to stdout.
func Open(cfg config.LogConfig, path string) (hclog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(cfg, f), f, nil
}

