// Package config provides configuration management for arc.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/arc-cli/internal/domain"
)

// Config holds all configuration for the arc application.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Permission    PermissionConfig   `mapstructure:"permission"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Log           LogConfig          `mapstructure:"log"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// TimerConfig holds the countdown defaults offered on the start screen.
type TimerConfig struct {
	SessionMinutes int      `mapstructure:"session_minutes"`
	TotalMinutes   int      `mapstructure:"total_minutes"`
	TickInterval   Duration `mapstructure:"tick_interval"`
	SweepDegrees   float64  `mapstructure:"sweep_degrees"`
}

// PermissionConfig holds settings for the notification permission gate.
type PermissionConfig struct {
	LoadDelay     Duration `mapstructure:"load_delay"`
	RuntimePrompt bool     `mapstructure:"runtime_prompt"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ThemeConfig holds theme colors.
type ThemeConfig struct {
	ColorSession       string `mapstructure:"color_session"`
	ColorBatch         string `mapstructure:"color_batch"`
	ColorTrack         string `mapstructure:"color_track"`
	ColorTitle         string `mapstructure:"color_title"`
	ColorSelected      string `mapstructure:"color_selected"`
	ColorHelp          string `mapstructure:"color_help"`
	ColorWarning       string `mapstructure:"color_warning"`
	SessionGradientEnd string `mapstructure:"session_gradient_end"`
	BatchGradientEnd   string `mapstructure:"batch_gradient_end"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorSession:       "#3B82F6",
		ColorBatch:         "#D946EF",
		ColorTrack:         "#D1D5DB",
		ColorTitle:         "#6B7280",
		ColorSelected:      "#7C6FE0",
		ColorHelp:          "#95A5A6",
		ColorWarning:       "#F59E0B",
		SessionGradientEnd: "#60A5FA",
		BatchGradientEnd:   "#F0ABFC",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			SessionMinutes: 10,
			TotalMinutes:   60,
			TickInterval:   Duration(time.Second),
			SweepDegrees:   domain.SweepDegrees,
		},
		Permission: PermissionConfig{
			LoadDelay:     Duration(5 * time.Second),
			RuntimePrompt: true,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   false,
		},
		Storage: StorageConfig{
			DataDir: "~/.arc",
		},
		Log: LogConfig{
			Level: "info",
			File:  "arc.log",
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the default config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath, creating it with
// defaults when it does not exist yet.
func LoadFrom(configPath string) (*Config, error) {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand ~ in data directory
	if cfg.Storage.DataDir == "~/.arc" || cfg.Storage.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.Storage.DataDir = filepath.Join(homeDir, ".arc")
	}

	return &cfg, nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg to configPath as TOML.
func SaveTo(configPath string, cfg *Config) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("timer.session_minutes", cfg.Timer.SessionMinutes)
	v.Set("timer.total_minutes", cfg.Timer.TotalMinutes)
	v.Set("timer.tick_interval", cfg.Timer.TickInterval.String())
	v.Set("timer.sweep_degrees", cfg.Timer.SweepDegrees)
	v.Set("permission.load_delay", cfg.Permission.LoadDelay.String())
	v.Set("permission.runtime_prompt", cfg.Permission.RuntimePrompt)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("theme.color_session", cfg.Theme.ColorSession)
	v.Set("theme.color_batch", cfg.Theme.ColorBatch)
	v.Set("theme.color_track", cfg.Theme.ColorTrack)
	v.Set("theme.color_title", cfg.Theme.ColorTitle)
	v.Set("theme.color_selected", cfg.Theme.ColorSelected)
	v.Set("theme.color_help", cfg.Theme.ColorHelp)
	v.Set("theme.color_warning", cfg.Theme.ColorWarning)
	v.Set("theme.session_gradient_end", cfg.Theme.SessionGradientEnd)
	v.Set("theme.batch_gradient_end", cfg.Theme.BatchGradientEnd)

	return v.WriteConfigAs(configPath)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".arc", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "arc.db")
}

// GetLogPath returns the path to the log file.
func GetLogPath(cfg *Config) string {
	if filepath.IsAbs(cfg.Log.File) {
		return cfg.Log.File
	}
	return filepath.Join(cfg.Storage.DataDir, cfg.Log.File)
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("timer.session_minutes", defaults.Timer.SessionMinutes)
	v.SetDefault("timer.total_minutes", defaults.Timer.TotalMinutes)
	v.SetDefault("timer.tick_interval", defaults.Timer.TickInterval.String())
	v.SetDefault("timer.sweep_degrees", defaults.Timer.SweepDegrees)
	v.SetDefault("permission.load_delay", defaults.Permission.LoadDelay.String())
	v.SetDefault("permission.runtime_prompt", defaults.Permission.RuntimePrompt)
	v.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	v.SetDefault("notifications.sound", defaults.Notifications.Sound)
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)

	theme := DefaultThemeConfig()
	v.SetDefault("theme.color_session", theme.ColorSession)
	v.SetDefault("theme.color_batch", theme.ColorBatch)
	v.SetDefault("theme.color_track", theme.ColorTrack)
	v.SetDefault("theme.color_title", theme.ColorTitle)
	v.SetDefault("theme.color_selected", theme.ColorSelected)
	v.SetDefault("theme.color_help", theme.ColorHelp)
	v.SetDefault("theme.color_warning", theme.ColorWarning)
	v.SetDefault("theme.session_gradient_end", theme.SessionGradientEnd)
	v.SetDefault("theme.batch_gradient_end", theme.BatchGradientEnd)
}

// ToSessionConfig converts the timer defaults to a domain SessionConfig.
func (c *Config) ToSessionConfig() (domain.SessionConfig, error) {
	return domain.NewSessionConfig(c.Timer.SessionMinutes, c.Timer.TotalMinutes)
}

// TickInterval returns the tick period, falling back to one second.
func (c *Config) TickInterval() time.Duration {
	d := time.Duration(c.Timer.TickInterval)
	if d <= 0 {
		return time.Second
	}
	return d
}

// SweepDegrees returns the angular range of a full timer ring, falling back
// to the built-in range outside (0, 360].
func (c *Config) SweepDegrees() float64 {
	d := c.Timer.SweepDegrees
	if d <= 0 || d > 360 {
		return domain.SweepDegrees
	}
	return d
}

// LoadDelay returns the artificial delay before the permission read.
func (c *Config) LoadDelay() time.Duration {
	d := time.Duration(c.Permission.LoadDelay)
	if d < 0 {
		return 0
	}
	return d
}
