package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProgressPlain = "plain"
	ProgressTUI   = "tui"
)

type Config struct {
	// Session
	SessionDir  string `yaml:"session_dir"`
	TriggerFile string `yaml:"trigger_file"`

	// Export
	OutputDir           string `yaml:"output_dir"`
	CaptureTimeoutMS    int    `yaml:"capture_timeout_ms"`
	OverwriteExisting   bool   `yaml:"overwrite_existing"`
	CopyPathToClipboard bool   `yaml:"copy_path_to_clipboard"`
	HistoryLimit        int    `yaml:"history_limit"`

	// UI Settings
	ProgressStyle    string `yaml:"progress_style"`
	NotifyDurationMS int    `yaml:"notify_duration_ms"`
	ColorTheme       string `yaml:"color_theme"`

	// Diagnostics
	LogLevel string `yaml:"log_level"`

	// Performance
	WatchDebounceMS int `yaml:"watch_debounce_ms"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		SessionDir:          "",
		TriggerFile:         "export.request",
		OutputDir:           "",
		CaptureTimeoutMS:    30000,
		OverwriteExisting:   false,
		CopyPathToClipboard: false,
		HistoryLimit:        100,
		ProgressStyle:       ProgressPlain,
		NotifyDurationMS:    2000,
		ColorTheme:          "auto",
		LogLevel:            "warning",
		WatchDebounceMS:     500,
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// A missing file means defaults
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing
	if cfg.TriggerFile == "" {
		cfg.TriggerFile = "export.request"
	}
	if cfg.CaptureTimeoutMS < 0 {
		cfg.CaptureTimeoutMS = 30000
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 100
	}
	if cfg.NotifyDurationMS <= 0 {
		cfg.NotifyDurationMS = 2000
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 500
	}
	if cfg.ColorTheme == "" {
		cfg.ColorTheme = "auto"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warning"
	}

	if !isValidProgressStyle(cfg.ProgressStyle) {
		cfg.ProgressStyle = ProgressPlain
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CaptureTimeout is the bounded wait for a surface encode (0 waits forever)
func (c *Config) CaptureTimeout() time.Duration {
	return time.Duration(c.CaptureTimeoutMS) * time.Millisecond
}

// NotifyDuration is how long progress notifications stay up
func (c *Config) NotifyDuration() time.Duration {
	return time.Duration(c.NotifyDurationMS) * time.Millisecond
}

// WatchDebounce is the quiet period before a trigger runs an export
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMS) * time.Millisecond
}

// isValidProgressStyle checks if the progress style is known
func isValidProgressStyle(style string) bool {
	validStyles := []string{ProgressPlain, ProgressTUI}
	for _, valid := range validStyles {
		if style == valid {
			return true
		}
	}
	return false
}
