// Package config loads application configuration from a YAML file with
// environment variable overrides.
//
// Precedence (highest to lowest):
//  1. Environment variables (CRONOS_GRACE_PERIOD, CRONOS_DB_PATH, ...)
//  2. YAML config file (~/.config/cronos/config.yaml)
//  3. Hardcoded defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "CRONOS_"

// Config holds the complete cronos configuration
type Config struct {
	// DBPath is the SQLite database file; empty means the default
	// data directory
	DBPath string `koanf:"db_path"`

	// LogPath is the log file; the TUI owns the terminal so logs never
	// go to stdout. Empty disables logging.
	LogPath string `koanf:"log_path"`

	// GracePeriod is how long past its scheduled time a pending task
	// may sit before it reads as late and the sweeper marks it missed
	GracePeriod time.Duration `koanf:"grace_period"`

	// SnoozeStep is the amount a single snooze pushes a task forward
	SnoozeStep time.Duration `koanf:"snooze_step"`

	// SweepInterval is the cadence of the background evaluation that
	// rolls the day over and persists missed tasks
	SweepInterval time.Duration `koanf:"sweep_interval"`

	// HistoryDays is how far back the analytics charts aggregate
	HistoryDays int `koanf:"history_days"`
}

// Load reads configuration from the given YAML file (default path when
// empty), then applies CRONOS_* environment overrides and defaults.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "cronos", "config.yaml")
	}

	if content, err := os.ReadFile(configPath); err == nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// CRONOS_GRACE_PERIOD -> grace_period
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.GracePeriod == 0 {
		cfg.GracePeriod = time.Hour
	}
	if cfg.SnoozeStep == 0 {
		cfg.SnoozeStep = 30 * time.Minute
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.HistoryDays == 0 {
		cfg.HistoryDays = 7
	}
}

// Validate rejects configurations the scheduler cannot run with
func (c *Config) Validate() error {
	if c.GracePeriod < 0 {
		return fmt.Errorf("grace_period must not be negative, got %s", c.GracePeriod)
	}
	if c.SnoozeStep <= 0 {
		return fmt.Errorf("snooze_step must be positive, got %s", c.SnoozeStep)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be positive, got %s", c.SweepInterval)
	}
	if c.HistoryDays <= 0 {
		return fmt.Errorf("history_days must be positive, got %d", c.HistoryDays)
	}
	return nil
}
