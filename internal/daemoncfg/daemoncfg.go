// Package daemoncfg loads configwatchd's own settings file — distinct
// from the per-project quick-lint-js.config files the daemon resolves
// and watches on behalf of its clients.
package daemoncfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/basket/configwatch/internal/otel"
)

// Config is configwatchd's own settings, read from config.yaml in its
// home directory.
type Config struct {
	HomeDir string `yaml:"-"`

	// BindAddr serves the health/status endpoint (cmd/configwatchd's
	// status subcommand polls it).
	BindAddr string `yaml:"bind_addr"`
	LogLevel string `yaml:"log_level"`

	// SafetyNetIntervalSeconds is the fallback poll interval: a periodic
	// Refresh runs even if the OS event channel stays silent, bounding
	// staleness when a watch install failed.
	SafetyNetIntervalSeconds int `yaml:"safety_net_interval_seconds"`

	OTel otel.Config `yaml:"otel"`

	Quiet bool `yaml:"-"`
}

// SafetyNetInterval returns SafetyNetIntervalSeconds as a time.Duration.
func (c Config) SafetyNetInterval() time.Duration {
	return time.Duration(c.SafetyNetIntervalSeconds) * time.Second
}

// HomeDir resolves configwatchd's home directory: CONFIGWATCHD_HOME if
// set, otherwise ~/.configwatchd.
func HomeDir() string {
	if override := os.Getenv("CONFIGWATCHD_HOME"); override != "" {
		return override
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".configwatchd")
}

// Load reads config.yaml from the daemon's home directory, applies
// environment overrides, and fills in defaults. A missing config.yaml
// is not an error — Load proceeds with defaults.
func Load() (Config, error) {
	cfg := defaultConfig()
	cfg.HomeDir = HomeDir()

	if err := os.MkdirAll(cfg.HomeDir, 0o755); err != nil {
		return cfg, fmt.Errorf("create configwatchd home: %w", err)
	}

	configPath := filepath.Join(cfg.HomeDir, "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config.yaml: %w", err)
		}
	} else if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config.yaml: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	normalize(&cfg)
	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		BindAddr:                 "127.0.0.1:18793",
		LogLevel:                 "info",
		SafetyNetIntervalSeconds: 30,
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CONFIGWATCHD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CONFIGWATCHD_BIND_ADDR"); v != "" {
		cfg.BindAddr = v
	}
	if v := os.Getenv("CONFIGWATCHD_OTEL_ENDPOINT"); v != "" {
		cfg.OTel.Endpoint = v
		cfg.OTel.Enabled = true
	}
}

func normalize(cfg *Config) {
	if cfg.BindAddr == "" {
		cfg.BindAddr = "127.0.0.1:18793"
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = "info"
	}
	if cfg.SafetyNetIntervalSeconds <= 0 {
		cfg.SafetyNetIntervalSeconds = 30
	}
}
