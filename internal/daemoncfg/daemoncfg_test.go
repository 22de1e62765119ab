package daemoncfg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/basket/configwatch/internal/daemoncfg"
)

func TestLoad_FromHomeDir(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(home, "config.yaml"),
		[]byte("bind_addr: 127.0.0.1:9999\nsafety_net_interval_seconds: 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIGWATCHD_HOME", home)

	cfg, err := daemoncfg.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BindAddr != "127.0.0.1:9999" {
		t.Fatalf("expected bind_addr override, got %q", cfg.BindAddr)
	}
	if cfg.SafetyNetIntervalSeconds != 10 {
		t.Fatalf("expected safety_net_interval_seconds=10, got %d", cfg.SafetyNetIntervalSeconds)
	}
}

func TestLoad_MissingConfigYAMLUsesDefaults(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	t.Setenv("CONFIGWATCHD_HOME", home)

	cfg, err := daemoncfg.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BindAddr == "" {
		t.Fatal("expected default bind_addr")
	}
	if cfg.SafetyNetIntervalSeconds != 30 {
		t.Fatalf("expected default safety_net_interval_seconds=30, got %d", cfg.SafetyNetIntervalSeconds)
	}
}

func TestLoad_EnvOverridesWinOverFile(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(home, "config.yaml"),
		[]byte("log_level: info\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIGWATCHD_HOME", home)
	t.Setenv("CONFIGWATCHD_LOG_LEVEL", "debug")

	cfg, err := daemoncfg.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected env override to win, got %q", cfg.LogLevel)
	}
}

func TestSafetyNetInterval_Conversion(t *testing.T) {
	cfg := daemoncfg.Config{SafetyNetIntervalSeconds: 5}
	if got := cfg.SafetyNetInterval().Seconds(); got != 5 {
		t.Fatalf("expected 5s, got %v", got)
	}
}
