package otel

import (
	"context"
	"testing"
)

func TestNewMetrics_AllInstrumentsCreated(t *testing.T) {
	p, err := Init(context.Background(), Config{
		Enabled:  true,
		Exporter: "none",
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer p.Shutdown(context.Background())

	m, err := NewMetrics(p.Meter)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	if m.ResolveDuration == nil {
		t.Error("ResolveDuration is nil")
	}
	if m.RefreshDuration == nil {
		t.Error("RefreshDuration is nil")
	}
	if m.ChangesEmitted == nil {
		t.Error("ChangesEmitted is nil")
	}
	if m.WatchInstallFailures == nil {
		t.Error("WatchInstallFailures is nil")
	}
	if m.CacheSize == nil {
		t.Error("CacheSize is nil")
	}
	if m.WatchedDirectories == nil {
		t.Error("WatchedDirectories is nil")
	}
}

func TestNewMetrics_NoopMeter(t *testing.T) {
	// Disabled OTel returns noop meter — metrics should still create without error.
	p, err := Init(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer p.Shutdown(context.Background())

	m, err := NewMetrics(p.Meter)
	if err != nil {
		t.Fatalf("NewMetrics with noop: %v", err)
	}
	if m == nil {
		t.Fatal("expected non-nil Metrics")
	}
}
