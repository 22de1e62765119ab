package lintdoctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/basket/configwatch/internal/daemoncfg"
)

func TestCheckHomeDir_Missing(t *testing.T) {
	cfg := daemoncfg.Config{HomeDir: filepath.Join(t.TempDir(), "does-not-exist")}
	result := checkHomeDir(cfg)
	if result.Status != "FAIL" {
		t.Fatalf("expected FAIL, got %s", result.Status)
	}
}

func TestCheckHomeDir_Present(t *testing.T) {
	cfg := daemoncfg.Config{HomeDir: t.TempDir()}
	result := checkHomeDir(cfg)
	if result.Status != "PASS" {
		t.Fatalf("expected PASS, got %s", result.Status)
	}
}

func TestCheckHomeDirWritable(t *testing.T) {
	cfg := daemoncfg.Config{HomeDir: t.TempDir()}
	result := checkHomeDirWritable(cfg)
	if result.Status != "PASS" {
		t.Fatalf("expected PASS, got %s", result.Status)
	}
}

func TestCheckConfigSchema_ValidGlobals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quick-lint-js.config")
	if err := os.WriteFile(path, []byte(`{"globals":{"$":true,"jQuery":{"shadowable":true}}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	result := checkConfigSchema(path)
	if result.Status != "PASS" {
		t.Fatalf("expected PASS, got %s (%s)", result.Status, result.Detail)
	}
}

func TestCheckConfigSchema_WrongShapeIsOnlyAWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quick-lint-js.config")
	if err := os.WriteFile(path, []byte(`{"globals":["not", "an", "object"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	result := checkConfigSchema(path)
	if result.Status != "WARN" {
		t.Fatalf("expected WARN (advisory only), got %s", result.Status)
	}
}

func TestCheckConfigSchema_NotJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quick-lint-js.config")
	if err := os.WriteFile(path, []byte(`not json at all`), 0o644); err != nil {
		t.Fatal(err)
	}
	result := checkConfigSchema(path)
	if result.Status != "WARN" {
		t.Fatalf("expected WARN, got %s", result.Status)
	}
}

func TestRun_SkipsSchemaCheckWithoutPath(t *testing.T) {
	cfg := daemoncfg.Config{HomeDir: t.TempDir()}
	d := Run(context.Background(), cfg, "", "test")
	found := false
	for _, r := range d.Results {
		if r.Name == "Config Schema" {
			found = true
			if r.Status != "SKIP" {
				t.Fatalf("expected SKIP, got %s", r.Status)
			}
		}
	}
	if !found {
		t.Fatal("expected a Config Schema result")
	}
	if d.System.Version != "test" {
		t.Fatalf("expected version propagation, got %q", d.System.Version)
	}
}
