package fsio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/basket/configwatch/internal/canon"
	"github.com/basket/configwatch/internal/fsio"
)

func canonOf(t *testing.T, path string) canon.Path {
	t.Helper()
	res, err := canon.Canonicalize(path)
	if err != nil {
		t.Fatalf("Canonicalize(%s): %v", path, err)
	}
	return res.Canonical()
}

func TestDisk_Read_Found(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "quick-lint-js.config")
	if err := os.WriteFile(file, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := (fsio.Disk{}).Read(canonOf(t, file))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "{}" {
		t.Fatalf("got %q", data)
	}
}

func TestDisk_Read_NotFound(t *testing.T) {
	dir := t.TempDir()
	res, _ := canon.Canonicalize(dir)
	missing := res.Canonical().Join("quick-lint-js.config")

	_, err := (fsio.Disk{}).Read(missing)
	if !fsio.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDisk_Read_IsDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "quick-lint-js.config")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := (fsio.Disk{}).Read(canonOf(t, sub))
	if err == nil || fsio.IsNotFound(err) {
		t.Fatalf("expected ErrIsDirectory-wrapped error, got %v", err)
	}
}
