// Package fsio is the FileReader external collaborator: it reads bytes
// from a canonical path and distinguishes "missing" from any other
// error, so the resolver knows whether to fall through to the next
// config name or treat the failure as fatal.
package fsio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/basket/configwatch/internal/canon"
)

// ErrIsDirectory is returned when the target path names a directory
// rather than a regular file.
var ErrIsDirectory = errors.New("fsio: path is a directory")

// Reader reads file contents. It is implemented by Disk in production
// and can be faked in tests.
type Reader interface {
	Read(path canon.Path) ([]byte, error)
}

// Disk is the real, os-backed Reader.
type Disk struct{}

// Read reads the bytes at path. A missing file is reported as an error
// satisfying errors.Is(err, fs.ErrNotExist); callers use that to decide
// whether to keep searching.
func (Disk) Read(path canon.Path) ([]byte, error) {
	info, err := os.Stat(path.String())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("fsio: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	data, err := os.ReadFile(path.String())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("fsio: read %s: %w", path, err)
	}
	return data, nil
}

// IsNotFound reports whether err indicates the target file does not
// exist, as opposed to any other read failure.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
