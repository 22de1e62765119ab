// Package canon resolves input paths to a normalized, absolute form such
// that two paths denote the same filesystem entity iff their canonical
// forms are byte-equal.
package canon

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Path is an absolute, cleaned, symlink-resolved path. Two Paths denote
// the same entity iff they are ==.
type Path struct {
	clean string
}

// String returns the canonical path's textual form.
func (p Path) String() string {
	return p.clean
}

// IsZero reports whether p is the zero value (no path).
func (p Path) IsZero() bool {
	return p.clean == ""
}

// Parent returns p's parent directory and true, or the zero Path and
// false if p is already the filesystem root.
func (p Path) Parent() (Path, bool) {
	dir := filepath.Dir(p.clean)
	if dir == p.clean {
		return Path{}, false
	}
	return Path{clean: dir}, true
}

// Join appends a single path component to p.
func (p Path) Join(component string) Path {
	return Path{clean: filepath.Join(p.clean, component)}
}

// fromClean wraps an already-absolute, already-cleaned string. Used
// internally and by tests that need to construct a Path without touching
// the filesystem.
func fromClean(s string) Path {
	return Path{clean: filepath.Clean(s)}
}

// Result is the outcome of Canonicalize: the canonical prefix plus how
// many trailing components of the input did not exist on disk.
type Result struct {
	path         Path
	missingCount int
}

// Canonical returns the canonicalized path. If MissingTail() > 0, this is
// the canonical form of the deepest existing ancestor only.
func (r Result) Canonical() Path {
	return r.path
}

// MissingTail reports how many trailing path components (from the end of
// the input) do not currently exist on disk.
func (r Result) MissingTail() int {
	return r.missingCount
}

// HaveMissingComponents reports whether Canonicalize found any
// nonexistent trailing components.
func (r Result) HaveMissingComponents() bool {
	return r.missingCount > 0
}

// ErrNotCanonicalizable is returned by Canonicalize for failures other
// than "some trailing components don't exist yet" — e.g. a component in
// the *existing* prefix that is not a directory, or a symlink loop.
var ErrNotCanonicalizable = errors.New("canon: path cannot be canonicalized")

// Canonicalize resolves path to its canonical, absolute form, reporting
// any trailing components that do not yet exist so callers can decide
// how to treat them.
//
// Symlink resolution is delegated to filepath.EvalSymlinks on the
// longest existing prefix; this package does not attempt symlink
// semantics beyond what that stdlib call already provides.
func Canonicalize(path string) (Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{}, ErrNotCanonicalizable
	}
	abs = filepath.Clean(abs)

	components := splitComponents(abs)
	root := rootOf(abs)

	// Walk from the full path up to the root, looking for the longest
	// existing prefix. Components beyond that prefix are the missing
	// tail.
	for i := len(components); i >= 0; i-- {
		candidate := joinFromRoot(root, components[:i])
		resolved, err := filepath.EvalSymlinks(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Result{}, ErrNotCanonicalizable
		}
		return Result{
			path:         fromClean(resolved),
			missingCount: len(components) - i,
		}, nil
	}

	// Even the root doesn't exist; still a valid (if useless) result.
	return Result{path: fromClean(root), missingCount: len(components)}, nil
}

func rootOf(abs string) string {
	vol := filepath.VolumeName(abs)
	return vol + string(filepath.Separator)
}

func splitComponents(abs string) []string {
	rest := strings.TrimPrefix(abs, rootOf(abs))
	if rest == "" {
		return nil
	}
	return strings.Split(rest, string(filepath.Separator))
}

func joinFromRoot(root string, components []string) string {
	if len(components) == 0 {
		return filepath.Clean(root)
	}
	return filepath.Join(append([]string{root}, components...)...)
}
