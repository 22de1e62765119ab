// Package resolver implements the ancestor-walk lookup that locates the
// config file governing a source file, with shadowing semantics between
// the two well-known config names and between nearer and farther
// ancestor directories.
package resolver

import (
	"fmt"

	"github.com/basket/configwatch/internal/canon"
	"github.com/basket/configwatch/internal/config"
	"github.com/basket/configwatch/internal/fsio"
)

// DirectoryWatcher is the subset of the WatchEngine the Resolver needs:
// register a directory for change notification. Best-effort and
// idempotent — a failed watch install on a directory that doesn't exist
// is not an error, just skipped.
type DirectoryWatcher interface {
	EnterDirectory(dir canon.Path)
}

// noopWatcher satisfies DirectoryWatcher when the caller has no engine to
// register with yet (e.g. a dry-run resolve).
type noopWatcher struct{}

func (noopWatcher) EnterDirectory(canon.Path) {}

// Resolver runs the ancestor walk. It is stateless beyond the Cache it
// is given: the same Resolver can be reused across every WatchedSource,
// and repeated Resolve calls against the same directory tree are safe
// to interleave.
type Resolver struct {
	reader  fsio.Reader
	cache   *config.Cache
	watcher DirectoryWatcher
}

// New builds a Resolver over reader and cache, registering every visited
// directory with watcher. Pass a nil watcher to resolve without touching
// any watch engine (useful in tests and one-shot diagnostics).
func New(reader fsio.Reader, cache *config.Cache, watcher DirectoryWatcher) *Resolver {
	if watcher == nil {
		watcher = noopWatcher{}
	}
	return &Resolver{reader: reader, cache: cache, watcher: watcher}
}

// Resolve locates the canonical config path governing sourcePath,
// interning it in the Resolver's Cache. ok is false if no config file
// applies anywhere up to the filesystem root; err is non-nil only for a
// fatal error (bad canonicalization, or a config-named path that is
// itself a directory).
//
// Resolve consults the Cache before reading from disk (the original's
// check_loaded=true path): once a config path is interned, later
// resolves against the same directory reuse the cached entry instead of
// re-reading it. Use FindPath when you need the existence check without
// that shortcut — the RefreshCoordinator does, since it must compare
// fresh disk content against the cache itself.
func (r *Resolver) Resolve(sourcePath string) (path canon.Path, ok bool, err error) {
	dir, err := startingDirectory(sourcePath)
	if err != nil {
		return canon.Path{}, false, err
	}
	return r.walk(dir, true)
}

// FindPath runs the same ancestor walk as Resolve but never consults or
// populates the Cache (the original's check_loaded=false path): it only
// answers "which config path currently governs sourcePath", leaving the
// caller to decide how to reconcile that against any cached state. This
// is what RefreshCoordinator.Refresh uses, since it needs to read fresh
// bytes and diff them against the Cache itself rather than short-circuit
// on a stale cached hit.
func (r *Resolver) FindPath(sourcePath string) (path canon.Path, ok bool, err error) {
	dir, err := startingDirectory(sourcePath)
	if err != nil {
		return canon.Path{}, false, err
	}
	return r.walk(dir, false)
}

// startingDirectory canonicalizes sourcePath, then either drops the
// missing trailing components (tail didn't exist) or drops the final
// file-name component (tail existed).
func startingDirectory(sourcePath string) (canon.Path, error) {
	result, err := canon.Canonicalize(sourcePath)
	if err != nil {
		return canon.Path{}, fmt.Errorf("resolver: canonicalize %s: %w", sourcePath, err)
	}

	if result.HaveMissingComponents() {
		// The non-existent tail is already excluded from result.Canonical();
		// that existing prefix is the starting directory as-is.
		return result.Canonical(), nil
	}

	// The full path exists. Drop its final component (the file name, or
	// a directory name, treated the same way).
	dir, hasParent := result.Canonical().Parent()
	if !hasParent {
		// The source path's canonical form is the filesystem root itself.
		return result.Canonical(), nil
	}
	return dir, nil
}

// walk probes each ConfigName in a directory in preference order, stops
// probing at the first hit but keeps climbing to register watches, and
// terminates at the filesystem root.
func (r *Resolver) walk(dir canon.Path, checkCache bool) (path canon.Path, ok bool, err error) {
	var found canon.Path
	haveFound := false

	for {
		r.watcher.EnterDirectory(dir)

		if !haveFound {
			hit, hitOK, hitErr := r.probeDirectory(dir, checkCache)
			if hitErr != nil {
				return canon.Path{}, false, hitErr
			}
			if hitOK {
				found = hit
				haveFound = true
			}
		}

		parent, hasParent := dir.Parent()
		if !hasParent {
			break
		}
		dir = parent
	}

	return found, haveFound, nil
}

// probeDirectory tries each ConfigName in dir, in fixed preference order.
// The first successful read wins (primary shadows secondary). A
// not-found read falls through to the next name; any other read error is
// fatal to the whole resolution.
func (r *Resolver) probeDirectory(dir canon.Path, checkCache bool) (path canon.Path, ok bool, err error) {
	for _, name := range config.Names() {
		candidate := dir.Join(string(name))

		if checkCache {
			if _, cached := r.cache.Lookup(candidate); cached {
				return candidate, true, nil
			}
		}

		data, readErr := r.reader.Read(candidate)
		if readErr == nil {
			if checkCache {
				r.cache.GetOrLoad(candidate, data)
			}
			return candidate, true, nil
		}
		if fsio.IsNotFound(readErr) {
			continue
		}
		return canon.Path{}, false, fmt.Errorf("resolver: read %s: %w", candidate, readErr)
	}
	return canon.Path{}, false, nil
}
