// Package refresh implements the RefreshCoordinator: on each wake-up
// from the WatchEngine, it re-runs the Resolver against every
// registered source file, diffs against the ConfigCache, and emits a
// minimal, deduplicated list of observable configuration changes.
package refresh

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/basket/configwatch/internal/bus"
	"github.com/basket/configwatch/internal/canon"
	"github.com/basket/configwatch/internal/config"
	"github.com/basket/configwatch/internal/fsio"
	"github.com/basket/configwatch/internal/resolver"
	"github.com/basket/configwatch/internal/shared"
)

// Coordinator owns the registration-ordered list of WatchedSources and
// runs the diff-and-emit refresh pass.
type Coordinator struct {
	resolver *resolver.Resolver
	cache    *config.Cache
	reader   fsio.Reader
	bus      *bus.Bus
	logger   *slog.Logger

	mu      sync.Mutex
	sources []*WatchedSource
}

// New builds a Coordinator. b may be nil if the host has no interest in
// bus-published ConfigChangedEvents.
func New(r *resolver.Resolver, cache *config.Cache, reader fsio.Reader, b *bus.Bus, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{resolver: r, cache: cache, reader: reader, bus: b, logger: logger}
}

// Register adds sourcePath as a WatchedSource, resolves it immediately
// — the Resolver runs once per path, populating the ConfigCache and
// asking the WatchEngine to watch each directory it visited — and
// returns the WatchedSource together with the Configuration now in
// effect for it.
//
// Deduplication of two registrations naming the same canonical file is a
// known gap: each registered path gets its own WatchedSource even if it
// denotes the same file as an existing one.
func (c *Coordinator) Register(sourcePath string) (*WatchedSource, *config.Configuration, error) {
	w := &WatchedSource{
		Handle:     uuid.NewString(),
		SourcePath: sourcePath,
	}

	configPath, ok, err := c.resolver.Resolve(sourcePath)
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	c.sources = append(c.sources, w)
	c.mu.Unlock()

	if !ok {
		return w, config.Default(), nil
	}
	w.RecordedConfigPath = configPath
	entry, _ := c.cache.Lookup(configPath)
	return w, entry.Config, nil
}

// Sources returns a snapshot of the registered WatchedSources in
// registration order.
func (c *Coordinator) Sources() []*WatchedSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*WatchedSource, len(c.sources))
	copy(out, c.sources)
	return out
}

// Refresh re-runs the Resolver against every WatchedSource, diffs the
// outcome against its recorded state, and emits at most one Change per
// source, in registration order. It mints a fresh trace id for the
// pass, attaches it to ctx via shared.WithTraceID, and uses that ctx for
// every log call made during the pass and as the correlation id on
// every ConfigChangedEvent it publishes.
func (c *Coordinator) Refresh(ctx context.Context) []Change {
	runID := shared.NewTraceID()
	ctx = shared.WithTraceID(ctx, runID)

	c.mu.Lock()
	sources := make([]*WatchedSource, len(c.sources))
	copy(sources, c.sources)
	c.mu.Unlock()

	var changes []Change
	for _, w := range sources {
		change, changed := c.refreshOne(ctx, w)
		if !changed {
			continue
		}
		changes = append(changes, change)
		if c.bus != nil {
			configPath := ""
			if w.HasConfig() {
				configPath = w.RecordedConfigPath.String()
			}
			c.bus.Publish(bus.TopicConfigChanged, bus.ConfigChangedEvent{
				RunID:      runID,
				SourcePath: w.SourcePath,
				ConfigPath: configPath,
			})
		}
	}
	return changes
}

// refreshOne applies one refresh pass to a single WatchedSource.
func (c *Coordinator) refreshOne(ctx context.Context, w *WatchedSource) (Change, bool) {
	newPath, ok, err := c.resolver.FindPath(w.SourcePath)
	if err != nil {
		// Canonicalization failure during refresh is, in this design,
		// treated as "no change detected" for this source — the
		// previously-recorded config stays in effect. A correct
		// implementation likely wants to treat this as "resolves to
		// none" instead; flagged, not guessed at.
		c.logger.WarnContext(ctx, "refresh: resolve failed, keeping previous state",
			"source_path", w.SourcePath, "error", err)
		return Change{}, false
	}

	if ok {
		return c.refreshFound(ctx, w, newPath)
	}
	return c.refreshNotFound(w)
}

// refreshFound handles the case where the resolver found a config
// path: reads fresh bytes, reconciles against the Cache, and reports a
// Change if the config path moved or the content changed.
func (c *Coordinator) refreshFound(ctx context.Context, w *WatchedSource, newPath canon.Path) (Change, bool) {
	freshBytes, err := c.reader.Read(newPath)
	if err != nil {
		c.logger.WarnContext(ctx, "refresh: read failed, keeping previous state",
			"source_path", w.SourcePath, "config_path", newPath.String(), "error", err)
		return Change{}, false
	}

	entry, contentChanged := c.cache.GetOrLoad(newPath, freshBytes)
	pathChanged := newPath != w.RecordedConfigPath
	if !pathChanged && !contentChanged {
		return Change{}, false
	}

	w.RecordedConfigPath = newPath
	return Change{SourcePath: w.SourcePath, Config: entry.Config}, true
}

// refreshNotFound handles the case where the resolver found no config
// anywhere up to the root. A Change is only reported if the source
// previously had one — falling back to the default configuration is
// itself the observable change.
func (c *Coordinator) refreshNotFound(w *WatchedSource) (Change, bool) {
	if !w.HasConfig() {
		return Change{}, false
	}
	w.RecordedConfigPath = canon.Path{}
	return Change{SourcePath: w.SourcePath, Config: config.Default()}, true
}
