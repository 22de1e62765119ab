// Package watchengine provides a uniform "something may have changed,
// rescan now" signal built over whatever native filesystem-event
// facility the platform offers, using github.com/fsnotify/fsnotify,
// which ships Linux inotify, BSD/macOS kqueue, and Windows directory
// notifications behind one Go API. What's left to build here is
// idempotent directory registration, best-effort install,
// event-content-agnostic draining, and picking watches back up when a
// previously-missing ancestor directory is created.
package watchengine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/basket/configwatch/internal/canon"
	"github.com/basket/configwatch/internal/otel"
)

// debounceWindow coalesces bursts of filesystem events (e.g. an editor's
// write-to-temp-then-rename save pattern) into a single wake-up.
const debounceWindow = 150 * time.Millisecond

// Engine is the fsnotify-backed WatchEngine. The zero value is not
// usable; build one with New.
type Engine struct {
	logger  *slog.Logger
	metrics *otel.Metrics

	mu      sync.Mutex
	watched map[string]struct{}

	fsw     *fsnotify.Watcher
	changes chan struct{}
}

// Option configures optional Engine dependencies.
type Option func(*Engine)

// WithMetrics attaches an otel.Metrics instance so the Engine can report
// watch-install failures and the live watched-directory count.
func WithMetrics(m *otel.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an Engine. Call Start before EnterDirectory takes effect;
// EnterDirectory calls made before Start are silently buffered by virtue
// of fsnotify.Add itself returning an error on a nil watcher, so in
// practice callers should always Start first (the host process does,
// before running any Resolver walk).
func New(logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		logger:  logger,
		watched: make(map[string]struct{}),
		changes: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WatchedDirectoryCount reports how many directories are currently
// registered for change notification.
func (e *Engine) WatchedDirectoryCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.watched)
}

// Changes returns the wake-up channel. A receive means "something may
// have changed, rescan now" — the event itself carries no semantic
// weight, matching inotify/kqueue drain behavior.
func (e *Engine) Changes() <-chan struct{} {
	return e.changes
}

// Start opens the underlying fsnotify watcher and begins draining its
// event stream in a background goroutine, the same shape as the
// teacher's config.Watcher.Start and skills.Watcher.Start.
func (e *Engine) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	e.fsw = fsw

	go e.run(ctx)
	return nil
}

// Close tears down the watcher. Safe to call once, after the context
// passed to Start has been canceled.
func (e *Engine) Close() error {
	if e.fsw == nil {
		return nil
	}
	return e.fsw.Close()
}

// EnterDirectory registers dir for change notification. It is idempotent
// — repeated calls for the same directory are no-ops — and best-effort:
// failing to watch a directory that doesn't exist (yet) is not an error,
// it is simply skipped.
func (e *Engine) EnterDirectory(dir canon.Path) {
	if e.fsw == nil {
		return
	}
	key := dir.String()

	e.mu.Lock()
	_, already := e.watched[key]
	e.mu.Unlock()
	if already {
		return
	}

	if err := e.fsw.Add(key); err != nil {
		e.logger.Debug("watchengine: add failed", "dir", key, "error", err)
		if e.metrics != nil {
			e.metrics.WatchInstallFailures.Add(context.Background(), 1)
		}
		return
	}

	e.mu.Lock()
	e.watched[key] = struct{}{}
	e.mu.Unlock()
}

func (e *Engine) run(ctx context.Context) {
	defer close(e.changes)

	var pending bool
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if !pending {
			return
		}
		pending = false
		select {
		case e.changes <- struct{}{}:
		default:
		}
	}

	arm := func() {
		pending = true
		if timer == nil {
			timer = time.NewTimer(debounceWindow)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounceWindow)
		timerC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-e.fsw.Events:
			if !ok {
				return
			}
			// A newly created directory under a watched directory must
			// itself be watched, so that a later "mkdir, then create a
			// config inside it" sequence is observed end-to-end.
			if ev.Op&fsnotify.Create != 0 {
				e.watchIfDirectory(ev.Name)
			}
			arm()
		case _, ok := <-e.fsw.Errors:
			if !ok {
				return
			}
			e.logger.Warn("watchengine: event channel error")
			arm()
		case <-timerC:
			flush()
			timerC = nil
		}
	}
}

func (e *Engine) watchIfDirectory(path string) {
	info, err := statDir(path)
	if err != nil || !info {
		return
	}
	e.mu.Lock()
	_, already := e.watched[path]
	e.mu.Unlock()
	if already {
		return
	}
	if err := e.fsw.Add(path); err != nil {
		if e.metrics != nil {
			e.metrics.WatchInstallFailures.Add(context.Background(), 1)
		}
		return
	}
	e.mu.Lock()
	e.watched[path] = struct{}{}
	e.mu.Unlock()
}
