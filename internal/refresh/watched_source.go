package refresh

import "github.com/basket/configwatch/internal/canon"

// WatchedSource is one source file path the host has registered.
// SourcePath is preserved exactly as the host gave it, for reporting;
// RecordedConfigPath is the canonical config path currently believed to
// govern it, or the zero canon.Path if none applies.
type WatchedSource struct {
	// Handle is a stable identifier for this registration, independent
	// of SourcePath, so a host can track a WatchedSource even if it
	// later wants per-source unregistration — not currently exercised,
	// since nothing unregisters yet, but the handle is cheap.
	Handle string

	SourcePath string

	RecordedConfigPath canon.Path
}

// HasConfig reports whether this source currently has a recorded config
// path (as opposed to falling back to the default configuration).
func (w *WatchedSource) HasConfig() bool {
	return !w.RecordedConfigPath.IsZero()
}
