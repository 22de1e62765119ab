package config

import (
	"bytes"
	"encoding/json"

	"github.com/basket/configwatch/internal/canon"
)

// Configuration is the opaque value the core hands to callers. The core
// never interprets its body beyond byte-equality; the best-effort
// Globals() view exists only so a host can display something useful,
// and failures to parse it are silently ignored rather than surfaced —
// a malformed config body is not this package's concern.
type Configuration struct {
	path canon.Path
	raw  []byte
}

// Path returns the canonical path this Configuration was loaded from, or
// the zero canon.Path for the default configuration.
func (c *Configuration) Path() canon.Path {
	return c.path
}

// Bytes returns the raw file content this Configuration was built from.
func (c *Configuration) Bytes() []byte {
	return c.raw
}

// Reset clears the Configuration back to an empty, unloaded state. The
// cache calls this before reloading from new bytes on a content change.
func (c *Configuration) Reset() {
	c.path = canon.Path{}
	c.raw = nil
}

// SetPath records the canonical path that governs this Configuration.
// The recorded path must equal the cache's key for this entry.
func (c *Configuration) SetPath(path canon.Path) {
	c.path = path
}

// LoadFrom re-loads the Configuration's body from bytes. The body's
// grammar is out of scope: this only stores the bytes for later
// equality checks and attempts a best-effort "globals" view.
func (c *Configuration) LoadFrom(raw []byte) {
	c.raw = raw
}

// Globals returns a best-effort view of a `{"globals": {...}}` JSON
// object in the config body, for host-side display only. It returns nil
// if the body isn't the expected shape — this is advisory, never an
// error, consistent with the body's grammar being out of scope.
func (c *Configuration) Globals() map[string]bool {
	if len(c.raw) == 0 {
		return nil
	}
	var body struct {
		Globals map[string]bool `json:"globals"`
	}
	if err := json.Unmarshal(c.raw, &body); err != nil {
		return nil
	}
	return body.Globals
}

// ContentEqual reports whether raw is byte-identical to c's stored
// content — a rewrite yielding identical bytes is not a change.
func (c *Configuration) ContentEqual(raw []byte) bool {
	return bytes.Equal(c.raw, raw)
}

// defaultConfiguration is the well-known singleton returned whenever no
// config file applies. Callers must never receive a null/nil
// Configuration.
var defaultConfiguration = &Configuration{}

// Default returns the default-configuration singleton.
func Default() *Configuration {
	return defaultConfiguration
}
