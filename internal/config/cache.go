package config

import (
	"sync"

	"github.com/basket/configwatch/internal/canon"
)

// LoadedFile is owned by the Cache. Its Config's recorded path always
// equals the key it is stored under, and its Config's last load always
// reflects Content.
type LoadedFile struct {
	Path    canon.Path
	Content []byte
	Config  *Configuration
}

// Cache interns loaded configurations by canonical config-file path. Two
// resolves that land on the same path get the same *LoadedFile — and
// therefore the same *Configuration — for the cache's lifetime.
//
// Pointer stability comes from storing *LoadedFile (a pointer) as the map
// value: Go map rehashing on insert relocates the map's internal storage,
// never the heap object a pointer value refers to, so a *LoadedFile
// handed out before an insert remains valid after it.
type Cache struct {
	mu      sync.Mutex
	entries map[canon.Path]*LoadedFile
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[canon.Path]*LoadedFile)}
}

// Lookup is a pure read: it never loads or mutates.
func (c *Cache) Lookup(path canon.Path) (*LoadedFile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[path]
	return entry, ok
}

// GetOrLoad inserts a new LoadedFile for path if none is cached yet, or
// reconciles an existing one against freshBytes:
//
//   - not present: insert, parse, report changed=true.
//   - present, bytes equal: report changed=false without re-parsing.
//   - present, bytes differ: reset the Configuration, reload from
//     freshBytes, preserve the entry's path identity, report changed=true.
func (c *Cache) GetOrLoad(path canon.Path, freshBytes []byte) (entry *LoadedFile, changed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[path]; ok {
		if existing.Config.ContentEqual(freshBytes) {
			return existing, false
		}
		existing.Content = freshBytes
		existing.Config.Reset()
		existing.Config.SetPath(path)
		existing.Config.LoadFrom(freshBytes)
		return existing, true
	}

	cfg := &Configuration{}
	cfg.SetPath(path)
	cfg.LoadFrom(freshBytes)
	entry = &LoadedFile{
		Path:    path,
		Content: freshBytes,
		Config:  cfg,
	}
	c.entries[path] = entry
	return entry, true
}

// Len reports how many config files are currently cached. The cache
// never evicts entries, even once their files are deleted on disk —
// an open question carried forward unresolved.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
