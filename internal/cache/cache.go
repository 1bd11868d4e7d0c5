// Package cache provides a two-tier memoization cache for completion
// calls: a lock-guarded in-process map in front of a file-per-key
// persistent directory. Entries are keyed by a deterministic hash of
// the request (see Key).
package cache

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/usharma123/ShellHacks2025/pkg/models"
)

// DefaultTTL is the persistent-tier staleness bound unless overridden.
const DefaultTTL = 24 * time.Hour

// Cache memoizes parsed completion payloads. The fast tier is treated
// as valid for the lifetime of the process; only the persistent tier is
// aged. A single Cache is shared by every concurrently running task.
type Cache struct {
	dir      string
	ttl      time.Duration
	disabled bool // persistent tier off; fast tier still active

	mu  sync.Mutex
	mem map[string]models.StructuredResult

	hits      atomic.Int64
	misses    atomic.Int64
	writeErrs atomic.Int64
}

// Stats reports cache performance counters.
type Stats struct {
	Entries     int   `json:"entries"`
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	WriteErrors int64 `json:"write_errors"`
}

// New creates a Cache rooted at dir. A ttl <= 0 disables staleness: a
// persisted entry is then valid forever. If disabled is true the
// persistent tier is skipped entirely, which keeps test and ephemeral
// runs off the filesystem.
func New(dir string, ttl time.Duration, disabled bool) *Cache {
	return &Cache{
		dir:      dir,
		ttl:      ttl,
		disabled: disabled,
		mem:      make(map[string]models.StructuredResult),
	}
}

// Get returns the payload stored under key, or ok=false on a miss. The
// fast tier is checked first with no age check; on a fast-tier miss the
// persistent tier is consulted, honoring the configured TTL against the
// entry file's modification time. A persistent hit backfills the fast
// tier.
func (c *Cache) Get(key string) (models.StructuredResult, bool) {
	c.mu.Lock()
	if payload, ok := c.mem[key]; ok {
		c.mu.Unlock()
		c.hits.Add(1)
		return payload, true
	}
	c.mu.Unlock()

	if c.disabled {
		c.misses.Add(1)
		return nil, false
	}

	payload, ok := c.readFile(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	c.mu.Lock()
	c.mem[key] = payload
	c.mu.Unlock()
	c.hits.Add(1)
	return payload, true
}

// Put stores payload under key. The fast tier is written
// unconditionally; the persistent tier is best-effort and any I/O
// failure is absorbed here, leaving the fast tier authoritative for the
// current process.
func (c *Cache) Put(key string, payload models.StructuredResult) {
	c.mu.Lock()
	c.mem[key] = payload
	c.mu.Unlock()

	if c.disabled {
		return
	}
	if err := c.writeFile(key, payload); err != nil {
		c.writeErrs.Add(1)
		log.Printf("[cache] persist %s: %v", shortKey(key), err)
	}
}

// Stats returns the current counters. Entries counts the fast tier.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	entries := len(c.mem)
	c.mu.Unlock()
	return Stats{
		Entries:     entries,
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		WriteErrors: c.writeErrs.Load(),
	}
}

// Clear drops the fast tier and removes all persisted entries.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.mem = make(map[string]models.StructuredResult)
	c.mu.Unlock()

	if c.disabled {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Dir returns the persistent-tier directory.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// readFile loads a persisted entry, treating stale or unreadable files
// as absent. Concurrent writers to the same key race with last write
// wins; there is no cross-process locking.
func (c *Cache) readFile(key string) (models.StructuredResult, bool) {
	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var payload models.StructuredResult
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, false
	}
	return payload, true
}

func (c *Cache) writeFile(key string, payload models.StructuredResult) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(key), data, 0644)
}

func shortKey(key string) string {
	if len(key) > 8 {
		return key[:8]
	}
	return key
}
