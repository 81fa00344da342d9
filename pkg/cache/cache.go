// Package cache provides a time-bounded cache for parsed CSV extracts.
// The same extract feeds several generators, so a pipeline run can skip
// re-parsing. Cache keys include file modification time and size, so a
// hit never changes output; dropping the cache entirely is always safe.
package cache

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/joshjau/hero-dbc/pkg/dbc"
)

// Store is a table cache backend.
type Store interface {
	// Get returns the cached table for key, or false on a miss.
	Get(ctx context.Context, key string) (*dbc.Table, bool)

	// Put stores a table under key. Failures are silent; the cache is an
	// optimization, not a source of truth.
	Put(ctx context.Context, key string, t *dbc.Table)

	// Close releases backend resources.
	Close() error
}

// Key builds a cache key for a file plus the projected columns. The
// modification time and size pin the key to the exact file contents.
func Key(path string, required, optional []string) (string, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s|%d|%d|%v|%v", path, stat.ModTime().UnixNano(), stat.Size(), required, optional), nil
}

// Memory is an in-process TTL cache.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]*memEntry
	maxEntries int
	ttl        time.Duration
	hits       int64
	misses     int64
}

type memEntry struct {
	table     *dbc.Table
	createdAt time.Time
	expiresAt time.Time
}

// NewMemory creates an in-process cache holding at most maxEntries
// tables, each for at most ttl.
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	return &Memory{
		entries:    make(map[string]*memEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// Get implements Store.
func (c *Memory) Get(_ context.Context, key string) (*dbc.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}
	c.hits++
	return entry.table, true
}

// Put implements Store.
func (c *Memory) Put(_ context.Context, key string, t *dbc.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	now := time.Now()
	c.entries[key] = &memEntry{
		table:     t,
		createdAt: now,
		expiresAt: now.Add(c.ttl),
	}
}

// Close implements Store.
func (c *Memory) Close() error {
	return nil
}

// Stats returns hit/miss counters.
func (c *Memory) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Memory) evictOldest() {
	var oldestKey string
	var oldest *memEntry
	for key, entry := range c.entries {
		if oldest == nil || entry.createdAt.Before(oldest.createdAt) {
			oldest = entry
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
