// Package cache provides the read-through entry cache in front of the
// storage backend. Latency in the call path matters: a cached hit must not
// touch the database.
package cache

import (
	"sync"

	"github.com/zephp/extension/pkg/core"
)

// EntryCache caches key-value entries after reads and writes to avoid
// repeated db lookups from the call path.
type EntryCache struct {
	m       sync.Mutex
	entries map[string]core.Entry

	hits   SafeCounter
	misses SafeCounter
}

func NewEntryCache() *EntryCache {
	return &EntryCache{
		entries: make(map[string]core.Entry),
	}
}

func (c *EntryCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.entries = make(map[string]core.Entry)
}

func (c *EntryCache) Get(key string) (core.Entry, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if e, ok := c.entries[key]; ok {
		c.hits.Inc()
		return e, true
	}
	c.misses.Inc()
	return core.Entry{}, false
}

func (c *EntryCache) Put(e core.Entry) {
	c.m.Lock()
	defer c.m.Unlock()
	c.entries[e.Key] = e
}

func (c *EntryCache) Delete(key string) {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.entries, key)
}

func (c *EntryCache) Len() int {
	c.m.Lock()
	defer c.m.Unlock()
	return len(c.entries)
}

// Hits returns the number of cache hits since the last reset.
func (c *EntryCache) Hits() int { return c.hits.Value() }

// Misses returns the number of cache misses since the last reset.
func (c *EntryCache) Misses() int { return c.misses.Value() }

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
