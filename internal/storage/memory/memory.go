// internal/storage/memory/memory.go
package memory

import (
	"sync"

	"github.com/zephp/extension/pkg/core"
)

// Backend stores entries in memory. Used for tests and for running
// without a database.
type Backend struct {
	mu      sync.RWMutex
	entries map[string]core.Entry
	hits    int64
	misses  int64
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{
		entries: make(map[string]core.Entry),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

func (b *Backend) Set(e core.Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[e.Key] = e
	return nil
}

func (b *Backend) Get(key string) (core.Entry, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[key]
	if ok {
		b.hits++
	} else {
		b.misses++
	}
	return e, ok, nil
}

func (b *Backend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, key)
	return nil
}

func (b *Backend) Count() (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return int64(len(b.entries)), nil
}

func (b *Backend) Stats() core.Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return core.Stats{
		Keys:        int64(len(b.entries)),
		CacheHits:   b.hits,
		CacheMisses: b.misses,
	}
}

// Flush is a no-op for the memory backend.
func (b *Backend) Flush() error {
	return nil
}
