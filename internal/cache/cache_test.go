package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephp/extension/pkg/core"
)

func TestEntryCache_NewEntryCache(t *testing.T) {
	cache := NewEntryCache()

	require.NotNil(t, cache)
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 0, cache.Hits())
	assert.Equal(t, 0, cache.Misses())
}

func TestEntryCache_PutAndGet(t *testing.T) {
	cache := NewEntryCache()

	entry := core.Entry{
		Key:       "greeting",
		Value:     "hello",
		UpdatedAt: time.Now(),
	}

	cache.Put(entry)

	got, ok := cache.Get("greeting")
	require.True(t, ok, "expected to find key greeting")
	assert.Equal(t, "greeting", got.Key)
	assert.Equal(t, "hello", got.Value)
	assert.Equal(t, 1, cache.Hits())
}

func TestEntryCache_Get_NotFound(t *testing.T) {
	cache := NewEntryCache()

	_, ok := cache.Get("missing")
	assert.False(t, ok, "expected not to find key missing")
	assert.Equal(t, 1, cache.Misses())
}

func TestEntryCache_Delete(t *testing.T) {
	cache := NewEntryCache()

	cache.Put(core.Entry{Key: "a", Value: "1"})
	cache.Delete("a")

	_, ok := cache.Get("a")
	assert.False(t, ok, "expected key to be gone after delete")
}

func TestEntryCache_Reset(t *testing.T) {
	cache := NewEntryCache()

	// Add some data
	cache.Put(core.Entry{Key: "a", Value: "1"})
	cache.Put(core.Entry{Key: "b", Value: "2"})

	// Verify data exists
	assert.Equal(t, 2, cache.Len())

	// Reset
	cache.Reset()

	// Verify data is cleared
	assert.Equal(t, 0, cache.Len())

	// Verify we can still add data after reset
	cache.Put(core.Entry{Key: "c", Value: "3"})
	_, ok := cache.Get("c")
	assert.True(t, ok, "expected to find key added after reset")
}

func TestEntryCache_Concurrent(t *testing.T) {
	cache := NewEntryCache()
	var wg sync.WaitGroup

	// Concurrent writes
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cache.Put(core.Entry{Key: fmt.Sprintf("key-%d", i), Value: "v"})
		}(i)
	}
	wg.Wait()

	// Verify count
	assert.Equal(t, 100, cache.Len())

	// Concurrent reads
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cache.Get(fmt.Sprintf("key-%d", i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, cache.Hits())
}

// SafeCounter tests

func TestSafeCounter_InitialValue(t *testing.T) {
	c := &SafeCounter{}
	assert.Equal(t, int(0), c.Value())
}

func TestSafeCounter_Set(t *testing.T) {
	c := &SafeCounter{}

	c.Set(42)
	assert.Equal(t, int(42), c.Value())

	c.Set(0)
	assert.Equal(t, int(0), c.Value())
}

func TestSafeCounter_Inc(t *testing.T) {
	c := &SafeCounter{}

	c.Inc()
	c.Inc()
	c.Inc()
	assert.Equal(t, int(3), c.Value())
}

func TestSafeCounter_Concurrent(t *testing.T) {
	c := &SafeCounter{}
	var wg sync.WaitGroup

	// Concurrent increments
	for i := 0; i < 1000; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Inc()
		}()
	}
	wg.Wait()

	assert.Equal(t, int(1000), c.Value())
}
