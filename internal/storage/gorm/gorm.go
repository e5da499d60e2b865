// internal/storage/gorm/gorm.go
package gormstorage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zephp/extension/internal/cache"
	"github.com/zephp/extension/internal/influx"
	"github.com/zephp/extension/internal/queue"
	"github.com/zephp/extension/pkg/core"
)

// Record is the database row for a single key-value entry. Values are
// stored JSON-encoded so non-string shapes can be added without a
// schema change.
type Record struct {
	Key       string         `gorm:"primaryKey;size:255"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

// Dependencies holds everything the backend needs from the outside.
type Dependencies struct {
	DB              *gorm.DB
	EntryCache      *cache.EntryCache
	Logger          zerolog.Logger
	IsDatabaseValid func() bool

	// Influx, when set, receives per-flush statistics.
	Influx *influx.Manager
}

// Backend buffers writes in internal queues and flushes them to the
// database in batches from a background loop.
type Backend struct {
	deps Dependencies

	writeQueue  *queue.Queue[Record]
	deleteQueue *queue.Queue[string]

	flushInterval time.Duration
	batchSize     int

	stopChan chan struct{}
	wg       sync.WaitGroup

	mu                  sync.Mutex
	lastDBWriteDuration time.Duration
}

// New creates a new gorm-backed storage backend.
func New(deps Dependencies) *Backend {
	if deps.IsDatabaseValid == nil {
		deps.IsDatabaseValid = func() bool { return false }
	}
	return &Backend{
		deps: deps,
	}
}

// Init migrates the schema and starts the flush loop.
func (b *Backend) Init() error {
	b.writeQueue = queue.New[Record]()
	b.deleteQueue = queue.New[string]()
	b.stopChan = make(chan struct{})

	b.flushInterval = viper.GetDuration("kv.flushInterval")
	if b.flushInterval <= 0 {
		b.flushInterval = 2 * time.Second
	}
	b.batchSize = viper.GetInt("kv.flushBatchSize")
	if b.batchSize <= 0 {
		b.batchSize = 256
	}

	if b.deps.DB != nil {
		if err := b.deps.DB.AutoMigrate(&Record{}); err != nil {
			return fmt.Errorf("failed to migrate kv schema: %s", err)
		}
	}

	b.wg.Add(1)
	go b.flushLoop()

	return nil
}

// Close stops the flush loop and drains any remaining writes.
func (b *Backend) Close() error {
	close(b.stopChan)
	b.wg.Wait()
	return b.Flush()
}

func (b *Backend) flushLoop() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.Flush(); err != nil {
				b.deps.Logger.Error().Err(err).Msg("Failed to flush kv writes")
			}
		}
	}
}

// Set stores an entry. The write is cached immediately so reads see it
// before the next flush.
func (b *Backend) Set(e core.Entry) error {
	encoded, err := json.Marshal(e.Value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q: %s", e.Key, err)
	}

	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now()
	}

	b.deps.EntryCache.Put(e)
	// A write supersedes any delete still pending for the key.
	b.deleteQueue.Filter(func(k string) bool { return k != e.Key })
	b.writeQueue.Push(Record{
		Key:       e.Key,
		Value:     datatypes.JSON(encoded),
		UpdatedAt: e.UpdatedAt,
	})

	if b.writeQueue.Len() >= b.batchSize {
		return b.Flush()
	}
	return nil
}

// Get returns the entry for key, consulting the cache first.
func (b *Backend) Get(key string) (core.Entry, bool, error) {
	if e, ok := b.deps.EntryCache.Get(key); ok {
		return e, true, nil
	}

	if !b.deps.IsDatabaseValid() {
		return core.Entry{}, false, nil
	}

	var rec Record
	err := b.deps.DB.First(&rec, "key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return core.Entry{}, false, nil
	}
	if err != nil {
		return core.Entry{}, false, fmt.Errorf("failed to read key %q: %s", key, err)
	}

	var value string
	if err := json.Unmarshal(rec.Value, &value); err != nil {
		return core.Entry{}, false, fmt.Errorf("failed to decode value for key %q: %s", key, err)
	}

	e := core.Entry{Key: rec.Key, Value: value, UpdatedAt: rec.UpdatedAt}
	b.deps.EntryCache.Put(e)
	return e, true, nil
}

// Delete removes an entry. The delete is applied to the cache
// immediately and to the database on the next flush.
func (b *Backend) Delete(key string) error {
	b.deps.EntryCache.Delete(key)
	// A delete supersedes any write still pending for the key.
	b.writeQueue.Filter(func(r Record) bool { return r.Key != key })
	b.deleteQueue.Push(key)
	return nil
}

// Count returns the number of stored entries.
func (b *Backend) Count() (int64, error) {
	if !b.deps.IsDatabaseValid() {
		return int64(b.deps.EntryCache.Len()), nil
	}

	if err := b.Flush(); err != nil {
		return 0, err
	}

	var n int64
	if err := b.deps.DB.Model(&Record{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count entries: %s", err)
	}
	return n, nil
}

// Stats reports cache and write-buffer counters.
func (b *Backend) Stats() core.Stats {
	keys, _ := b.Count()
	return core.Stats{
		Keys:          keys,
		CacheHits:     int64(b.deps.EntryCache.Hits()),
		CacheMisses:   int64(b.deps.EntryCache.Misses()),
		PendingWrites: int64(b.writeQueue.Len() + b.deleteQueue.Len()),
	}
}

// Flush drains the write and delete queues into the database.
func (b *Backend) Flush() error {
	writes := b.writeQueue.GetAndEmpty()
	deletes := b.deleteQueue.GetAndEmpty()

	if len(writes) == 0 && len(deletes) == 0 {
		return nil
	}

	if !b.deps.IsDatabaseValid() {
		// Nothing to write to. Cache already holds the latest state.
		return nil
	}

	start := time.Now()

	// Deletes go first: a key that was deleted and then re-set in the same
	// window carries only a pending write, so write-after-delete is the
	// order that preserves it.
	if len(deletes) > 0 {
		if err := b.deps.DB.Delete(&Record{}, "key IN ?", deletes).Error; err != nil {
			b.deleteQueue.Push(deletes...)
			b.writeQueue.Push(writes...)
			return fmt.Errorf("failed to flush %d deletes: %s", len(deletes), err)
		}
	}

	if len(writes) > 0 {
		err := b.deps.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).Create(&writes).Error
		if err != nil {
			// Put them back so the next flush retries.
			b.writeQueue.Push(writes...)
			return fmt.Errorf("failed to flush %d writes: %s", len(writes), err)
		}
	}

	b.mu.Lock()
	b.lastDBWriteDuration = time.Since(start)
	b.mu.Unlock()

	if b.deps.Influx != nil {
		point := influx.StoragePoint(len(writes), len(deletes), time.Since(start))
		if err := b.deps.Influx.WritePoint(context.Background(), "phpkv_storage", point); err != nil {
			b.deps.Logger.Debug().Err(err).Msg("Failed to report flush metrics")
		}
	}

	b.deps.Logger.Debug().
		Int("writes", len(writes)).
		Int("deletes", len(deletes)).
		Dur("duration", time.Since(start)).
		Msg("Flushed kv writes")

	return nil
}

// GetLastDBWriteDuration returns the duration of the most recent flush.
func (b *Backend) GetLastDBWriteDuration() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastDBWriteDuration
}
