// Package core holds the storage-neutral types shared between the example
// extension's handlers and its storage backends.
package core

import "time"

// Entry is one key-value record as script-level callers see it.
type Entry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Stats summarizes backend and cache state for kv_stats().
type Stats struct {
	Keys          int64 `json:"keys"`
	CacheHits     int64 `json:"cacheHits"`
	CacheMisses   int64 `json:"cacheMisses"`
	PendingWrites int64 `json:"pendingWrites"`
}
