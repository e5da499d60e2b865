// internal/storage/storage.go
package storage

import "github.com/zephp/extension/pkg/core"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Key-value operations
	Set(e core.Entry) error
	Get(key string) (core.Entry, bool, error)
	Delete(key string) error

	// Introspection
	Count() (int64, error)
	Stats() core.Stats

	// Flush forces any buffered writes out to the underlying store.
	Flush() error
}
