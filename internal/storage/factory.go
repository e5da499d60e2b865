// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/zephp/extension/internal/cache"
	"github.com/zephp/extension/internal/influx"
	gormstorage "github.com/zephp/extension/internal/storage/gorm"
	"github.com/zephp/extension/internal/storage/memory"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(db *gorm.DB, entryCache *cache.EntryCache, log zerolog.Logger, isDatabaseValid func() bool, influxManager *influx.Manager) (Backend, error) {
	switch t := viper.GetString("storage.type"); t {
	case "gorm":
		return gormstorage.New(gormstorage.Dependencies{
			DB:              db,
			EntryCache:      entryCache,
			Logger:          log,
			IsDatabaseValid: isDatabaseValid,
			Influx:          influxManager,
		}), nil
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", t)
	}
}
