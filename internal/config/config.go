// Package config loads the extension's own configuration file. Engine-level
// ini settings bind through module globals; everything that does not need an
// engine-visible address (storage DSNs, log sinks, metrics endpoints) lives
// in a JSON file next to the loaded module.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads configuration from the JSON file and sets default values.
// configDir is the directory containing the config file, normally the
// directory the extension's shared object was loaded from.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./phpkvlogs")

	viper.SetDefault("storage.type", "gorm")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "phpkv")

	viper.SetDefault("kv.maxValueSize", 1<<20)
	viper.SetDefault("kv.flushInterval", "2s")
	viper.SetDefault("kv.flushBatchSize", 256)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "phpkv-metrics")
	viper.SetDefault("influx.bucket", "phpkv_calls")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("phpkv.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
