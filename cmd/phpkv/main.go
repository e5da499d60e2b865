package main

import "C"

import (
	"path/filepath"
	"time"
	"unsafe"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/zephp/extension/internal/cache"
	"github.com/zephp/extension/internal/config"
	"github.com/zephp/extension/internal/database"
	"github.com/zephp/extension/internal/influx"
	"github.com/zephp/extension/internal/logging"
	"github.com/zephp/extension/internal/registry"
	"github.com/zephp/extension/internal/storage"
	"github.com/zephp/extension/pkg/phpval"
	"github.com/zephp/extension/pkg/zendinterface"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentExtensionVersion string = "0.1.0"
	BuildDate               string = "unknown"

	ExtensionName string = "phpkv"
)

// file paths
var (
	// ModulePath is the absolute path to this library file.
	ModulePath string

	// ModuleFolder is the parent folder of ModulePath
	ModuleFolder string
)

// global variables
var (
	SessionStartTime time.Time = time.Now()

	// Logger is the extension-wide zerolog logger
	Logger      zerolog.Logger
	closeLogger func()

	// DBManager owns the gorm connection (Postgres with SQLite fallback)
	DBManager *database.Manager

	// EntryCache serves reads without touching the database
	EntryCache *cache.EntryCache = cache.NewEntryCache()

	// InfluxManager reports call statistics (optional)
	InfluxManager *influx.Manager

	// storageBackend persists the key-value entries
	storageBackend storage.Backend

	// Registry dispatches engine calls to the Go handlers
	Registry *registry.Registry

	// Engine-visible registration tables
	functionTable *zendinterface.FunctionEntries
	kvStoreClass  *phpval.ClassEntry
	kvStoreTable  *zendinterface.FunctionEntries

	// Globals is the module-global cell shared with the engine via ini entries
	Globals *zendinterface.ModuleGlobals[moduleSettings]

	iniMaxValueSize unsafe.Pointer
)

// moduleSettings lives in C memory; fields must stay free of Go pointers.
type moduleSettings struct {
	MaxValueSize int64
}

// init is run automatically when the module is loaded
func init() {
	ModulePath = zendinterface.GetModulePath()
	ModuleFolder = filepath.Dir(ModulePath)

	err := config.Load(ModuleFolder)

	Logger, closeLogger, _ = logging.Setup(logging.Config{
		Level:          viper.GetString("logLevel"),
		LogsDir:        viper.GetString("logsDir"),
		ExtensionName:  ExtensionName,
		GraylogEnabled: viper.GetBool("graylog.enabled"),
		GraylogAddress: viper.GetString("graylog.address"),
	}, SessionStartTime)

	if err != nil {
		Logger.Warn().Err(err).Msg("Failed to load config, using defaults")
	} else {
		Logger.Info().Str("dir", ModuleFolder).Msg("Loaded config")
	}

	Registry, err = registry.New(logging.NewRegistryLogger(Logger), zendinterface.Diagnostics())
	if err != nil {
		panic(err)
	}

	zendinterface.SetVersion(CurrentExtensionVersion)
	zendinterface.SetRegistry(Registry)
	zendinterface.SetLogger(logging.NewRegistryLogger(Logger))

	Globals = zendinterface.NewModuleGlobals(moduleSettings{
		MaxValueSize: int64(viper.GetInt("kv.maxValueSize")),
	})
	iniMaxValueSize = Globals.CreateIniEntryDef(
		"phpkv.max_value_size",
		viper.GetString("kv.maxValueSize"),
		nil,
		zendinterface.IniSystem,
	)

	registerEntities()

	Logger.Info().
		Str("version", CurrentExtensionVersion).
		Str("buildDate", BuildDate).
		Int("functions", functionTable.Len()).
		Msg("Extension initialized")
}

// registerEntities builds the engine-visible function and method tables.
func registerEntities() {
	functionTable = zendinterface.NewFunctionEntries(
		kvGetEntity,
		kvSetEntity,
		kvDeleteEntity,
		kvStatsEntity,
	)

	kvStoreClass, kvStoreTable = zendinterface.RegisterClass("KVStore",
		kvStoreGetEntity,
		kvStoreSetEntity,
		kvStoreRemoveEntity,
		kvStoreCountEntity,
	)
}

// startupServices connects the database, storage backend and metrics.
// Called from module startup, after the engine has loaded the ini entries.
func startupServices() error {
	if viper.GetBool("influx.enabled") {
		InfluxManager = influx.NewManager(Logger,
			filepath.Join(viper.GetString("logsDir"), ExtensionName+".influx.gz"))
		if err := InfluxManager.Connect(); err != nil {
			Logger.Warn().Err(err).Msg("InfluxDB reporting disabled")
			InfluxManager = nil
		}
	}

	DBManager = database.NewManager(Logger)
	if err := DBManager.Connect(); err != nil {
		Logger.Error().Err(err).Msg("No database available, continuing without persistence")
	}

	isValid := func() bool { return DBManager != nil && DBManager.IsValid }

	backend, err := storage.NewBackend(DBManager.DB, EntryCache, Logger, isValid, InfluxManager)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return err
	}
	storageBackend = backend

	Logger.Info().Msg("Services started")
	return nil
}

// shutdownServices flushes buffered writes and releases connections.
func shutdownServices() {
	if storageBackend != nil {
		if err := storageBackend.Close(); err != nil {
			Logger.Error().Err(err).Msg("Failed to close storage backend")
		}
		storageBackend = nil
	}
	if DBManager != nil {
		if err := DBManager.Close(); err != nil {
			Logger.Error().Err(err).Msg("Failed to close database")
		}
	}
	Logger.Info().Msg("Extension shut down")
	if closeLogger != nil {
		closeLogger()
	}
}

// PhpkvModuleStartup is the module startup hook (MINIT). Returns 0 on success.
//
//export PhpkvModuleStartup
func PhpkvModuleStartup() C.int {
	if err := startupServices(); err != nil {
		Logger.Error().Err(err).Msg("Module startup failed")
		return 1
	}
	return 0
}

// PhpkvModuleShutdown is the module shutdown hook (MSHUTDOWN).
//
//export PhpkvModuleShutdown
func PhpkvModuleShutdown() {
	shutdownServices()
}

// PhpkvFunctionEntries returns the zero-terminated zend_function_entry table.
//
//export PhpkvFunctionEntries
func PhpkvFunctionEntries() unsafe.Pointer {
	return functionTable.Get()
}

// PhpkvClassMethodEntries returns the KVStore method table.
//
//export PhpkvClassMethodEntries
func PhpkvClassMethodEntries() unsafe.Pointer {
	return kvStoreTable.Get()
}

// PhpkvIniEntryDefs returns the ini entry definitions.
//
//export PhpkvIniEntryDefs
func PhpkvIniEntryDefs() unsafe.Pointer {
	return iniMaxValueSize
}

// PhpkvVersion returns the extension version string.
//
//export PhpkvVersion
func PhpkvVersion() *C.char {
	return C.CString(CurrentExtensionVersion)
}

// PhpkvSetErrorCallback forwards the engine's error reporter.
//
//export PhpkvSetErrorCallback
func PhpkvSetErrorCallback(cb unsafe.Pointer) {
	zendinterface.SetErrorCallback(cb)
}

func main() {}
