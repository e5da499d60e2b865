// Package zendinterface is the engine-facing interop surface of the library:
// the distilled Zend ABI record formats, the single exported trampoline
// installed as the handler for every registration, and the statically
// allocated containers the engine requires at fixed, process-lifetime
// addresses.
package zendinterface

/*
#include "zephp.h"
*/
import "C"

import (
	"github.com/zephp/extension/internal/registry"
)

// configStruct is the central configuration used by this library
type configStruct struct {
	// extensionVersion is reported when the engine queries the extension
	extensionVersion string

	// registry dispatches engine calls to native handlers
	registry *registry.Registry

	// logger receives interop-level messages when no engine diagnostic
	// callback has been installed
	logger registry.Logger

	// errorCB is the engine's diagnostic entry point, installed by the
	// loader through ZephpSetErrorCallback
	errorCB C.zephp_error_cb
}

// Init method initializes the config struct
func (c *configStruct) Init() {
	c.extensionVersion = "No version set"
}

// SetVersion sets the version string reported to the engine
func SetVersion(version string) {
	Config.extensionVersion = version
}

// Version returns the configured extension version string
func Version() string {
	return Config.extensionVersion
}

// SetRegistry sets the registry that dispatches engine calls
func SetRegistry(r *registry.Registry) {
	Config.registry = r
}

// GetRegistry returns the configured registry, or nil if not set
func GetRegistry() *registry.Registry {
	return Config.registry
}

// SetLogger sets the fallback logger for interop-level messages
func SetLogger(l registry.Logger) {
	Config.logger = l
}
