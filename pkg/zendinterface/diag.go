package zendinterface

/*
#include <stdlib.h>
#include "zephp.h"
*/
import "C"

import (
	"unsafe"

	"github.com/zephp/extension/internal/registry"
)

// engineDiagnostics forwards registry diagnostics to the engine's error
// callback, falling back to the configured logger when the loader has not
// installed one yet.
type engineDiagnostics struct{}

// Diagnostics returns the engine-backed diagnostics channel for wiring into
// a registry.
func Diagnostics() registry.Diagnostics {
	return engineDiagnostics{}
}

func (engineDiagnostics) Report(sev registry.Severity, msg string) {
	if cb := Config.errorCB; cb != nil {
		cmsg := C.CString(msg)
		defer C.free(unsafe.Pointer(cmsg))
		callErrorCB(cb, C.int(engineSeverity(sev)), cmsg)
		return
	}

	if Config.logger != nil {
		Config.logger.Error("engine diagnostic with no callback installed", "message", msg)
	}
}

// SetErrorCallback installs the engine's diagnostic entry point from an
// opaque pointer, for hosts that pass it across the C boundary as void*.
func SetErrorCallback(cb unsafe.Pointer) {
	Config.errorCB = C.zephp_error_cb(cb)
}

func engineSeverity(sev registry.Severity) int {
	if sev == registry.SeverityError {
		return C.ZEPHP_E_ERROR
	}
	return C.ZEPHP_E_WARNING
}
