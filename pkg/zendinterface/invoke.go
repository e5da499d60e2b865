package zendinterface

/*
#include "zephp.h"
*/
import "C"

// Config defines how calls into this extension will be handled
var Config configStruct = configStruct{}

func init() {
	Config.Init()
}

// ZephpInvoke is the uniform handler installed in every registration record.
// The engine calls it once per script-level call with the opaque execute
// data and the return-value slot; which native closure to run is recovered
// from the frame itself, so one fixed signature serves every registration.
//
//export ZephpInvoke
func ZephpInvoke(executeData *C.zend_execute_data, returnValue *C.zval) {
	slot := &zendReturnSlot{rv: returnValue}

	reg := Config.registry
	if reg == nil {
		slot.SetVoid()
		return
	}

	reg.Invoke(&zendFrame{ex: executeData}, slot)
}

// ZephpSetErrorCallback installs the engine's diagnostic entry point. Called
// by the loader before any script-level call reaches the trampoline.
//
//export ZephpSetErrorCallback
func ZephpSetErrorCallback(cb C.zephp_error_cb) {
	Config.errorCB = cb
}
