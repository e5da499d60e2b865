package zendinterface

/*
#include <stdlib.h>
#include "zephp.h"
*/
import "C"

import (
	"unsafe"

	"github.com/zephp/extension/internal/registry"
	"github.com/zephp/extension/pkg/phpval"
)

// This file is an in-process engine simulation: it fabricates execute data
// the way the engine's registration and call machinery would, then drives
// the exported trampoline. Tests and embedding hosts use it to validate
// registrations without loading the extension into a real engine.

// RecordInfo is a readable view of an entity's engine record.
type RecordInfo struct {
	Name            string
	NumArgs         int
	RequiredArgs    int
	ArgNames        []string
	ByRef           []bool
	SentinelPayload uintptr
}

// DescribeEntry builds the entity's engine-visible record and reads it back.
func DescribeEntry(e *registry.Entity) RecordInfo {
	rec := entryFor(e)

	n := int(rec.num_args)
	cells := unsafe.Slice(rec.arg_info, n+3)

	info := RecordInfo{
		Name:            C.GoString(rec.fname),
		NumArgs:         n,
		RequiredArgs:    int(uintptr(unsafe.Pointer(cells[0].name))),
		SentinelPayload: uintptr(unsafe.Pointer(cells[n+2].name)),
	}
	for i := 0; i < n; i++ {
		info.ArgNames = append(info.ArgNames, C.GoString(cells[i+1].name))
		info.ByRef = append(info.ByRef, cells[i+1].pass_by_reference != 0)
	}
	return info
}

// SimulatedCall describes one script-level call to drive through the
// trampoline.
type SimulatedCall struct {
	Entity   *registry.Entity
	Args     []phpval.Value
	Receiver unsafe.Pointer
}

// Simulate registers the entity's record the way the engine would (arg_info
// advanced past the header cell), builds the execute data for the call, and
// invokes the trampoline. It returns whatever the return slot holds
// afterwards.
func Simulate(call SimulatedCall) phpval.Value {
	rec := entryFor(call.Entity)

	common := (*C.zend_function_common)(C.calloc(1, C.sizeof_zend_function_common))
	common.num_args = rec.num_args
	common.required_num_args = C.uint32_t(call.Entity.RequiredArgCount())
	// The engine keeps the header cell for itself and points the function
	// at the first declared argument.
	common.arg_info = (*C.zend_internal_arg_info)(unsafe.Add(
		unsafe.Pointer(rec.arg_info), C.sizeof_zend_internal_arg_info))

	actual := len(call.Args)
	var argv *C.zval
	if actual > 0 {
		argv = (*C.zval)(C.calloc(C.size_t(actual), C.sizeof_zval))
		zvals := unsafe.Slice(argv, actual)
		for i, a := range call.Args {
			storeZval(&zvals[i], a)
		}
	}

	ex := (*C.zend_execute_data)(C.calloc(1, C.sizeof_zend_execute_data))
	ex._func = common
	ex.num_args = C.uint32_t(actual)
	ex.args = argv
	ex.this_ptr = call.Receiver

	var rv C.zval
	ZephpInvoke(ex, &rv)

	C.free(unsafe.Pointer(ex))
	if argv != nil {
		C.free(unsafe.Pointer(argv))
	}
	C.free(unsafe.Pointer(common))

	return valueFromZval(&rv)
}
