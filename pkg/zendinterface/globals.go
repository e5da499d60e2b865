package zendinterface

/*
#include <stdlib.h>
#include "zephp.h"
*/
import "C"

import (
	"unsafe"
)

// Ini modifiability flags, matching the engine's ini model.
const (
	IniUser   = 1
	IniPerDir = 2
	IniSystem = 4
	IniAll    = IniUser | IniPerDir | IniSystem
)

// ModuleGlobals holds one extension-global value at a fixed address for the
// process lifetime, for engine APIs that write through raw pointers (ini
// bindings in particular).
//
// There is no internal locking: the engine serializes access to module
// globals under its own threading contract, and this type only enables the
// sharing that contract mandates. T must not contain Go pointers; the cell
// lives in C memory so its address survives for the process.
type ModuleGlobals[T any] struct {
	ptr *T
}

// NewModuleGlobals allocates the cell and stores the initial value. The
// allocation is never released.
func NewModuleGlobals[T any](initial T) *ModuleGlobals[T] {
	var zero T
	p := (*T)(C.calloc(1, C.size_t(unsafe.Sizeof(zero))))
	*p = initial
	return &ModuleGlobals[T]{ptr: p}
}

// Get returns the pointer to the interior value. Callers own any
// synchronization beyond what the engine's threading contract guarantees.
func (g *ModuleGlobals[T]) Get() *T {
	return g.ptr
}

// Addr returns the cell's raw address for handing to engine APIs.
func (g *ModuleGlobals[T]) Addr() unsafe.Pointer {
	return unsafe.Pointer(g.ptr)
}

// CreateIniEntryDef builds an engine configuration descriptor pointing at
// this cell, so engine-driven ini updates write straight into it. onModify
// is an optional C change-hook pointer (zend_ini_mh); pass nil for none.
// The returned record is C-allocated and permanently retained.
func (g *ModuleGlobals[T]) CreateIniEntryDef(name, defaultValue string, onModify unsafe.Pointer, modifiable int) unsafe.Pointer {
	def := (*C.zend_ini_entry_def)(C.calloc(1, C.sizeof_zend_ini_entry_def))
	def.name = C.CString(name)
	if onModify != nil {
		def.on_modify = (C.zend_ini_mh)(onModify)
	}
	def.mh_arg2 = unsafe.Pointer(g.ptr)
	def.value = C.CString(defaultValue)
	def.modifiable = C.int(modifiable)
	def.name_length = C.uint32_t(len(name))
	def.value_length = C.uint32_t(len(defaultValue))
	return unsafe.Pointer(def)
}
