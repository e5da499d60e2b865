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

// FunctionEntries is the registration table handed to the engine's bulk
// module-registration call: a zero-terminated array of function entry
// records at a stable address. Allocated once, never freed, never mutated
// by this library after construction (the engine may rewrite entries as
// part of its own registration bookkeeping).
type FunctionEntries struct {
	base *C.zend_function_entry
	n    int
}

// NewFunctionEntries builds the table from the given registrations.
func NewFunctionEntries(entities ...*registry.Entity) *FunctionEntries {
	n := len(entities)
	base := (*C.zend_function_entry)(C.calloc(C.size_t(n+1), C.sizeof_zend_function_entry))
	table := unsafe.Slice(base, n+1)
	for i, e := range entities {
		table[i] = entryFor(e)
	}
	// table[n] stays zeroed: the engine stops at the first record without
	// a name.
	return &FunctionEntries{base: base, n: n}
}

// Get returns the stable base pointer for the engine.
func (t *FunctionEntries) Get() unsafe.Pointer {
	return unsafe.Pointer(t.base)
}

// Len returns the number of registrations in the table.
func (t *FunctionEntries) Len() int {
	return t.n
}
