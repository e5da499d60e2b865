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

// entryFor materializes the engine-visible registration record for an
// entity. The record's handler is always the shared trampoline; the arg-info
// array carries, in order, a header cell whose name field holds the
// required-argument count, one cell per declared argument, a zeroed
// terminator, and a sentinel cell whose name field holds the callable
// handle. The array and the name strings are allocated in C memory and
// never freed: the engine retains the pointers for the process lifetime and
// offers no reclamation hook.
func entryFor(e *registry.Entity) C.zend_function_entry {
	args := e.Arguments()
	n := len(args)

	cells := n + 3
	infos := (*C.zend_internal_arg_info)(C.calloc(C.size_t(cells), C.sizeof_zend_internal_arg_info))
	table := unsafe.Slice(infos, cells)

	table[0].name = (*C.char)(unsafe.Pointer(uintptr(e.RequiredArgCount())))
	for i, a := range args {
		table[i+1].name = cStringNulTerminated(a.Name())
		if a.PassByRef() {
			table[i+1].pass_by_reference = 1
		}
	}
	// table[n+1] stays zeroed; the sentinel sits one past it.
	table[n+2].name = (*C.char)(unsafe.Pointer(e.Handle()))

	return C.zend_function_entry{
		fname:    cStringNulTerminated(e.Name()),
		handler:  invokeHandler(),
		arg_info: infos,
		num_args: C.uint32_t(n),
	}
}

// cStringNulTerminated copies a Go string that already carries its NUL
// terminator into C memory. Deliberately leaked.
func cStringNulTerminated(s string) *C.char {
	p := C.malloc(C.size_t(len(s)))
	copy(unsafe.Slice((*byte)(p), len(s)), s)
	return (*C.char)(p)
}
