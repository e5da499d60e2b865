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

// RegisterClass creates the engine-visible class record for name, builds the
// method table, and resolves the class identity into each method's callable.
// Class registration necessarily happens after the method closures were
// captured; the callables read the latest binding at call time.
//
// The class record is C-allocated and retained for the process lifetime.
func RegisterClass(name string, methods ...*registry.Entity) (*phpval.ClassEntry, *FunctionEntries) {
	ce := (*C.zend_class_entry)(C.calloc(1, C.sizeof_zend_class_entry))
	ce.name = C.CString(name)

	entry := phpval.NewClassEntry(name, unsafe.Pointer(ce))
	for _, m := range methods {
		m.Callable().BindClass(entry)
	}

	return entry, NewFunctionEntries(methods...)
}
