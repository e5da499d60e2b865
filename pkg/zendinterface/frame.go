package zendinterface

/*
#include <stdlib.h>
#include <string.h>
#include "zephp.h"
*/
import "C"

import (
	"unsafe"

	"github.com/zephp/extension/internal/registry"
	"github.com/zephp/extension/pkg/phpval"
)

// zendFrame adapts the engine's execute data to the registry's frame
// surface.
type zendFrame struct {
	ex *C.zend_execute_data
}

var _ registry.Frame = (*zendFrame)(nil)

func (f *zendFrame) NumArgs() int {
	return int(f.ex.num_args)
}

func (f *zendFrame) RequiredNumArgs() int {
	return int(f.ex._func.required_num_args)
}

// SentinelPayload reads the callable handle smuggled through the arg-info
// cell at num_args+1. The engine advanced arg_info past the header cell at
// registration, so indexing starts at the first declared argument.
func (f *zendFrame) SentinelPayload() uintptr {
	info := f.ex._func.arg_info
	if info == nil {
		return 0
	}
	declared := uintptr(f.ex._func.num_args)
	sentinel := (*C.zend_internal_arg_info)(unsafe.Add(
		unsafe.Pointer(info),
		(declared+1)*C.sizeof_zend_internal_arg_info,
	))
	return uintptr(unsafe.Pointer(sentinel.name))
}

func (f *zendFrame) Arg(i int) phpval.Value {
	zv := (*C.zval)(unsafe.Add(unsafe.Pointer(f.ex.args), uintptr(i)*C.sizeof_zval))
	return valueFromZval(zv)
}

func (f *zendFrame) Receiver() unsafe.Pointer {
	return f.ex.this_ptr
}

// zendReturnSlot adapts the engine's return zval to the registry's
// return-slot surface.
type zendReturnSlot struct {
	rv *C.zval
}

var _ registry.ReturnSlot = (*zendReturnSlot)(nil)

func (s *zendReturnSlot) SetVoid() {
	s.rv._type = C.ZEPHP_IS_NULL
}

func (s *zendReturnSlot) Set(result any) {
	storeZval(s.rv, phpval.FromAny(result))
}

func valueFromZval(zv *C.zval) phpval.Value {
	switch zv._type {
	case C.ZEPHP_IS_FALSE:
		return phpval.Bool(false)
	case C.ZEPHP_IS_TRUE:
		return phpval.Bool(true)
	case C.ZEPHP_IS_LONG:
		return phpval.Long(int64(zv.lval))
	case C.ZEPHP_IS_DOUBLE:
		return phpval.Double(float64(zv.dval))
	case C.ZEPHP_IS_STRING:
		return phpval.String(C.GoStringN(zv.str, C.int(zv.str_len)))
	case C.ZEPHP_IS_OBJECT:
		return phpval.ObjectValue(phpval.NewObject(zv.obj, nil))
	default:
		return phpval.Null()
	}
}

// storeZval writes a value into an engine slot. String payloads are copied
// into C memory; the engine takes ownership of the copy.
func storeZval(zv *C.zval, v phpval.Value) {
	switch v.Kind() {
	case phpval.KindBool:
		if v.Bool() {
			zv._type = C.ZEPHP_IS_TRUE
		} else {
			zv._type = C.ZEPHP_IS_FALSE
		}
	case phpval.KindLong:
		zv._type = C.ZEPHP_IS_LONG
		zv.lval = C.int64_t(v.Long())
	case phpval.KindDouble:
		zv._type = C.ZEPHP_IS_DOUBLE
		zv.dval = C.double(v.Double())
	case phpval.KindString:
		s := v.String()
		zv._type = C.ZEPHP_IS_STRING
		zv.str = cStringN(s)
		zv.str_len = C.size_t(len(s))
	case phpval.KindObject:
		zv._type = C.ZEPHP_IS_OBJECT
		zv.obj = v.Object().Handle()
	default:
		zv._type = C.ZEPHP_IS_NULL
	}
}

// cStringN copies a Go string into C memory without a NUL terminator; the
// length travels separately in the zval.
func cStringN(s string) *C.char {
	if len(s) == 0 {
		return nil
	}
	p := C.malloc(C.size_t(len(s)))
	copy(unsafe.Slice((*byte)(p), len(s)), s)
	return (*C.char)(p)
}
