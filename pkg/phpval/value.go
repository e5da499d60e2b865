// Package phpval holds the dynamically-typed value layer shared between the
// engine interop surface and native handlers. It deliberately stays thin:
// coercion rules, array/property storage and the engine allocator belong to
// the engine, not to this library.
package phpval

import "fmt"

// Kind identifies the runtime type of a Value.
type Kind uint8

const (
	KindUndef Kind = iota
	KindNull
	KindBool
	KindLong
	KindDouble
	KindString
	KindObject
)

// String returns a short name for the kind, for logging.
func (k Kind) String() string {
	switch k {
	case KindUndef:
		return "undef"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindLong:
		return "long"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one dynamically-typed script value.
type Value struct {
	kind Kind
	lval int64
	dval float64
	str  string
	obj  *Object
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.lval = 1
	}
	return v
}

// Long returns an integer value.
func Long(i int64) Value {
	return Value{kind: KindLong, lval: i}
}

// Double returns a floating point value.
func Double(f float64) Value {
	return Value{kind: KindDouble, dval: f}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// ObjectValue wraps an object as a value.
func ObjectValue(o *Object) Value {
	return Value{kind: KindObject, obj: o}
}

// Kind returns the value's runtime type.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null or undefined.
func (v Value) IsNull() bool { return v.kind == KindNull || v.kind == KindUndef }

// Bool returns the boolean payload. False for non-boolean values.
func (v Value) Bool() bool { return v.kind == KindBool && v.lval != 0 }

// Long returns the integer payload. Zero for non-numeric values.
func (v Value) Long() int64 {
	if v.kind == KindDouble {
		return int64(v.dval)
	}
	return v.lval
}

// Double returns the floating point payload, widening longs.
func (v Value) Double() float64 {
	if v.kind == KindLong {
		return float64(v.lval)
	}
	return v.dval
}

// String returns the string payload, formatting scalar values.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindLong:
		return fmt.Sprintf("%d", v.lval)
	case KindDouble:
		return fmt.Sprintf("%g", v.dval)
	case KindBool:
		if v.lval != 0 {
			return "1"
		}
		return ""
	default:
		return ""
	}
}

// Object returns the object payload, or nil for non-object values.
func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// FromAny maps a native handler result onto a Value. It covers the result
// types handlers commonly return; anything else is formatted as a string.
func FromAny(result any) Value {
	switch r := result.(type) {
	case nil:
		return Null()
	case Value:
		return r
	case bool:
		return Bool(r)
	case int:
		return Long(int64(r))
	case int32:
		return Long(int64(r))
	case int64:
		return Long(r)
	case uint:
		return Long(int64(r))
	case uint32:
		return Long(int64(r))
	case uint64:
		return Long(int64(r))
	case float32:
		return Double(float64(r))
	case float64:
		return Double(r)
	case string:
		return String(r)
	case *Object:
		return ObjectValue(r)
	case error:
		return String(r.Error())
	default:
		return String(fmt.Sprintf("%v", r))
	}
}
