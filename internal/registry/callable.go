package registry

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zephp/extension/pkg/phpval"
)

// FunctionHandler is a native function body. It receives the actual argument
// slice (sized to what the caller passed, which may exceed the declared
// arity) and its result flows into the engine's return slot.
type FunctionHandler func(args []phpval.Value) any

// MethodHandler is a native method body. It additionally receives the
// receiver object, carrying the class identity resolved for the callable at
// call time.
type MethodHandler func(this *phpval.Object, args []phpval.Value) any

type callableKind uint8

const (
	kindFunction callableKind = iota
	kindMethod
)

// Callable is the native closure a registration ultimately dispatches to,
// either a free function or a bound method. For methods the owning class is
// registered after the closure is captured, so the class reference is bound
// late and read atomically on every call.
type Callable struct {
	kind  callableKind
	fn    FunctionHandler
	meth  MethodHandler
	class atomic.Pointer[phpval.ClassEntry]
}

// NewFunction wraps a function handler.
func NewFunction(fn FunctionHandler) *Callable {
	return &Callable{kind: kindFunction, fn: fn}
}

// NewMethod wraps a method handler. The owning class must be bound with
// BindClass before the first call through the engine.
func NewMethod(m MethodHandler) *Callable {
	return &Callable{kind: kindMethod, meth: m}
}

// IsMethod reports whether the callable dispatches with a receiver.
func (c *Callable) IsMethod() bool { return c.kind == kindMethod }

// BindClass resolves the owning class for a method callable. Registration
// happens-before any call through the engine, so a plain atomic store is
// sufficient; the latest binding wins.
func (c *Callable) BindClass(ce *phpval.ClassEntry) {
	c.class.Store(ce)
}

// Class returns the class identity most recently bound, or nil.
func (c *Callable) Class() *phpval.ClassEntry {
	return c.class.Load()
}

// handleTable maps opaque uintptr handles to callables so engine-side
// records can reference Go memory without holding Go pointers. Handles are
// never released: the engine retains registration records for the process
// lifetime, so the backing callables must outlive any reclamation scheme.
type handleTable struct {
	mu   sync.Mutex
	next uintptr
	m    map[uintptr]*Callable
}

var handles = handleTable{next: 1, m: make(map[uintptr]*Callable)}

func (t *handleTable) register(c *Callable) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.next
	t.next++
	t.m[h] = c
	return h
}

func (t *handleTable) lookup(h uintptr) *Callable {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.m[h]
}

// ResolveCallable returns the callable behind a sentinel payload. A zero or
// unknown handle means the registration record was built outside this
// library or has been corrupted; that is a programming error with no
// recovery path, not bad user input.
func ResolveCallable(payload uintptr) *Callable {
	if payload == 0 {
		panic("registry: nil callable handle in sentinel cell")
	}
	c := handles.lookup(payload)
	if c == nil {
		panic(fmt.Sprintf("registry: unknown callable handle %#x", payload))
	}
	return c
}
