package registry

// Entity ties one named registration to its callable and declared argument
// list. The engine-visible record for an entity is produced by the interop
// layer; the entity itself (and its callable) is expected to live for the
// process lifetime, matching the engine's retention of the record pointer.
type Entity struct {
	name     string
	callable *Callable
	args     []Argument
	handle   uintptr
}

// NewEntity builds a registration entry. The name is stored NUL-terminated
// for engine interop, and the callable is pinned in the process-wide handle
// table immediately so the record builder can embed its handle.
func NewEntity(name string, c *Callable, args ...Argument) *Entity {
	return &Entity{
		name:     name + "\x00",
		callable: c,
		args:     args,
		handle:   handles.register(c),
	}
}

// NewFunctionEntity registers a free function.
func NewFunctionEntity(name string, fn FunctionHandler, args ...Argument) *Entity {
	return NewEntity(name, NewFunction(fn), args...)
}

// NewMethodEntity registers a method. The owning class is bound later, when
// the class itself is registered.
func NewMethodEntity(name string, m MethodHandler, args ...Argument) *Entity {
	return NewEntity(name, NewMethod(m), args...)
}

// Name returns the registration name including the trailing NUL.
func (e *Entity) Name() string { return e.name }

// Callable returns the native closure this entity dispatches to.
func (e *Entity) Callable() *Callable { return e.callable }

// Arguments returns the declared parameters in order.
func (e *Entity) Arguments() []Argument { return e.args }

// Handle returns the sentinel payload embedded in the entity's record.
func (e *Entity) Handle() uintptr { return e.handle }

// NumArgs returns the declared arity.
func (e *Entity) NumArgs() int { return len(e.args) }

// RequiredArgCount returns how many declared parameters are required.
func (e *Entity) RequiredArgCount() int {
	n := 0
	for _, a := range e.args {
		if a.Required() {
			n++
		}
	}
	return n
}
