package phpval

import "unsafe"

// ClassEntry identifies one registered class. The engine pointer refers to
// the engine's own class record and stays valid for the process lifetime.
type ClassEntry struct {
	name string
	ptr  unsafe.Pointer
}

// NewClassEntry wraps an engine class record.
func NewClassEntry(name string, enginePtr unsafe.Pointer) *ClassEntry {
	return &ClassEntry{name: name, ptr: enginePtr}
}

// Name returns the class name as registered with the engine.
func (ce *ClassEntry) Name() string { return ce.name }

// EnginePtr returns the engine's class record pointer.
func (ce *ClassEntry) EnginePtr() unsafe.Pointer { return ce.ptr }

// Object is a receiver view for method calls: the engine's object handle
// plus the class identity resolved for the method at call time.
type Object struct {
	handle unsafe.Pointer
	class  *ClassEntry
}

// NewObject builds a receiver view from an engine object handle.
func NewObject(handle unsafe.Pointer, class *ClassEntry) *Object {
	return &Object{handle: handle, class: class}
}

// Handle returns the engine object handle.
func (o *Object) Handle() unsafe.Pointer { return o.handle }

// Class returns the class identity this receiver was constructed with.
// It may be nil when the owning class was never registered.
func (o *Object) Class() *ClassEntry { return o.class }
