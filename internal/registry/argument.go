package registry

// Argument describes one formal parameter of a registered callable. The name
// is stored NUL-terminated so the registration record can hand it to the
// engine without another copy. Immutable after construction.
type Argument struct {
	name      string
	passByRef bool
	required  bool
}

// ByVal declares a required by-value parameter.
func ByVal(name string) Argument {
	return Argument{name: name + "\x00", required: true}
}

// ByRef declares a required by-reference parameter.
func ByRef(name string) Argument {
	return Argument{name: name + "\x00", passByRef: true, required: true}
}

// ByValOptional declares an optional by-value parameter.
func ByValOptional(name string) Argument {
	return Argument{name: name + "\x00"}
}

// ByRefOptional declares an optional by-reference parameter.
func ByRefOptional(name string) Argument {
	return Argument{name: name + "\x00", passByRef: true}
}

// Name returns the parameter name including the trailing NUL.
func (a Argument) Name() string { return a.name }

// PassByRef reports whether the parameter is passed by reference.
func (a Argument) PassByRef() bool { return a.passByRef }

// Required reports whether the parameter is required.
func (a Argument) Required() bool { return a.required }
