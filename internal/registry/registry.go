package registry

import (
	"context"
	"fmt"
	"unsafe"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/zephp/extension/pkg/phpval"
)

// Frame is the opaque per-call context the engine hands to the trampoline.
// The interop layer adapts the engine's execute-data to this surface; tests
// drive the trampoline with fakes.
type Frame interface {
	// NumArgs returns the actual argument count of this call.
	NumArgs() int

	// RequiredNumArgs returns the declared required-argument count from the
	// registration record.
	RequiredNumArgs() int

	// SentinelPayload returns the type-erased callable handle smuggled
	// through the arg-info cell one past the declared arguments.
	SentinelPayload() uintptr

	// Arg returns actual argument i as a value.
	Arg(i int) phpval.Value

	// Receiver returns the engine object handle for method calls, nil for
	// plain function calls.
	Receiver() unsafe.Pointer
}

// ReturnSlot is the engine's out-parameter for the call result.
type ReturnSlot interface {
	// SetVoid stores the null/void value.
	SetVoid()

	// Set stores a native handler result, mapping it to an engine value.
	Set(result any)
}

// Severity classifies engine diagnostics.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// Diagnostics is the engine's warning/error reporting channel. The arity
// violation path is the only place this core reports through it.
type Diagnostics interface {
	Report(sev Severity, msg string)
}

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Registry owns the single invocation trampoline shared by every
// registration. It holds no per-registration state: the callable is
// recovered from the frame's sentinel payload on every call.
type Registry struct {
	logger Logger
	diag   Diagnostics

	// OTEL metrics
	processed metric.Int64Counter
	rejected  metric.Int64Counter
}

// New creates a Registry reporting through the given logger and engine
// diagnostics channel. Uses the global OTel meter for metrics (no-op if not
// configured).
func New(logger Logger, diag Diagnostics) (*Registry, error) {
	r := &Registry{
		logger: logger,
		diag:   diag,
	}

	m := meter()

	var err error

	r.processed, err = m.Int64Counter(
		"registry.calls.processed",
		metric.WithDescription("Total calls dispatched to native handlers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	r.rejected, err = m.Int64Counter(
		"registry.calls.rejected",
		metric.WithDescription("Total calls rejected for missing required arguments"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}

	return r, nil
}

// Invoke is the uniform dispatch path behind every registration record. It
// recovers the callable from the frame's sentinel payload, validates arity,
// materializes the actual arguments and dispatches. Marshaling errors are
// fully resolved before the handler runs; once invoked, the handler's
// failure behavior is its own business.
func (r *Registry) Invoke(frame Frame, ret ReturnSlot) {
	c := ResolveCallable(frame.SentinelPayload())

	required := frame.RequiredNumArgs()
	actual := frame.NumArgs()
	if actual < required {
		r.diag.Report(SeverityWarning,
			fmt.Sprintf("expects at least %d parameter(s), %d given", required, actual))
		r.rejected.Add(context.Background(), 1)
		ret.SetVoid()
		return
	}

	// Sized to the actual count: excess arguments beyond the declared
	// arity pass through to the handler.
	args := make([]phpval.Value, actual)
	for i := range args {
		args[i] = frame.Arg(i)
	}

	switch c.kind {
	case kindFunction:
		ret.Set(c.fn(args))
	case kindMethod:
		this := phpval.NewObject(frame.Receiver(), c.class.Load())
		ret.Set(c.meth(this, args))
	}

	r.processed.Add(context.Background(), 1,
		metric.WithAttributes(attribute.Int("args", actual)))

	if r.logger != nil {
		r.logger.Debug("dispatched call", "args", actual, "method", c.IsMethod())
	}
}
