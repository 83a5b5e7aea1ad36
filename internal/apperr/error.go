package apperr

import (
	"maps"
	"runtime"

	"github.com/google/uuid"
)

// Kind discriminates the error taxonomy. It implements error so it can be
// used as an errors.Is target.
type Kind string

const (
	KindBase           Kind = "BaseError"
	KindValidation     Kind = "ValidationError"
	KindConfiguration  Kind = "ConfigurationError"
	KindBusinessLogic  Kind = "BusinessLogicError"
	KindNotImplemented Kind = "NotImplementedError"
	KindType           Kind = "TypeError"
)

// Error implements error.
func (k Kind) Error() string {
	return string(k)
}

const (
	// Unknown is reported for component and operation when inference fails.
	Unknown = "unknown"

	maxStackFrames = 32
)

// BaseError is the base typed error. It is immutable after construction.
type BaseError struct {
	kind      Kind
	message   string
	component string
	operation string
	details   map[string]any
	cause     error
	id        string
	pcs       []uintptr
}

// Option configures error construction.
type Option func(*options)

type options struct {
	component  string
	operation  string
	details    map[string]any
	stackDepth int
	cause      error
}

// WithComponent sets the component explicitly, overriding inference.
func WithComponent(component string) Option {
	return func(o *options) { o.component = component }
}

// WithOperation sets the operation explicitly, overriding inference.
func WithOperation(operation string) Option {
	return func(o *options) { o.operation = operation }
}

// WithDetails attaches structured details. Empty maps are dropped.
func WithDetails(details map[string]any) Option {
	return func(o *options) { o.details = details }
}

// WithStackDepth selects which frame drives inference. 1, the default, is the
// function that called the constructor; 2 is its caller, and so on.
func WithStackDepth(depth int) Option {
	return func(o *options) { o.stackDepth = depth }
}

// WithCause wraps an underlying error.
func WithCause(err error) Option {
	return func(o *options) { o.cause = err }
}

// New creates a BaseError.
func New(message string, opts ...Option) *BaseError {
	return build(KindBase, message, opts)
}

// NewConfiguration creates a ConfigurationError.
func NewConfiguration(message string, opts ...Option) *BaseError {
	return build(KindConfiguration, message, opts)
}

// NewType creates a TypeError, used for API misuse such as malformed arguments.
func NewType(message string, opts ...Option) *BaseError {
	return build(KindType, message, opts)
}

// build must be called directly from an exported constructor so that the
// frame offsets below stay valid.
func build(kind Kind, message string, opts []Option) *BaseError {
	o := options{stackDepth: 1}
	for _, opt := range opts {
		opt(&o)
	}

	// Skip runtime.Callers, build and the exported constructor.
	pcs := make([]uintptr, maxStackFrames)
	n := runtime.Callers(3, pcs)
	pcs = pcs[:n]

	component, operation := inferCaller(pcs, o.stackDepth)
	if o.component != "" {
		component = o.component
	}
	if o.operation != "" {
		operation = o.operation
	}

	var details map[string]any
	if len(o.details) > 0 {
		details = maps.Clone(o.details)
	}

	return &BaseError{
		kind:      kind,
		message:   message,
		component: component,
		operation: operation,
		details:   details,
		cause:     o.cause,
		id:        uuid.NewString(),
		pcs:       pcs,
	}
}

// Error implements error.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Unwrap returns the wrapped cause, if any.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// Is reports whether target is this error's Kind.
func (e *BaseError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.kind
}

// As lets errors.As extract the base *BaseError from any subtype.
func (e *BaseError) As(target any) bool {
	if t, ok := target.(**BaseError); ok {
		*t = e
		return true
	}
	return false
}

func (e *BaseError) Kind() Kind        { return e.kind }
func (e *BaseError) Message() string   { return e.message }
func (e *BaseError) Component() string { return e.component }
func (e *BaseError) Operation() string { return e.operation }
func (e *BaseError) ID() string        { return e.id }

// Details returns a copy of the details, or nil when none were given.
func (e *BaseError) Details() map[string]any {
	if e.details == nil {
		return nil
	}
	return maps.Clone(e.details)
}

// Frames returns the call stack captured at construction, starting with the
// constructor's caller.
func (e *BaseError) Frames() []runtime.Frame {
	if len(e.pcs) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(e.pcs)
	out := make([]runtime.Frame, 0, len(e.pcs))
	for {
		f, more := frames.Next()
		out = append(out, f)
		if !more {
			break
		}
	}
	return out
}

// Fields returns the error as a flat map suitable for log metadata.
func (e *BaseError) Fields() map[string]any {
	f := map[string]any{
		"name":      string(e.kind),
		"message":   e.message,
		"component": e.component,
		"operation": e.operation,
		"error_id":  e.id,
	}
	if e.details != nil {
		f["details"] = maps.Clone(e.details)
	}
	if e.cause != nil {
		f["cause"] = e.cause.Error()
	}
	return f
}
