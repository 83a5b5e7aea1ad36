package logging

import (
	"github.com/fyrsmithlabs/ctxlog/internal/apperr"
)

// Port is the capability every backend adapter provides: one method per
// canonical level, each taking a message and metadata. meta may be nil.
//
// Methods reports which of the methods the adapter really implements. The
// logger factory binds only those, so an adapter built on UnimplementedPort
// can leave some levels out.
type Port interface {
	Error(msg any, meta Metadata)
	Warn(msg any, meta Metadata)
	Info(msg any, meta Metadata)
	HTTP(msg any, meta Metadata)
	Verbose(msg any, meta Metadata)
	Debug(msg any, meta Metadata)

	Methods() []Method
}

// Fataler is implemented by adapters with a native fatal level. Fatal logs
// only; it never exits the process.
type Fataler interface {
	Fatal(msg any, meta Metadata)
}

// Tracer is implemented by adapters with a native trace level.
type Tracer interface {
	Trace(msg any, meta Metadata)
}

// UnimplementedPort can be embedded to satisfy Port while implementing only
// some levels. Each method it provides panics with a NotImplementedError, and
// Methods reports none, so embedders must override Methods too.
type UnimplementedPort struct{}

var _ Port = UnimplementedPort{}

func (UnimplementedPort) Error(any, Metadata)   { panic(notImplemented("Error")) }
func (UnimplementedPort) Warn(any, Metadata)    { panic(notImplemented("Warn")) }
func (UnimplementedPort) Info(any, Metadata)    { panic(notImplemented("Info")) }
func (UnimplementedPort) HTTP(any, Metadata)    { panic(notImplemented("HTTP")) }
func (UnimplementedPort) Verbose(any, Metadata) { panic(notImplemented("Verbose")) }
func (UnimplementedPort) Debug(any, Metadata)   { panic(notImplemented("Debug")) }
func (UnimplementedPort) Methods() []Method     { return nil }

func notImplemented(method string) *apperr.NotImplementedError {
	// Depth 2 attributes the error to the UnimplementedPort method.
	return apperr.NewNotImplemented(method, "UnimplementedPort", "Port", apperr.WithStackDepth(2))
}

type emitFunc func(msg any, meta Metadata)

// bind returns the adapter function behind method m.
func bind(p Port, m Method) (emitFunc, bool) {
	switch m {
	case MethodError:
		return p.Error, true
	case MethodWarn:
		return p.Warn, true
	case MethodInfo:
		return p.Info, true
	case MethodHTTP:
		return p.HTTP, true
	case MethodVerbose:
		return p.Verbose, true
	case MethodDebug:
		return p.Debug, true
	case MethodFatal:
		if f, ok := p.(Fataler); ok {
			return f.Fatal, true
		}
	case MethodTrace:
		if t, ok := p.(Tracer); ok {
			return t.Trace, true
		}
	}
	return nil, false
}
