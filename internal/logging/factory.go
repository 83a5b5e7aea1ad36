package logging

import (
	"fmt"
	"io"
	"reflect"
	"slices"

	"github.com/fyrsmithlabs/ctxlog/internal/apperr"
)

// UnknownService is the service name used when a logger is created with an
// empty default context.
const UnknownService = "unknown-service"

// Logger dispatches log calls to an adapter after merging the call's context
// into the logger's default context. Only the methods requested at
// construction are bound; calls to any other level are dropped.
//
// A Logger is immutable. Loggers derived with With share the adapter but
// nothing mutable.
type Logger struct {
	context  Context
	emitters map[Method]emitFunc
	methods  []Method
	closer   io.Closer
}

// New validates adapter against the Port contract and returns a Logger
// exposing exactly the requested methods.
//
// It fails with a TypeError when methods is nil or contains an empty name,
// and with a ConfigurationError when adapter is nil or lacks any requested
// method. The missing-method error lists every missing name.
func New(defaultCtx Context, adapter Port, methods []Method) (*Logger, error) {
	if methods == nil {
		return nil, apperr.NewType("log methods must be a list of method names",
			apperr.WithComponent("logger"),
			apperr.WithOperation("create"))
	}
	for i, m := range methods {
		if m == "" {
			return nil, apperr.NewType(fmt.Sprintf("log method at index %d is empty", i),
				apperr.WithComponent("logger"),
				apperr.WithOperation("create"),
				apperr.WithDetails(map[string]any{"requested": methodNames(methods)}))
		}
	}

	adapterType := fmt.Sprintf("%T", adapter)
	if isNil(adapter) {
		return nil, apperr.NewConfiguration("adapter "+adapterType+" does not satisfy the logging port",
			apperr.WithComponent("logger"),
			apperr.WithOperation("create"),
			apperr.WithDetails(map[string]any{"adapterType": adapterType}))
	}

	available := adapter.Methods()
	emitters := make(map[Method]emitFunc, len(methods))
	bound := make([]Method, 0, len(methods))
	var missing []Method

	for _, m := range methods {
		if _, dup := emitters[m]; dup || slices.Contains(missing, m) {
			continue
		}
		fn, ok := bind(adapter, m)
		if !ok || !slices.Contains(available, m) {
			missing = append(missing, m)
			continue
		}
		emitters[m] = fn
		bound = append(bound, m)
	}

	if len(missing) > 0 {
		return nil, apperr.NewConfiguration(
			fmt.Sprintf("adapter %s is missing log methods: %v", adapterType, methodNames(missing)),
			apperr.WithComponent("logger"),
			apperr.WithOperation("create"),
			apperr.WithDetails(map[string]any{
				"missing":     methodNames(missing),
				"requested":   methodNames(methods),
				"available":   methodNames(available),
				"adapterType": adapterType,
			}))
	}

	if len(defaultCtx) == 0 {
		defaultCtx = Context{"service": UnknownService}
	}

	return &Logger{
		context:  defaultCtx,
		emitters: emitters,
		methods:  bound,
	}, nil
}

// Log emits msg through method m. meta is never mutated; the adapter receives
// a copy whose ContextKey entry is the logger's context merged with the
// caller's. A non-map value under ContextKey is ignored.
func (l *Logger) Log(m Method, msg any, meta Metadata) {
	emit, ok := l.emitters[m]
	if !ok {
		return
	}

	out := make(Metadata, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	callCtx, _ := asContext(meta[ContextKey])
	out[ContextKey] = Merge(l.context, callCtx)

	emit(msg, out)
}

func (l *Logger) Error(msg any, meta ...Metadata)   { l.Log(MethodError, msg, combine(meta)) }
func (l *Logger) Warn(msg any, meta ...Metadata)    { l.Log(MethodWarn, msg, combine(meta)) }
func (l *Logger) Info(msg any, meta ...Metadata)    { l.Log(MethodInfo, msg, combine(meta)) }
func (l *Logger) HTTP(msg any, meta ...Metadata)    { l.Log(MethodHTTP, msg, combine(meta)) }
func (l *Logger) Verbose(msg any, meta ...Metadata) { l.Log(MethodVerbose, msg, combine(meta)) }
func (l *Logger) Debug(msg any, meta ...Metadata)   { l.Log(MethodDebug, msg, combine(meta)) }
func (l *Logger) Fatal(msg any, meta ...Metadata)   { l.Log(MethodFatal, msg, combine(meta)) }
func (l *Logger) Trace(msg any, meta ...Metadata)   { l.Log(MethodTrace, msg, combine(meta)) }

// Err logs err at error level with its typed diagnostic fields under "error".
func (l *Logger) Err(msg any, err error, meta ...Metadata) {
	m := combine(append(slices.Clip(meta), Metadata{"error": apperr.Fields(err)}))
	l.Log(MethodError, msg, m)
}

// With returns a child logger whose default context is ctx merged over the
// parent's.
func (l *Logger) With(ctx Context) *Logger {
	return &Logger{
		context:  Merge(l.context, ctx),
		emitters: l.emitters,
		methods:  l.methods,
	}
}

// Context returns the logger's default context.
func (l *Logger) Context() Context {
	return l.context
}

// Enabled reports whether m is bound on this logger.
func (l *Logger) Enabled(m Method) bool {
	_, ok := l.emitters[m]
	return ok
}

// Methods returns the bound methods in request order.
func (l *Logger) Methods() []Method {
	return slices.Clone(l.methods)
}

// Close releases the adapter when this logger created it; see CreateLogger.
// It is a no-op otherwise.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// combine folds optional metadata arguments into one map; later maps win.
func combine(meta []Metadata) Metadata {
	switch len(meta) {
	case 0:
		return nil
	case 1:
		return meta[0]
	}
	out := make(Metadata)
	for _, m := range meta {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func methodNames(methods []Method) []string {
	out := make([]string, len(methods))
	for i, m := range methods {
		out[i] = string(m)
	}
	return out
}

func isNil(p Port) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
