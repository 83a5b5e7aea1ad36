package logging

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/fyrsmithlabs/ctxlog/internal/apperr"
	"github.com/fyrsmithlabs/ctxlog/internal/config"
)

// AdapterKind names a built-in adapter.
type AdapterKind string

const (
	AdapterZap     AdapterKind = config.AdapterZap
	AdapterZerolog AdapterKind = config.AdapterZerolog
)

// NewAdapter builds the built-in adapter of the given kind. Both built-in
// adapters implement io.Closer.
func NewAdapter(kind AdapterKind, cfg config.LoggingConfig, opts ...AdapterOption) (Port, error) {
	switch kind {
	case AdapterZap:
		a, err := NewZapAdapter(cfg, opts...)
		if err != nil {
			return nil, err
		}
		return a, nil
	case AdapterZerolog:
		a, err := NewZerologAdapter(cfg, opts...)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, apperr.NewConfiguration(fmt.Sprintf("unknown adapter %q", kind),
			apperr.WithComponent("root"),
			apperr.WithOperation("adapter"),
			apperr.WithDetails(map[string]any{
				"adapter":   string(kind),
				"available": []string{string(AdapterZap), string(AdapterZerolog)},
			}))
	}
}

// CreateOptions selects the adapter behind a new Logger.
//
// When Adapter is set it is used as is, with Methods or, if Methods is empty,
// every method the adapter reports. Otherwise AdapterName, or the configured
// adapter when empty, picks a built-in adapter that the Logger then owns.
type CreateOptions struct {
	AdapterName AdapterKind
	Adapter     Port
	Methods     []Method
}

// Root resolves the configured adapter and hands out the process loggers: a
// default logger scoped to the service and per-module children of it.
type Root struct {
	cfg    config.LoggingConfig
	opts   []AdapterOption
	logger *Logger
}

// NewRoot builds the default logger for cfg. Close releases it.
func NewRoot(cfg config.LoggingConfig, opts ...AdapterOption) (*Root, error) {
	r := &Root{cfg: cfg, opts: opts}

	l, err := r.CreateLogger(Context{"service": cfg.ServiceName}, CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("create default logger: %w", err)
	}
	r.logger = l

	l.Debug("logger initialized", Metadata{
		"adapter": cfg.Adapter,
		"level":   cfg.Level,
		"console": cfg.Console,
		"files":   cfg.StoreFiles,
	})
	return r, nil
}

// CreateLogger returns a Logger with default context ctx; see CreateOptions.
// A Logger whose adapter was built here owns it and must be closed.
func (r *Root) CreateLogger(ctx Context, o CreateOptions) (*Logger, error) {
	if o.Adapter != nil {
		methods := o.Methods
		if len(methods) == 0 {
			methods = o.Adapter.Methods()
		}
		return New(ctx, o.Adapter, methods)
	}

	kind := o.AdapterName
	if kind == "" {
		kind = AdapterKind(r.cfg.Adapter)
	}
	adapter, err := NewAdapter(kind, r.cfg, r.opts...)
	if err != nil {
		return nil, err
	}

	methods := o.Methods
	if len(methods) == 0 {
		methods = adapter.Methods()
	}
	l, err := New(ctx, adapter, methods)
	if err != nil {
		closeAdapter(adapter)
		return nil, err
	}
	if c, ok := adapter.(io.Closer); ok {
		l.closer = c
	}
	return l, nil
}

// Logger returns the default logger.
func (r *Root) Logger() *Logger {
	return r.logger
}

// Module returns a child of the default logger scoped to module name, with
// extra merged on top.
func (r *Root) Module(name string, extra ...Context) *Logger {
	return r.logger.With(moduleContext(name, extra))
}

// Config returns the configuration the root was built with.
func (r *Root) Config() config.LoggingConfig {
	return r.cfg
}

// Close flushes and closes the default logger's adapter.
func (r *Root) Close() error {
	return r.logger.Close()
}

func moduleContext(name string, extra []Context) Context {
	ctx := Context{"module": name}
	for _, e := range extra {
		ctx = Merge(ctx, e)
	}
	return ctx
}

func closeAdapter(p Port) {
	if c, ok := p.(io.Closer); ok {
		_ = c.Close()
	}
}

var defaultRoot atomic.Pointer[Root]

// nopLogger drops everything. L returns it until SetDefault is called.
var nopLogger = &Logger{context: Context{"service": UnknownService}}

// SetDefault makes r the process-wide root used by L, Module and CreateLogger.
func SetDefault(r *Root) {
	defaultRoot.Store(r)
}

// L returns the process-wide default logger.
func L() *Logger {
	if r := defaultRoot.Load(); r != nil {
		return r.Logger()
	}
	return nopLogger
}

// Module returns a module logger from the process-wide root.
func Module(name string, extra ...Context) *Logger {
	return L().With(moduleContext(name, extra))
}

// CreateLogger creates a Logger through the process-wide root, or through
// one built from default configuration when none is set.
func CreateLogger(ctx Context, o CreateOptions) (*Logger, error) {
	r := defaultRoot.Load()
	if r == nil {
		r = &Root{cfg: config.NewDefaultConfig().Logging}
	}
	return r.CreateLogger(ctx, o)
}
