package logging

import (
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel/log"
)

// AdapterOption configures a backend adapter beyond what config.LoggingConfig
// covers.
type AdapterOption func(*adapterOptions)

type adapterOptions struct {
	console  io.Writer
	provider log.LoggerProvider
	metrics  *Metrics
	now      func() time.Time
}

// WithConsole sets the console sink. Defaults to os.Stdout.
func WithConsole(w io.Writer) AdapterOption {
	return func(o *adapterOptions) {
		o.console = w
	}
}

// WithLoggerProvider enables the OpenTelemetry sink of the zap adapter. It
// only takes effect when the otel setting is on.
func WithLoggerProvider(p log.LoggerProvider) AdapterOption {
	return func(o *adapterOptions) {
		o.provider = p
	}
}

// WithMetrics counts written records on m.
func WithMetrics(m *Metrics) AdapterOption {
	return func(o *adapterOptions) {
		o.metrics = m
	}
}

// WithClock sets the clock used for period rotation of log files.
func WithClock(now func() time.Time) AdapterOption {
	return func(o *adapterOptions) {
		o.now = now
	}
}

func newAdapterOptions(opts []AdapterOption) adapterOptions {
	o := adapterOptions{
		console: os.Stdout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
