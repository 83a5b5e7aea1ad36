package telemetry

import (
	"context"
	"sync"
	"testing"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestTelemetry records spans and log records in memory.
type TestTelemetry struct {
	*Telemetry

	SpanRecorder *tracetest.SpanRecorder
	Logs         *LogRecorder
}

// NewTestTelemetry creates enabled telemetry backed by in-memory exporters.
// It does not touch the global providers.
func NewTestTelemetry() *TestTelemetry {
	cfg := NewDefaultConfig()
	cfg.Enabled = true

	spans := tracetest.NewSpanRecorder()
	logs := &LogRecorder{}
	res := newResource(cfg)

	t := &Telemetry{
		config:         cfg,
		tracerProvider: trace.NewTracerProvider(trace.WithSpanProcessor(spans), trace.WithResource(res)),
		loggerProvider: sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewSimpleProcessor(logs)),
			sdklog.WithResource(res),
		),
	}
	t.healthy.Store(true)

	return &TestTelemetry{Telemetry: t, SpanRecorder: spans, Logs: logs}
}

// Spans returns all ended spans.
func (t *TestTelemetry) Spans() []trace.ReadOnlySpan {
	return t.SpanRecorder.Ended()
}

// AssertSpanExists fails tb unless a span called name has ended.
func (t *TestTelemetry) AssertSpanExists(tb testing.TB, name string) {
	tb.Helper()
	for _, span := range t.Spans() {
		if span.Name() == name {
			return
		}
	}
	tb.Errorf("span %q not found", name)
}

// LogRecorder is an sdklog.Exporter that keeps every exported record.
type LogRecorder struct {
	mu      sync.Mutex
	records []sdklog.Record
}

var _ sdklog.Exporter = (*LogRecorder)(nil)

// Export implements sdklog.Exporter.
func (r *LogRecorder) Export(_ context.Context, records []sdklog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		r.records = append(r.records, rec.Clone())
	}
	return nil
}

// Shutdown implements sdklog.Exporter.
func (r *LogRecorder) Shutdown(context.Context) error { return nil }

// ForceFlush implements sdklog.Exporter.
func (r *LogRecorder) ForceFlush(context.Context) error { return nil }

// Records returns the exported records.
func (r *LogRecorder) Records() []sdklog.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sdklog.Record(nil), r.records...)
}
