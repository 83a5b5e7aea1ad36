package logging

import (
	"encoding/json"
	"reflect"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/fyrsmithlabs/ctxlog/internal/sanitize"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger is a Logger over a zap adapter whose records are both observed
// raw and encoded to JSON through the sanitizing encoder, so tests can check
// what the adapter received and what would reach a sink.
type TestLogger struct {
	*Logger
	observed *observer.ObservedLogs
	output   *zaptest.Buffer
}

// NewTestLogger creates a logger for testing with full observation. All
// canonical methods are bound.
func NewTestLogger(ctx Context) *TestLogger {
	s := sanitize.New()
	core, observed := observer.New(DebugLevel)
	output := &zaptest.Buffer{}
	encoded := zapcore.NewCore(NewSanitizingEncoder(newEncoder("json"), s), output, DebugLevel)

	adapter := NewZapAdapterWithLogger(zap.New(zapcore.NewTee(core, encoded)), s)
	l, err := New(ctx, adapter, CanonicalMethods)
	if err != nil {
		panic(err)
	}
	return &TestLogger{Logger: l, observed: observed, output: output}
}

// All returns all logged entries.
func (t *TestLogger) All() []observer.LoggedEntry {
	return t.observed.All()
}

// FilterMessage returns entries matching message substring.
func (t *TestLogger) FilterMessage(msg string) *observer.ObservedLogs {
	return t.observed.FilterMessageSnippet(msg)
}

// Output returns the encoded records, one JSON document per line.
func (t *TestLogger) Output() []string {
	return t.output.Lines()
}

// Reset clears all logged entries.
func (t *TestLogger) Reset() {
	t.observed.TakeAll()
	t.output.Reset()
}

// AssertLogged verifies a log through method m containing message was logged.
func (t *TestLogger) AssertLogged(tb testing.TB, m Method, msgContains string) {
	tb.Helper()
	level, ok := ZapLevel(string(m))
	if !ok {
		tb.Errorf("unknown method %q", m)
		return
	}
	for _, entry := range t.observed.All() {
		if entry.Level == level && strings.Contains(entry.Message, msgContains) {
			return
		}
	}
	tb.Errorf("expected %s log containing %q, logs: %+v", m, msgContains, t.observed.All())
}

// AssertNotLogged verifies no log containing message was logged.
func (t *TestLogger) AssertNotLogged(tb testing.TB, msgContains string) {
	tb.Helper()
	if n := t.observed.FilterMessageSnippet(msgContains).Len(); n > 0 {
		tb.Errorf("unexpected %d log(s) containing %q", n, msgContains)
	}
}

// AssertField verifies a metadata field with key and value exists in message.
func (t *TestLogger) AssertField(tb testing.TB, msg, key string, expected any) {
	tb.Helper()
	for _, entry := range t.observed.FilterMessageSnippet(msg).All() {
		if v, ok := entry.ContextMap()[key]; ok && equalValue(v, expected) {
			return
		}
	}
	tb.Errorf("field %q=%v not found in message %q", key, expected, msg)
}

// AssertContext verifies the merged context of message has key set to expected.
func (t *TestLogger) AssertContext(tb testing.TB, msg, key string, expected any) {
	tb.Helper()
	for _, entry := range t.observed.FilterMessageSnippet(msg).All() {
		for _, field := range entry.Context {
			if field.Key != ContextKey {
				continue
			}
			if ctx, ok := asContext(field.Interface); ok && equalValue(ctx[key], expected) {
				return
			}
		}
	}
	tb.Errorf("context %q=%v not found in message %q", key, expected, msg)
}

// AssertNoSecrets verifies no sensitive value reached the encoded output.
func (t *TestLogger) AssertNoSecrets(tb testing.TB) {
	tb.Helper()
	s := sanitize.New()
	for _, line := range t.output.Lines() {
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			tb.Errorf("invalid log line %q: %v", line, err)
			continue
		}
		for _, path := range leakedKeys(s, record, "") {
			tb.Errorf("sensitive field %q not redacted: %s", path, line)
		}
	}
}

// leakedKeys returns the paths of sensitive keys whose value is not redacted.
func leakedKeys(s *sanitize.Sanitizer, v any, prefix string) []string {
	var out []string
	switch val := v.(type) {
	case map[string]any:
		for k, nested := range val {
			path := strings.TrimPrefix(prefix+"."+k, ".")
			if s.IsSensitive(k) && nested != sanitize.Redacted {
				out = append(out, path)
				continue
			}
			out = append(out, leakedKeys(s, nested, path)...)
		}
	case []any:
		for _, nested := range val {
			out = append(out, leakedKeys(s, nested, prefix+"[]")...)
		}
	}
	slices.Sort(out)
	return out
}

func equalValue(got, expected any) bool {
	if reflect.DeepEqual(got, expected) {
		return true
	}
	// Observed ints are stored as int64.
	gv, ev := reflect.ValueOf(got), reflect.ValueOf(expected)
	if gv.CanInt() && ev.CanInt() {
		return gv.Int() == ev.Int()
	}
	return false
}

// Record is one call received by a Recorder.
type Record struct {
	Method  Method
	Message any
	Meta    Metadata
}

// Recorder is a Port that records every call it receives. It reports the
// methods it was built with, so it can stand in for adapters with a partial
// level vocabulary. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	methods []Method
	records []Record
}

var (
	_ Port    = (*Recorder)(nil)
	_ Fataler = (*Recorder)(nil)
	_ Tracer  = (*Recorder)(nil)
)

// NewRecorder returns a Recorder reporting methods, or every canonical method
// when none are given.
func NewRecorder(methods ...Method) *Recorder {
	if len(methods) == 0 {
		methods = CanonicalMethods
	}
	return &Recorder{methods: slices.Clone(methods)}
}

func (r *Recorder) Error(msg any, meta Metadata)   { r.record(MethodError, msg, meta) }
func (r *Recorder) Warn(msg any, meta Metadata)    { r.record(MethodWarn, msg, meta) }
func (r *Recorder) Info(msg any, meta Metadata)    { r.record(MethodInfo, msg, meta) }
func (r *Recorder) HTTP(msg any, meta Metadata)    { r.record(MethodHTTP, msg, meta) }
func (r *Recorder) Verbose(msg any, meta Metadata) { r.record(MethodVerbose, msg, meta) }
func (r *Recorder) Debug(msg any, meta Metadata)   { r.record(MethodDebug, msg, meta) }
func (r *Recorder) Fatal(msg any, meta Metadata)   { r.record(MethodFatal, msg, meta) }
func (r *Recorder) Trace(msg any, meta Metadata)   { r.record(MethodTrace, msg, meta) }

// Methods implements Port.
func (r *Recorder) Methods() []Method {
	return slices.Clone(r.methods)
}

// Records returns the calls received so far.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.records)
}

// Last returns the most recent call.
func (r *Recorder) Last() (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.records) == 0 {
		return Record{}, false
	}
	return r.records[len(r.records)-1], true
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
}

func (r *Recorder) record(m Method, msg any, meta Metadata) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, Record{Method: m, Message: msg, Meta: meta})
}
