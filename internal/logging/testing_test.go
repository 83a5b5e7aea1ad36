package logging

import (
	"testing"

	"github.com/fyrsmithlabs/ctxlog/internal/sanitize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestLogger_Assertions(t *testing.T) {
	tl := NewTestLogger(Context{"service": "test"})

	tl.Info("test message", Metadata{"key": "value", "count": 3})
	tl.HTTP("GET /health", nil)

	tl.AssertLogged(t, MethodInfo, "test message")
	tl.AssertLogged(t, MethodHTTP, "/health")
	tl.AssertNotLogged(t, "never")
	tl.AssertField(t, "test message", "key", "value")
	tl.AssertField(t, "test message", "count", 3)
	tl.AssertContext(t, "test message", "service", "test")
	tl.AssertNoSecrets(t)

	assert.Len(t, tl.All(), 2)
	assert.Equal(t, 1, tl.FilterMessage("health").Len())
	assert.Len(t, tl.Output(), 2)

	tl.Reset()
	assert.Empty(t, tl.All())
	assert.Empty(t, tl.Output())
}

func TestTestLogger_FailingAssertions(t *testing.T) {
	tl := NewTestLogger(Context{"service": "test"})
	tl.Warn("something", Metadata{"k": "v"})

	mock := &fakeTB{}
	tl.AssertLogged(mock, MethodError, "something")
	assert.True(t, mock.failed)

	mock = &fakeTB{}
	tl.AssertField(mock, "something", "k", "other")
	assert.True(t, mock.failed)

	mock = &fakeTB{}
	tl.AssertNotLogged(mock, "something")
	assert.True(t, mock.failed)

	mock = &fakeTB{}
	tl.AssertField(mock, "something", "k", "v")
	assert.False(t, mock.failed)
}

// fakeTB records failures instead of failing the test.
type fakeTB struct {
	testing.TB
	failed bool
}

func (f *fakeTB) Helper()               {}
func (f *fakeTB) Errorf(string, ...any) { f.failed = true }

func TestLeakedKeys(t *testing.T) {
	record := map[string]any{
		"msg":      "m",
		"password": "leaked",
		"context":  map[string]any{"token": "***REDACTED***", "user": map[string]any{"pin": "1234"}},
		"items":    []any{map[string]any{"secret": "x"}},
	}
	got := leakedKeys(sanitize.New(), record, "")
	assert.ElementsMatch(t, []string{"password", "context.user.pin", "items[].secret"}, got)
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(MethodInfo, MethodFatal)
	assert.Equal(t, []Method{MethodInfo, MethodFatal}, rec.Methods())

	_, ok := rec.Last()
	assert.False(t, ok)

	rec.Info("one", Metadata{"a": 1})
	rec.Fatal("two", nil)

	records := rec.Records()
	require.Len(t, records, 2)
	assert.Equal(t, Record{Method: MethodInfo, Message: "one", Meta: Metadata{"a": 1}}, records[0])

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, MethodFatal, last.Method)

	rec.Reset()
	assert.Empty(t, rec.Records())
	assert.Equal(t, CanonicalMethods, NewRecorder().Methods())
}
