package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fyrsmithlabs/ctxlog/internal/config"
	"github.com/fyrsmithlabs/ctxlog/internal/sanitize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPipeline_SanitizesOnlyAtEncoding(t *testing.T) {
	tl := NewTestLogger(Context{"service": "s"})

	tl.Info("msg", Metadata{"context": Context{"feature": "x"}, "password": "p"})

	// What the adapter received: merged context, password untouched.
	tl.AssertContext(t, "msg", "service", "s")
	tl.AssertContext(t, "msg", "feature", "x")
	tl.AssertField(t, "msg", "password", "p")

	// What the sink received.
	lines := tl.Output()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"password":"***REDACTED***"`)
	assert.Contains(t, lines[0], `"context":{"feature":"x","service":"s"}`)
	tl.AssertNoSecrets(t)
}

func TestSanitizingEncoder_WithFields(t *testing.T) {
	var buf bytes.Buffer
	enc := NewSanitizingEncoder(newEncoder("json"), sanitize.New())
	logger := zap.New(zapcore.NewCore(enc, zapcore.AddSync(&buf), zapcore.InfoLevel))

	logger.With(
		zap.String("token", "abc"),
		zap.ByteString("cookie", []byte("c")),
		zap.Binary("privateKey", []byte{1, 2}),
		zap.Any("nested", map[string]any{"secret": "s", "ok": 1}),
		zap.String("user", "ada"),
	).Info("with fields")

	records := decodeLines(t, buf.String())
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, sanitize.Redacted, rec["token"])
	assert.Equal(t, sanitize.Redacted, rec["cookie"])
	assert.Equal(t, sanitize.Redacted, rec["privateKey"])
	assert.Equal(t, map[string]any{"secret": sanitize.Redacted, "ok": float64(1)}, rec["nested"])
	assert.Equal(t, "ada", rec["user"])
}

type credentials struct {
	user, pass string
}

func (c credentials) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("user", c.user)
	enc.AddString("pass", c.pass)
	return nil
}

func TestSanitizingEncoder_ObjectKey(t *testing.T) {
	var buf bytes.Buffer
	enc := NewSanitizingEncoder(newEncoder("json"), sanitize.New())
	logger := zap.New(zapcore.NewCore(enc, zapcore.AddSync(&buf), zapcore.InfoLevel))

	logger.Info("objects",
		zap.Object("auth", credentials{"ada", "pw"}),
		zap.Object("login", credentials{"ada", "pw"}),
	)

	records := decodeLines(t, buf.String())
	require.Len(t, records, 1)
	assert.Equal(t, sanitize.Redacted, records[0]["auth"])
	assert.Equal(t, map[string]any{"user": "ada", "pass": "pw"}, records[0]["login"])
}

func TestSanitizingEncoder_NilSanitizer(t *testing.T) {
	base := newEncoder("json")
	assert.Same(t, base, NewSanitizingEncoder(base, nil))
}

func TestSanitizeFields_ReturnsInputWhenClean(t *testing.T) {
	s := sanitize.New()
	fields := []zapcore.Field{zap.String("a", "1"), zap.Int("b", 2)}

	got := sanitizeFields(s, fields)
	assert.Same(t, &fields[0], &got[0])

	fields = append(fields, zap.String("jwt", "x"))
	got = sanitizeFields(s, fields)
	assert.Equal(t, sanitize.Redacted, got[2].String)
	assert.Equal(t, "x", fields[2].String)
}

func TestSanitizingCore(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(newSanitizingCore(core, sanitize.New()))

	logger.With(zap.String("apiKey", "k")).Info("call", zap.Any("key", config.Secret("s")))

	logs := observed.All()
	require.Len(t, logs, 1)
	assert.Equal(t, sanitize.Redacted, logs[0].ContextMap()["apiKey"])
	assert.Equal(t, sanitize.Redacted, logs[0].ContextMap()["key"])
}

type stringer struct{}

func (stringer) String() string { return "stringer" }

func TestFormatMessage(t *testing.T) {
	s := sanitize.New()

	tests := []struct {
		name string
		msg  any
		want string
	}{
		{"nil", nil, ""},
		{"string", "plain", "plain"},
		{"error", errors.New("failed"), "failed"},
		{"stringer", stringer{}, "stringer"},
		{"number", 42, "42"},
		{"map", map[string]any{"a": 1}, `{"a":1}`},
		{"sensitive map", map[string]any{"pin": 1}, `{"pin":"***REDACTED***"}`},
		{"slice", []any{"a", 1}, `["a",1]`},
		{"unmarshalable", func() {}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMessage(tt.msg, s)
			if tt.name == "unmarshalable" {
				assert.NotEmpty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
