package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fyrsmithlabs/ctxlog/internal/apperr"
	"github.com/fyrsmithlabs/ctxlog/internal/config"
	"github.com/fyrsmithlabs/ctxlog/internal/sanitize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig() config.LoggingConfig {
	cfg := config.NewDefaultConfig().Logging
	cfg.Format = "json"
	cfg.Level = "debug"
	cfg.ServiceName = "svc"
	return cfg
}

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), "line: %s", line)
		records = append(records, rec)
	}
	return records
}

func TestZapAdapter_LevelNames(t *testing.T) {
	var buf bytes.Buffer
	a, err := NewZapAdapter(testConfig(), WithConsole(&buf))
	require.NoError(t, err)

	a.Error("e", nil)
	a.Warn("w", nil)
	a.Info("i", nil)
	a.HTTP("h", nil)
	a.Verbose("v", nil)
	a.Debug("d", nil)
	require.NoError(t, a.Close())

	records := decodeLines(t, buf.String())
	require.Len(t, records, 6)

	want := []string{"error", "warn", "info", "http", "verbose", "debug"}
	for i, rec := range records {
		assert.Equal(t, want[i], rec["level"])
	}
}

func TestZapAdapter_LevelThreshold(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{"error", []string{"e"}},
		{"info", []string{"e", "w", "i"}},
		{"http", []string{"e", "w", "i", "h"}},
		{"verbose", []string{"e", "w", "i", "h", "v"}},
		{"debug", []string{"e", "w", "i", "h", "v", "d"}},
		{"trace", []string{"e", "w", "i", "h", "v", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := testConfig()
			cfg.Level = tt.level
			a, err := NewZapAdapter(cfg, WithConsole(&buf))
			require.NoError(t, err)

			a.Error("e", nil)
			a.Warn("w", nil)
			a.Info("i", nil)
			a.HTTP("h", nil)
			a.Verbose("v", nil)
			a.Debug("d", nil)

			var got []string
			for _, rec := range decodeLines(t, buf.String()) {
				got = append(got, rec["msg"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZapAdapter_UnknownLevel(t *testing.T) {
	cfg := testConfig()
	cfg.Level = "loud"

	_, err := NewZapAdapter(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.KindConfiguration)
}

func TestZapAdapter_MessageThenMetadata(t *testing.T) {
	core, observed := observer.New(DebugLevel)
	a := NewZapAdapterWithLogger(zap.New(core), nil)

	a.HTTP("GET /orders", Metadata{"status": 200, "context": Context{"service": "s"}})

	logs := observed.All()
	require.Len(t, logs, 1)
	assert.Equal(t, HTTPLevel, logs[0].Level)
	assert.Equal(t, "GET /orders", logs[0].Message)
	assert.Equal(t, []string{"context", "status"}, []string{logs[0].Context[0].Key, logs[0].Context[1].Key})
	assert.Equal(t, int64(200), logs[0].ContextMap()["status"])
}

func TestZapAdapter_StructuredMessage(t *testing.T) {
	core, observed := observer.New(DebugLevel)
	a := NewZapAdapterWithLogger(zap.New(core), sanitize.New())

	a.Info(map[string]any{"event": "login", "password": "hunter2"}, nil)
	a.Info(apperr.New("boom", apperr.WithComponent("c"), apperr.WithOperation("o")), nil)
	a.Info(nil, nil)

	logs := observed.All()
	require.Len(t, logs, 3)
	assert.JSONEq(t, `{"event":"login","password":"***REDACTED***"}`, logs[0].Message)
	assert.Equal(t, "boom", logs[1].Message)
	assert.Equal(t, "", logs[2].Message)
}

func TestZapAdapter_RedactsEncodedOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.RedactFields = []string{"email"}
	a, err := NewZapAdapter(cfg, WithConsole(&buf))
	require.NoError(t, err)

	a.Info("signup", Metadata{
		"password": "p",
		"email":    "a@example.com",
		"user":     map[string]any{"name": "ada", "token": "t"},
		"key":      config.Secret("sk-123"),
		"context":  Context{"service": "s"},
	})

	records := decodeLines(t, buf.String())
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, sanitize.Redacted, rec["password"])
	assert.Equal(t, sanitize.Redacted, rec["email"])
	assert.Equal(t, map[string]any{"name": "ada", "token": sanitize.Redacted}, rec["user"])
	assert.Equal(t, sanitize.Redacted, rec["key"])
	assert.Equal(t, map[string]any{"service": "s"}, rec["context"])
}

func TestZapAdapter_RedactionDisabled(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.RedactionEnabled = false
	a, err := NewZapAdapter(cfg, WithConsole(&buf))
	require.NoError(t, err)

	a.Info("signup", Metadata{"password": "p"})

	records := decodeLines(t, buf.String())
	require.Len(t, records, 1)
	assert.Equal(t, "p", records[0]["password"])
}

func TestZapAdapter_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.Format = "console"
	a, err := NewZapAdapter(cfg, WithConsole(&buf))
	require.NoError(t, err)

	a.Verbose("cache warmed", Metadata{"entries": 3})

	out := buf.String()
	assert.Contains(t, out, "\tverbose\t")
	assert.Contains(t, out, "cache warmed")
	assert.Contains(t, out, `{"entries": 3}`)
}

func TestZapAdapter_Methods(t *testing.T) {
	a := NewZapAdapterWithLogger(zap.NewNop(), nil)
	assert.Equal(t, CanonicalMethods, a.Methods())

	_, isFataler := Port(a).(Fataler)
	assert.False(t, isFataler)
}

func TestZapAdapter_ThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	a, err := NewZapAdapter(testConfig(), WithConsole(&buf))
	require.NoError(t, err)

	l, err := New(Context{"service": "s"}, a, []Method{MethodInfo})
	require.NoError(t, err)
	l.Info("msg", Metadata{"context": Context{"feature": "x"}, "password": "p"})

	records := decodeLines(t, buf.String())
	require.Len(t, records, 1)
	assert.Equal(t, map[string]any{"service": "s", "feature": "x"}, records[0]["context"])
	assert.Equal(t, sanitize.Redacted, records[0]["password"])
}

func TestIsStdoutSyncError(t *testing.T) {
	assert.False(t, isStdoutSyncError(assert.AnError))
	assert.False(t, isStdoutSyncError(nil))
}

func TestTierEnabler(t *testing.T) {
	assert.True(t, tierEnabler(tierWarn, DebugLevel).Enabled(zapcore.WarnLevel))
	assert.False(t, tierEnabler(tierWarn, DebugLevel).Enabled(zapcore.InfoLevel))
	assert.True(t, tierEnabler(tierInfo, DebugLevel).Enabled(zapcore.InfoLevel))
	assert.False(t, tierEnabler(tierInfo, DebugLevel).Enabled(HTTPLevel))
	assert.True(t, tierEnabler(tierAll, DebugLevel).Enabled(DebugLevel))
	assert.False(t, tierEnabler(tierAll, zapcore.InfoLevel).Enabled(DebugLevel))
	assert.False(t, tierEnabler(tierWarn, zapcore.ErrorLevel).Enabled(zapcore.WarnLevel))
}

func TestZapAdapter_RedactFieldsFromEnv(t *testing.T) {
	t.Setenv("LOG_REDACT_FIELDS", "iban,taxId")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load("")
	require.NoError(t, err)

	var buf bytes.Buffer
	a, err := NewZapAdapter(cfg.Logging, WithConsole(&buf))
	require.NoError(t, err)
	a.Info("m", Metadata{"taxId": "DE123", "iban": "GB00", "order": "o-1"})

	records := decodeLines(t, buf.String())
	require.Len(t, records, 1)
	assert.Equal(t, sanitize.Redacted, records[0]["iban"])
	assert.Equal(t, sanitize.Redacted, records[0]["taxId"])
	assert.Equal(t, "o-1", records[0]["order"])
	assert.NotContains(t, buf.String(), "DE123")
}
