package logging

import (
	"bytes"
	"testing"

	"github.com/fyrsmithlabs/ctxlog/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdapter(t *testing.T) {
	cfg := testConfig()

	zapPort, err := NewAdapter(AdapterZap, cfg, WithConsole(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.IsType(t, &ZapAdapter{}, zapPort)

	zlPort, err := NewAdapter(AdapterZerolog, cfg, WithConsole(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.IsType(t, &ZerologAdapter{}, zlPort)

	_, err = NewAdapter("logrus", cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.KindConfiguration)
}

func TestNewAdapter_ErrorIsUntypedNil(t *testing.T) {
	cfg := testConfig()
	cfg.Level = "loud"

	p, err := NewAdapter(AdapterZap, cfg)
	require.Error(t, err)
	assert.Nil(t, p)
}

func TestRoot_DefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.Level = "info"

	root, err := NewRoot(cfg, WithConsole(&buf))
	require.NoError(t, err)
	defer root.Close()

	root.Logger().Info("ready")

	records := decodeLines(t, buf.String())
	require.Len(t, records, 1)
	assert.Equal(t, "ready", records[0]["msg"])
	assert.Equal(t, map[string]any{"service": "svc"}, records[0]["context"])
	assert.Equal(t, CanonicalMethods, root.Logger().Methods())
}

func TestRoot_Module(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.Level = "info"

	root, err := NewRoot(cfg, WithConsole(&buf))
	require.NoError(t, err)
	defer root.Close()

	log := root.Module("billing", Context{"feature": Context{"name": "reminders"}})
	log.Warn("late", Metadata{"context": Context{"feature": Context{"attempt": 2}}})

	records := decodeLines(t, buf.String())
	require.Len(t, records, 1)
	assert.Equal(t, map[string]any{
		"service": "svc",
		"module":  "billing",
		"feature": map[string]any{"name": "reminders", "attempt": float64(2)},
	}, records[0]["context"])
}

func TestRoot_ZerologAdapter(t *testing.T) {
	var buf bytes.Buffer
	cfg := zerologConfig()
	cfg.Level = "info"

	root, err := NewRoot(cfg, WithConsole(&buf))
	require.NoError(t, err)
	defer root.Close()

	assert.Len(t, root.Logger().Methods(), 8)
	root.Logger().Fatal("not exiting")

	records := decodeLines(t, buf.String())
	require.Len(t, records, 1)
	assert.Equal(t, "fatal", records[0]["level"])
}

func TestRoot_InvalidAdapter(t *testing.T) {
	cfg := testConfig()
	cfg.Adapter = "logrus"

	_, err := NewRoot(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.KindConfiguration)
}

func TestRoot_CreateLogger(t *testing.T) {
	root, err := NewRoot(testConfig(), WithConsole(&bytes.Buffer{}))
	require.NoError(t, err)
	defer root.Close()

	t.Run("adapter and methods used verbatim", func(t *testing.T) {
		rec := NewRecorder()
		l, err := root.CreateLogger(Context{"service": "s"}, CreateOptions{
			Adapter: rec,
			Methods: []Method{MethodWarn},
		})
		require.NoError(t, err)
		assert.Equal(t, []Method{MethodWarn}, l.Methods())

		l.Warn("w")
		l.Info("dropped")
		assert.Len(t, rec.Records(), 1)
		assert.NoError(t, l.Close())
	})

	t.Run("adapter without methods binds what it reports", func(t *testing.T) {
		rec := NewRecorder(MethodInfo, MethodTrace)
		l, err := root.CreateLogger(nil, CreateOptions{Adapter: rec})
		require.NoError(t, err)
		assert.Equal(t, []Method{MethodInfo, MethodTrace}, l.Methods())
	})

	t.Run("adapter name selects built-in", func(t *testing.T) {
		l, err := root.CreateLogger(Context{"service": "s"}, CreateOptions{AdapterName: AdapterZerolog})
		require.NoError(t, err)
		assert.True(t, l.Enabled(MethodTrace))
		assert.NoError(t, l.Close())
	})

	t.Run("methods missing from built-in", func(t *testing.T) {
		_, err := root.CreateLogger(nil, CreateOptions{
			AdapterName: AdapterZap,
			Methods:     []Method{MethodInfo, MethodTrace},
		})
		assert.ErrorIs(t, err, apperr.KindConfiguration)
	})
}

func TestDefaultRoot(t *testing.T) {
	t.Cleanup(func() { SetDefault(nil) })
	SetDefault(nil)

	// Without a root everything is dropped.
	L().Info("nowhere")
	assert.False(t, L().Enabled(MethodInfo))
	assert.False(t, Module("x").Enabled(MethodError))

	var buf bytes.Buffer
	cfg := testConfig()
	cfg.Level = "info"
	root, err := NewRoot(cfg, WithConsole(&buf))
	require.NoError(t, err)
	defer root.Close()

	SetDefault(root)
	assert.Same(t, root.Logger(), L())

	Module("auth").Info("login")
	records := decodeLines(t, buf.String())
	require.Len(t, records, 1)
	assert.Equal(t, map[string]any{"service": "svc", "module": "auth"}, records[0]["context"])

	rec := NewRecorder()
	l, err := CreateLogger(Context{"service": "other"}, CreateOptions{Adapter: rec})
	require.NoError(t, err)
	l.Info("hi")
	got, _ := rec.Last()
	assert.Equal(t, Context{"service": "other"}, got.Meta[ContextKey])
}

func TestCreateLogger_WithoutDefaultRoot(t *testing.T) {
	t.Cleanup(func() { SetDefault(nil) })
	SetDefault(nil)

	l, err := CreateLogger(Context{"service": "s"}, CreateOptions{AdapterName: AdapterZerolog})
	require.NoError(t, err)
	defer l.Close()

	assert.True(t, l.Enabled(MethodFatal))
}
