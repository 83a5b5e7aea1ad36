package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewSampledCore_ErrorsNeverSampled(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	cfg := SamplingConfig{Tick: time.Second, Initial: 5, Thereafter: 0}

	a := NewZapAdapterWithLogger(zap.New(newSampledCore(core, cfg)), nil)

	// Log 100 errors (should never be sampled)
	for i := 0; i < 100; i++ {
		a.Error("error message", nil)
	}

	logs := observed.FilterMessage("error message").All()
	assert.Equal(t, 100, len(logs), "all errors should be logged")
}

func TestNewSampledCore_InfoSampled(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	cfg := SamplingConfig{Tick: time.Second, Initial: 5, Thereafter: 0}

	a := NewZapAdapterWithLogger(zap.New(newSampledCore(core, cfg)), nil)

	for i := 0; i < 20; i++ {
		a.Info("info message", nil)
	}

	// Should have ~5 (initial), rest dropped
	logs := observed.FilterMessage("info message").All()
	assert.LessOrEqual(t, len(logs), 7, "should sample info logs") // Allow some variance
	assert.GreaterOrEqual(t, len(logs), 3)
}

func TestSampling_ActualVolumeReduction(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	cfg := SamplingConfig{Tick: time.Second, Initial: 5, Thereafter: 2}

	a := NewZapAdapterWithLogger(zap.New(newSampledCore(core, cfg)), nil)

	// Log 100 identical info messages rapidly
	for i := 0; i < 100; i++ {
		a.Info("repeated message", nil)
	}

	logged := observed.FilterMessage("repeated message").All()
	assert.Less(t, len(logged), 100, "Sampling should reduce log volume significantly")
	assert.Greater(t, len(logged), 5, "Should have sampling happening beyond initial")
}

func TestLevelFilterCore_With(t *testing.T) {
	core, observed := observer.New(DebugLevel)

	// Create level filter that only allows Error and above
	filtered := &levelFilterCore{
		Core:    core,
		enabled: zapcore.ErrorLevel,
	}

	child := zap.New(filtered).With(zap.String("component", "test"))

	child.Info("info message")   // Should be filtered
	child.Warn("warn message")   // Should be filtered
	child.Error("error message") // Should pass through

	logs := observed.All()
	require.Len(t, logs, 1, "only error should pass through")
	assert.Equal(t, "error message", logs[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
	assert.Equal(t, "test", logs[0].ContextMap()["component"])
}

func TestZapAdapter_SamplingFromConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.Sampling = true
	a, err := NewZapAdapter(cfg, WithConsole(&buf))
	require.NoError(t, err)

	for i := 0; i < 300; i++ {
		a.Info("hot loop", nil)
	}
	a.Error("boom", nil)

	records := decodeLines(t, buf.String())
	assert.Less(t, len(records), 200)
	assert.Equal(t, "boom", records[len(records)-1]["msg"])
}
