package logging

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SamplingConfig is the per-tick budget for records below error level. Within
// each tick the first Initial records with a given message are kept, then
// every Thereafter-th.
type SamplingConfig struct {
	Tick       time.Duration
	Initial    int
	Thereafter int
}

// DefaultSampling returns the budget used when sampling is switched on.
func DefaultSampling() SamplingConfig {
	return SamplingConfig{
		Tick:       time.Second,
		Initial:    100,
		Thereafter: 10,
	}
}

// newSampledCore wraps core with level-aware sampling.
// Error and above are never sampled.
func newSampledCore(core zapcore.Core, cfg SamplingConfig) zapcore.Core {
	errorCore := &levelFilterCore{
		Core:    core,
		enabled: zapcore.ErrorLevel,
	}

	belowErrorCore := &levelFilterCore{
		Core: core,
		enabled: zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l < zapcore.ErrorLevel
		}),
	}

	sampledCore := zapcore.NewSamplerWithOptions(
		belowErrorCore,
		cfg.Tick,
		cfg.Initial,
		cfg.Thereafter,
	)

	return zapcore.NewTee(errorCore, sampledCore)
}

// levelFilterCore restricts core to the levels enabled allows.
type levelFilterCore struct {
	zapcore.Core
	enabled zapcore.LevelEnabler
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return c.enabled.Enabled(lvl) && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

// With creates a child core that preserves level filtering.
func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{
		Core:    c.Core.With(fields),
		enabled: c.enabled,
	}
}
