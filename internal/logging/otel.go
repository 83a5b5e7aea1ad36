package logging

import (
	"fmt"

	"github.com/fyrsmithlabs/ctxlog/internal/config"
	"github.com/fyrsmithlabs/ctxlog/internal/sanitize"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newZapCore tees the enabled sinks: console, the three log files and the
// OpenTelemetry bridge.
func newZapCore(cfg config.LoggingConfig, level zapcore.Level, s *sanitize.Sanitizer, files *fileSet, o adapterOptions) (zapcore.Core, error) {
	cores := make([]zapcore.Core, 0, 5)

	if cfg.Console {
		encoder := NewSanitizingEncoder(newEncoder(cfg.Format), s)
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(o.console), level))
	}

	if files != nil {
		for tier, f := range files.files {
			encoder := NewSanitizingEncoder(newEncoder("json"), s)
			cores = append(cores, zapcore.NewCore(encoder, f, tierEnabler(tier, level)))
		}
	}

	if cfg.OTEL && o.provider != nil {
		otelCore := otelzap.NewCore(cfg.ServiceName,
			otelzap.WithLoggerProvider(o.provider),
		)
		cores = append(cores, newSanitizingCore(&levelFilterCore{Core: otelCore, enabled: level}, s))
	}

	if len(cores) == 0 {
		return nil, fmt.Errorf("at least one output must be enabled and available")
	}

	var core zapcore.Core
	if len(cores) == 1 {
		core = cores[0]
	} else {
		core = zapcore.NewTee(cores...)
	}

	if cfg.Sampling {
		core = newSampledCore(core, DefaultSampling())
	}
	return core, nil
}

// newEncoder creates a JSON or console encoder printing the adapter's level
// names.
func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = encodeZapLevel

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

// tierEnabler keeps the records a file tier stores, never below the
// configured level.
func tierEnabler(tier fileTier, level zapcore.Level) zapcore.LevelEnabler {
	floor := level
	switch tier {
	case tierWarn:
		floor = max(level, zapcore.WarnLevel)
	case tierInfo:
		floor = max(level, zapcore.InfoLevel)
	}
	return floor
}
