// internal/logging/levels.go
package logging

import (
	"strings"

	"github.com/rs/zerolog"
	"go.uber.org/zap/zapcore"
)

// Method names a logging method on the Port.
type Method string

const (
	MethodError   Method = "error"
	MethodWarn    Method = "warn"
	MethodInfo    Method = "info"
	MethodHTTP    Method = "http"
	MethodVerbose Method = "verbose"
	MethodDebug   Method = "debug"

	// Only adapters implementing Fataler and Tracer provide these.
	MethodFatal Method = "fatal"
	MethodTrace Method = "trace"
)

// CanonicalMethods are the methods every Port declares, most severe first.
var CanonicalMethods = []Method{MethodError, MethodWarn, MethodInfo, MethodHTTP, MethodVerbose, MethodDebug}

// Zap has no room between Debug (-1) and Info (0) for the http and verbose
// levels, so the zap adapter shifts debug down and uses its own scale:
//
//	error 2, warn 1, info 0, http -1, verbose -2, debug -3
//
// A level encoder prints these names; zap's own "debug" name for -1 is never used.
const (
	HTTPLevel    = zapcore.Level(-1)
	VerboseLevel = zapcore.Level(-2)
	DebugLevel   = zapcore.Level(-3)
)

// zapLevels translates port methods to the zap adapter's native levels.
var zapLevels = map[Method]zapcore.Level{
	MethodError:   zapcore.ErrorLevel,
	MethodWarn:    zapcore.WarnLevel,
	MethodInfo:    zapcore.InfoLevel,
	MethodHTTP:    HTTPLevel,
	MethodVerbose: VerboseLevel,
	MethodDebug:   DebugLevel,
}

// zerologLevels translates port methods to zerolog levels. http and verbose
// have no zerolog equivalent and map onto info and debug.
var zerologLevels = map[Method]zerolog.Level{
	MethodFatal:   zerolog.FatalLevel,
	MethodError:   zerolog.ErrorLevel,
	MethodWarn:    zerolog.WarnLevel,
	MethodInfo:    zerolog.InfoLevel,
	MethodHTTP:    zerolog.InfoLevel,
	MethodVerbose: zerolog.DebugLevel,
	MethodDebug:   zerolog.DebugLevel,
	MethodTrace:   zerolog.TraceLevel,
}

// ZapLevel returns the zap adapter level for a configured level name. Names
// outside the zap vocabulary map to the nearest emitted level: fatal to
// error and trace to debug.
func ZapLevel(name string) (zapcore.Level, bool) {
	switch m := Method(strings.ToLower(name)); m {
	case MethodFatal:
		return zapcore.ErrorLevel, true
	case MethodTrace:
		return DebugLevel, true
	default:
		l, ok := zapLevels[m]
		return l, ok
	}
}

// ZerologLevel returns the zerolog level for a configured level name.
func ZerologLevel(name string) (zerolog.Level, bool) {
	l, ok := zerologLevels[Method(strings.ToLower(name))]
	return l, ok
}

func zapLevelName(l zapcore.Level) string {
	switch l {
	case HTTPLevel:
		return "http"
	case VerboseLevel:
		return "verbose"
	case DebugLevel:
		return "debug"
	default:
		return l.String()
	}
}

// encodeZapLevel is a zapcore.LevelEncoder printing the adapter's level names.
func encodeZapLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(zapLevelName(l))
}

// LevelMapping describes how a port method lands on each backend.
type LevelMapping struct {
	Method  Method `json:"method"`
	Zap     string `json:"zap"`
	Zerolog string `json:"zerolog"`
}

// LevelMappings returns the translation table for all known methods.
func LevelMappings() []LevelMapping {
	methods := append(append([]Method{MethodFatal}, CanonicalMethods...), MethodTrace)
	out := make([]LevelMapping, 0, len(methods))
	for _, m := range methods {
		row := LevelMapping{Method: m, Zap: "-", Zerolog: "-"}
		if l, ok := zapLevels[m]; ok {
			row.Zap = zapLevelName(l)
		}
		if l, ok := zerologLevels[m]; ok {
			row.Zerolog = l.String()
		}
		out = append(out, row)
	}
	return out
}
