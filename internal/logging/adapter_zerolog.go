package logging

import (
	"io"
	"os"
	"time"

	"github.com/fyrsmithlabs/ctxlog/internal/config"
	"github.com/fyrsmithlabs/ctxlog/internal/sanitize"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// ZerologAdapter is the Port backed by zerolog. zerolog has no http or
// verbose level; they are written at info and debug. Fatal and trace are
// native, and Fatal never exits the process.
type ZerologAdapter struct {
	logger    zerolog.Logger
	sanitizer *sanitize.Sanitizer
	files     *fileSet
	metrics   *Metrics
}

var (
	_ Port    = (*ZerologAdapter)(nil)
	_ Fataler = (*ZerologAdapter)(nil)
	_ Tracer  = (*ZerologAdapter)(nil)
)

// NewZerologAdapter builds a zerolog adapter writing to the sinks cfg enables.
// Console output uses a ConsoleWriter when the format is console, coloured
// only when the console is a terminal.
func NewZerologAdapter(cfg config.LoggingConfig, opts ...AdapterOption) (*ZerologAdapter, error) {
	level, ok := ZerologLevel(cfg.Level)
	if !ok {
		return nil, unknownLevel(cfg.Level, config.AdapterZerolog)
	}
	o := newAdapterOptions(opts)

	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, consoleWriter(o.console, cfg.Format))
	}

	var files *fileSet
	if cfg.StoreFiles {
		var err error
		if files, err = openFileSet(cfg, o.now); err != nil {
			return nil, err
		}
		for tier, f := range files.files {
			writers = append(writers, &zerolog.FilteredLevelWriter{
				Writer: zerolog.LevelWriterAdapter{Writer: f},
				Level:  zerologTierLevel(tier),
			})
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()

	return &ZerologAdapter{
		logger:    logger,
		sanitizer: sanitizerFor(cfg),
		files:     files,
		metrics:   o.metrics,
	}, nil
}

// NewZerologAdapterWithLogger creates an adapter wrapping an existing
// zerolog.Logger. A nil sanitizer disables redaction.
func NewZerologAdapterWithLogger(logger zerolog.Logger, s *sanitize.Sanitizer) *ZerologAdapter {
	return &ZerologAdapter{logger: logger, sanitizer: s}
}

func (z *ZerologAdapter) Fatal(msg any, meta Metadata)   { z.log(zerolog.FatalLevel, msg, meta) }
func (z *ZerologAdapter) Error(msg any, meta Metadata)   { z.log(zerolog.ErrorLevel, msg, meta) }
func (z *ZerologAdapter) Warn(msg any, meta Metadata)    { z.log(zerolog.WarnLevel, msg, meta) }
func (z *ZerologAdapter) Info(msg any, meta Metadata)    { z.log(zerolog.InfoLevel, msg, meta) }
func (z *ZerologAdapter) HTTP(msg any, meta Metadata)    { z.log(zerolog.InfoLevel, msg, meta) }
func (z *ZerologAdapter) Verbose(msg any, meta Metadata) { z.log(zerolog.DebugLevel, msg, meta) }
func (z *ZerologAdapter) Debug(msg any, meta Metadata)   { z.log(zerolog.DebugLevel, msg, meta) }
func (z *ZerologAdapter) Trace(msg any, meta Metadata)   { z.log(zerolog.TraceLevel, msg, meta) }

// Methods implements Port.
func (z *ZerologAdapter) Methods() []Method {
	methods := make([]Method, 0, len(CanonicalMethods)+2)
	methods = append(methods, MethodFatal)
	methods = append(methods, CanonicalMethods...)
	return append(methods, MethodTrace)
}

// Logger returns the underlying zerolog.Logger.
func (z *ZerologAdapter) Logger() zerolog.Logger {
	return z.logger
}

// log writes fields before the message. WithLevel is used for every level so
// that fatal records do not exit.
func (z *ZerologAdapter) log(level zerolog.Level, msg any, meta Metadata) {
	ev := z.logger.WithLevel(level)
	if ev == nil {
		return
	}
	if len(meta) > 0 {
		ev = ev.Fields(z.fields(meta))
	}
	ev.Msg(formatMessage(msg, z.sanitizer))
	z.metrics.record(config.AdapterZerolog, level.String())
}

// fields returns meta as the plain map zerolog's Fields expects.
func (z *ZerologAdapter) fields(meta Metadata) map[string]any {
	if z.sanitizer == nil {
		return meta
	}
	switch clean := z.sanitizer.Sanitize(meta).(type) {
	case Metadata:
		return clean
	case map[string]any:
		return clean
	default:
		return meta
	}
}

// Close closes the adapter's log files. zerolog does not buffer.
func (z *ZerologAdapter) Close() error {
	if z.files == nil {
		return nil
	}
	return z.files.Close()
}

func consoleWriter(out io.Writer, format string) io.Writer {
	if format != "console" {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !shouldColorize(out),
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func zerologTierLevel(tier fileTier) zerolog.Level {
	switch tier {
	case tierWarn:
		return zerolog.WarnLevel
	case tierInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.TraceLevel
	}
}
