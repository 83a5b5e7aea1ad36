package logging

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"syscall"

	"github.com/fyrsmithlabs/ctxlog/internal/apperr"
	"github.com/fyrsmithlabs/ctxlog/internal/config"
	"github.com/fyrsmithlabs/ctxlog/internal/sanitize"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAdapter is the Port backed by zap. http and verbose are custom zap
// levels between info and debug; see HTTPLevel.
type ZapAdapter struct {
	zap       *zap.Logger
	sanitizer *sanitize.Sanitizer
	files     *fileSet
	metrics   *Metrics
}

var _ Port = (*ZapAdapter)(nil)

// NewZapAdapter builds a zap adapter writing to the sinks cfg enables.
func NewZapAdapter(cfg config.LoggingConfig, opts ...AdapterOption) (*ZapAdapter, error) {
	level, ok := ZapLevel(cfg.Level)
	if !ok {
		return nil, unknownLevel(cfg.Level, config.AdapterZap)
	}
	o := newAdapterOptions(opts)
	s := sanitizerFor(cfg)

	var files *fileSet
	if cfg.StoreFiles {
		var err error
		if files, err = openFileSet(cfg, o.now); err != nil {
			return nil, err
		}
	}

	core, err := newZapCore(cfg, level, s, files, o)
	if err != nil {
		if files != nil {
			_ = files.Close()
		}
		return nil, fmt.Errorf("failed to create core: %w", err)
	}

	return &ZapAdapter{
		zap:       zap.New(core),
		sanitizer: s,
		files:     files,
		metrics:   o.metrics,
	}, nil
}

// NewZapAdapterWithLogger adapts an existing zap logger. Redaction of
// structured messages uses s, which may be nil; field redaction is up to the
// logger's encoder.
func NewZapAdapterWithLogger(l *zap.Logger, s *sanitize.Sanitizer) *ZapAdapter {
	return &ZapAdapter{zap: l, sanitizer: s}
}

func (a *ZapAdapter) Error(msg any, meta Metadata)   { a.log(zapcore.ErrorLevel, msg, meta) }
func (a *ZapAdapter) Warn(msg any, meta Metadata)    { a.log(zapcore.WarnLevel, msg, meta) }
func (a *ZapAdapter) Info(msg any, meta Metadata)    { a.log(zapcore.InfoLevel, msg, meta) }
func (a *ZapAdapter) HTTP(msg any, meta Metadata)    { a.log(HTTPLevel, msg, meta) }
func (a *ZapAdapter) Verbose(msg any, meta Metadata) { a.log(VerboseLevel, msg, meta) }
func (a *ZapAdapter) Debug(msg any, meta Metadata)   { a.log(DebugLevel, msg, meta) }

// Methods implements Port.
func (a *ZapAdapter) Methods() []Method {
	return slices.Clone(CanonicalMethods)
}

// Underlying returns the underlying zap.Logger.
func (a *ZapAdapter) Underlying() *zap.Logger {
	return a.zap
}

func (a *ZapAdapter) log(level zapcore.Level, msg any, meta Metadata) {
	if ce := a.zap.Check(level, formatMessage(msg, a.sanitizer)); ce != nil {
		ce.Write(zapFields(meta)...)
		a.metrics.record(config.AdapterZap, zapLevelName(level))
	}
}

// zapFields converts metadata to fields in key order.
func zapFields(meta Metadata) []zap.Field {
	if len(meta) == 0 {
		return nil
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, meta[k]))
	}
	return fields
}

// Sync flushes any buffered log entries.
func (a *ZapAdapter) Sync() error {
	err := a.zap.Sync()
	// Ignore sync errors on stdout/stderr (common on Linux)
	if err != nil && isStdoutSyncError(err) {
		return nil
	}
	return err
}

// Close flushes the logger and closes its log files.
func (a *ZapAdapter) Close() error {
	err := a.Sync()
	if a.files != nil {
		err = errors.Join(err, a.files.Close())
	}
	return err
}

// isStdoutSyncError checks if error is harmless stdout/stderr sync error.
// On Linux, syncing stdout/stderr returns EINVAL or ENOTTY which are safe to ignore.
func isStdoutSyncError(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EINVAL || errno == syscall.ENOTTY
	}
	return false
}

func sanitizerFor(cfg config.LoggingConfig) *sanitize.Sanitizer {
	if !cfg.RedactionEnabled {
		return nil
	}
	return sanitize.New(cfg.RedactFields...)
}

func unknownLevel(level, adapter string) error {
	return apperr.NewConfiguration(fmt.Sprintf("unknown log level %q", level),
		apperr.WithComponent(adapter),
		apperr.WithOperation("create"),
		apperr.WithDetails(map[string]any{"level": level}),
	)
}
