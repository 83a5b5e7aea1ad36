package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fyrsmithlabs/ctxlog/internal/config"
	"github.com/fyrsmithlabs/ctxlog/internal/sanitize"
	"gopkg.in/natefinch/lumberjack.v2"
)

// fileTier selects which records a log file keeps.
type fileTier int

const (
	tierWarn fileTier = iota // warnings and errors
	tierInfo                 // info and above
	tierAll                  // everything
)

// rotatingFile is a size-capped lumberjack file that additionally rotates
// whenever the clock crosses a period boundary. Boundaries are aligned to
// the zero time, so a 24h period rotates at midnight UTC.
type rotatingFile struct {
	mu       sync.Mutex
	lj       *lumberjack.Logger
	period   time.Duration
	now      func() time.Time
	boundary time.Time
}

func newRotatingFile(path string, cfg config.LoggingConfig, now func() time.Time) *rotatingFile {
	period := cfg.RotateEvery.Duration()
	return &rotatingFile{
		lj: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxAge:     cfg.MaxAgeDays,
			MaxBackups: cfg.MaxBackups,
			Compress:   cfg.Compress,
		},
		period:   period,
		now:      now,
		boundary: now().Truncate(period),
	}
}

// Write implements io.Writer.
func (f *rotatingFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if start := f.now().Truncate(f.period); start.After(f.boundary) {
		if err := f.lj.Rotate(); err != nil {
			return 0, fmt.Errorf("rotate %s: %w", f.lj.Filename, err)
		}
		f.boundary = start
	}
	return f.lj.Write(p)
}

// Sync implements zapcore.WriteSyncer. lumberjack writes straight to the
// file, so there is nothing to flush.
func (f *rotatingFile) Sync() error {
	return nil
}

// Close implements io.Closer.
func (f *rotatingFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lj.Close()
}

// fileSet is the three-file layout shared by both adapters:
//
//	<service>-error.log     warnings and errors
//	<service>-combined.log  info and above
//	<service>-debug.log     everything
type fileSet struct {
	files map[fileTier]*rotatingFile
}

func openFileSet(cfg config.LoggingConfig, now func() time.Time) (*fileSet, error) {
	dir, err := sanitize.Dir(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("invalid log directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	if now == nil {
		now = time.Now
	}

	base := sanitize.Identifier(cfg.ServiceName)
	names := map[fileTier]string{
		tierWarn: base + "-error.log",
		tierInfo: base + "-combined.log",
		tierAll:  base + "-debug.log",
	}

	fs := &fileSet{files: make(map[fileTier]*rotatingFile, len(names))}
	for tier, name := range names {
		fs.files[tier] = newRotatingFile(filepath.Join(dir, name), cfg, now)
	}
	return fs, nil
}

// Close implements io.Closer.
func (fs *fileSet) Close() error {
	var errs []error
	for _, f := range fs.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
