// Package config provides configuration loading for ctxlog.
//
// Configuration is resolved from defaults, an optional YAML file and
// environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/fyrsmithlabs/ctxlog/internal/apperr"
)

// Adapter names accepted by LoggingConfig.Adapter.
const (
	AdapterZap     = "zap"
	AdapterZerolog = "zerolog"
)

// Levels is the union of level names understood by the adapters. Each adapter
// maps the names outside its native vocabulary onto its nearest level.
var Levels = []string{"fatal", "error", "warn", "info", "http", "verbose", "debug", "trace"}

// Config holds the complete ctxlog configuration.
type Config struct {
	Logging LoggingConfig `koanf:"logging" json:"logging"`
}

// LoggingConfig controls adapter selection and the sinks it writes to.
type LoggingConfig struct {
	Adapter     string `koanf:"adapter" json:"adapter"`
	Level       string `koanf:"level" json:"level"`
	Format      string `koanf:"format" json:"format"`
	ServiceName string `koanf:"service_name" json:"service_name"`

	Console    bool   `koanf:"console" json:"console"`
	StoreFiles bool   `koanf:"store_files" json:"store_files"`
	Dir        string `koanf:"dir" json:"dir"`

	MaxSizeMB   int      `koanf:"max_size_mb" json:"max_size_mb"`
	MaxAgeDays  int      `koanf:"max_age_days" json:"max_age_days"`
	MaxBackups  int      `koanf:"max_backups" json:"max_backups"`
	Compress    bool     `koanf:"compress" json:"compress"`
	RotateEvery Duration `koanf:"rotate_every" json:"rotate_every"`

	RedactionEnabled bool     `koanf:"redaction_enabled" json:"redaction_enabled"`
	RedactFields     []string `koanf:"redact_fields" json:"redact_fields"`

	OTEL     bool `koanf:"otel" json:"otel"`
	Sampling bool `koanf:"sampling" json:"sampling"`
}

// NewDefaultConfig returns config with production-ready defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Adapter:          AdapterZap,
			Level:            "info",
			Format:           "console",
			ServiceName:      "ctxlog",
			Console:          true,
			StoreFiles:       false,
			Dir:              "logs",
			MaxSizeMB:        20,
			MaxAgeDays:       14,
			MaxBackups:       0,
			Compress:         true,
			RotateEvery:      Duration(24 * time.Hour),
			RedactionEnabled: true,
		},
	}
}

// Validate checks config for errors. Failures are ConfigurationErrors since
// they are only ever raised at startup.
func (c *Config) Validate() error {
	l := c.Logging

	if l.Adapter != AdapterZap && l.Adapter != AdapterZerolog {
		return invalid("adapter", l.Adapter, fmt.Sprintf("adapter must be %q or %q", AdapterZap, AdapterZerolog))
	}
	if !slices.Contains(Levels, strings.ToLower(l.Level)) {
		return invalid("level", l.Level, "level must be one of "+strings.Join(Levels, ", "))
	}
	if l.Format != "json" && l.Format != "console" {
		return invalid("format", l.Format, "format must be 'json' or 'console'")
	}
	if strings.TrimSpace(l.ServiceName) == "" {
		return invalid("service_name", l.ServiceName, "service name cannot be empty")
	}
	if !l.Console && !l.StoreFiles && !l.OTEL {
		return invalid("console", l.Console, "at least one output must be enabled (console, files or otel)")
	}

	if l.StoreFiles {
		if strings.TrimSpace(l.Dir) == "" {
			return invalid("dir", l.Dir, "log directory required when storing to files")
		}
		if l.MaxSizeMB <= 0 {
			return invalid("max_size_mb", l.MaxSizeMB, "max file size must be > 0")
		}
		if l.MaxAgeDays <= 0 {
			return invalid("max_age_days", l.MaxAgeDays, "retention must be > 0 days")
		}
		if l.MaxBackups < 0 {
			return invalid("max_backups", l.MaxBackups, "max backups must be >= 0")
		}
		if l.RotateEvery.Duration() <= 0 {
			return invalid("rotate_every", l.RotateEvery.String(), "rotation period must be > 0")
		}
	}

	for _, f := range l.RedactFields {
		if strings.TrimSpace(f) == "" {
			return invalid("redact_fields", l.RedactFields, "redact field names cannot be empty")
		}
	}

	return nil
}

func invalid(key string, value any, msg string) error {
	return apperr.NewConfiguration(msg,
		apperr.WithComponent("config"),
		apperr.WithOperation("validate"),
		apperr.WithDetails(map[string]any{"key": "logging." + key, "value": value}),
	)
}
