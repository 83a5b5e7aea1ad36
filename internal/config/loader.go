package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix of every environment variable read by Load.
	EnvPrefix = "LOG_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Load resolves configuration from defaults, then the YAML file at
// configPath (skipped when empty or missing), then environment variables.
//
// Environment variables map onto the logging section:
//
//	LOG_ADAPTER       -> logging.adapter
//	LOG_STORE_FILES   -> logging.store_files
//	LOG_REDACT_FIELDS -> logging.redact_fields (comma separated)
//
// The result is validated before it is returned.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if content != nil {
			// Use rawbytes provider to avoid re-opening the file
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Unmarshal over the defaults so unset keys keep their default values.
	cfg := NewDefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps LOG_STORE_FILES to logging.store_files.
func envKey(s string) string {
	return "logging." + strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// readConfigFile returns nil content when the file does not exist.
func readConfigFile(path string) ([]byte, error) {
	// Open file once and validate using file descriptor to avoid TOCTOU race
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func normalize(cfg *Config) {
	l := &cfg.Logging
	l.Adapter = strings.ToLower(strings.TrimSpace(l.Adapter))
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	l.Format = strings.ToLower(strings.TrimSpace(l.Format))

	// LOG_REDACT_FIELDS arrives as a single comma separated element.
	fields := l.RedactFields[:0:0]
	for _, entry := range l.RedactFields {
		for _, f := range strings.Split(entry, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}
	l.RedactFields = fields
}
