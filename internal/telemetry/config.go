package telemetry

import (
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/ctxlog/internal/config"
)

// Protocols understood by the OTLP exporters.
const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http/protobuf"
)

// Config holds telemetry configuration.
type Config struct {
	Enabled        bool            `koanf:"enabled" json:"enabled"`
	Endpoint       string          `koanf:"endpoint" json:"endpoint"`
	Protocol       string          `koanf:"protocol" json:"protocol"`
	ServiceName    string          `koanf:"service_name" json:"service_name"`
	ServiceVersion string          `koanf:"service_version" json:"service_version"`
	Insecure       bool            `koanf:"insecure" json:"insecure"` // no TLS
	TLSSkipVerify  bool            `koanf:"tls_skip_verify" json:"tls_skip_verify"`
	SampleRate     float64         `koanf:"sample_rate" json:"sample_rate"`
	ShutdownAfter  config.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout"`
}

// NewDefaultConfig returns defaults for a local collector. Telemetry is
// disabled until Enabled is set.
func NewDefaultConfig() *Config {
	return &Config{
		Enabled:        false,
		Endpoint:       "localhost:4317",
		Protocol:       ProtocolGRPC,
		ServiceName:    "ctxlog",
		ServiceVersion: "0.1.0",
		Insecure:       true,
		SampleRate:     1.0,
		ShutdownAfter:  config.Duration(5 * time.Second),
	}
}

// Validate checks configuration for errors.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when telemetry is enabled")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required when telemetry is enabled")
	}
	if c.Protocol != "" && c.Protocol != ProtocolGRPC && c.Protocol != ProtocolHTTP {
		return fmt.Errorf("protocol must be %q or %q, got %q", ProtocolGRPC, ProtocolHTTP, c.Protocol)
	}

	// Plaintext export is only allowed to the local machine.
	if c.Insecure && !c.isLocalEndpoint() {
		return fmt.Errorf("insecure connections to remote endpoints are not allowed; set insecure=false for TLS or use a local endpoint (localhost/127.0.0.1)")
	}

	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0 and 1, got %f", c.SampleRate)
	}
	if c.ShutdownAfter.Duration() <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}
	return nil
}

// isLocalEndpoint reports whether the endpoint is a loopback address.
func (c *Config) isLocalEndpoint() bool {
	host := stripScheme(c.Endpoint)

	if strings.HasPrefix(host, "[") {
		// [::1]:4317 or [::1]
		if idx := strings.Index(host, "]"); idx != -1 {
			host = host[1:idx]
		}
	} else if strings.Count(host, ":") == 1 {
		host = host[:strings.LastIndex(host, ":")]
	}

	return host == "localhost" ||
		host == "::1" ||
		strings.HasPrefix(host, "127.") ||
		strings.HasPrefix(host, "::1:")
}
