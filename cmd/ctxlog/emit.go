package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/ctxlog/internal/apperr"
	"github.com/fyrsmithlabs/ctxlog/internal/logging"
	"github.com/fyrsmithlabs/ctxlog/internal/telemetry"
	"github.com/spf13/cobra"
)

var (
	emitLevel   string
	emitMessage string
	emitContext []string
	emitMeta    []string
	emitModule  string

	otelEndpoint string
	otelProtocol string
	otelInsecure bool
)

func init() {
	emitCmd.Flags().StringVarP(&emitLevel, "level", "l", "info", "log method to call (error, warn, info, http, verbose, debug, fatal, trace)")
	emitCmd.Flags().StringVarP(&emitMessage, "message", "m", "", "message to log")
	emitCmd.Flags().StringArrayVarP(&emitContext, "context", "c", nil, "context entry as key=value; dotted keys nest (feature.name=x)")
	emitCmd.Flags().StringArrayVar(&emitMeta, "meta", nil, "metadata entry as key=value; dotted keys nest")
	emitCmd.Flags().StringVar(&emitModule, "module", "", "scope the record to a module logger")
	emitCmd.Flags().StringVar(&otelEndpoint, "otel-endpoint", "localhost:4317", "OTLP collector endpoint, used when LOG_OTEL=true")
	emitCmd.Flags().StringVar(&otelProtocol, "otel-protocol", telemetry.ProtocolGRPC, "OTLP protocol (grpc or http/protobuf)")
	emitCmd.Flags().BoolVar(&otelInsecure, "otel-insecure", true, "export without TLS (local endpoints only)")
	_ = emitCmd.MarkFlagRequired("message")
}

// emitCmd logs one record through the configured adapter
var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Emit one log record through the facade",
	Long: `Emit one log record through the configured adapter.

The record's context is the service context, then the module (if any), then
the --context entries, merged in that order. Sensitive keys are redacted on
output unless LOG_REDACTION_ENABLED=false.

Examples:
  # Info record with context
  ctxlog emit -m "order placed" -c feature=checkout --meta order=o-1

  # Zerolog adapter, http level
  LOG_ADAPTER=zerolog ctxlog emit -l http -m "GET /health 200"

  # Module logger writing to files
  LOG_STORE_FILES=true ctxlog emit --module billing -l warn -m "invoice late"

  # Export to a local OTLP collector inside a span
  LOG_OTEL=true ctxlog emit -m "exported" --otel-endpoint localhost:4317`,
	Args: cobra.NoArgs,
	RunE: runEmit,
}

func runEmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fields, err := parsePairs(emitContext)
	if err != nil {
		return fmt.Errorf("invalid --context: %w", err)
	}
	meta, err := parsePairs(emitMeta)
	if err != nil {
		return fmt.Errorf("invalid --meta: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []logging.AdapterOption{logging.WithConsole(cmd.OutOrStdout())}
	var tel *telemetry.Telemetry
	if cfg.Logging.OTEL {
		tel, err = newTelemetry(ctx, cfg.Logging.ServiceName)
		if err != nil {
			return err
		}
		defer tel.Shutdown(context.Background())
		opts = append(opts, logging.WithLoggerProvider(tel.LoggerProvider()))
	}

	root, err := logging.NewRoot(cfg.Logging, opts...)
	if err != nil {
		return err
	}
	defer root.Close()

	ctx, span := tel.Tracer("ctxlog").Start(ctx, "ctxlog.emit")
	defer span.End()

	log := root.Logger().WithContext(ctx)
	if emitModule != "" {
		log = root.Module(emitModule).WithContext(ctx)
	}

	method := logging.Method(strings.ToLower(emitLevel))
	if !log.Enabled(method) {
		return apperr.NewValidation(
			fmt.Sprintf("adapter %s has no %s method", cfg.Logging.Adapter, emitLevel),
			"level", emitLevel, "supported-method",
			apperr.WithDetails(map[string]any{"methods": log.Methods()}),
		)
	}

	md := logging.Metadata(meta)
	if len(fields) > 0 {
		if md == nil {
			md = logging.Metadata{}
		}
		md[logging.ContextKey] = logging.Context(fields)
	}
	log.Log(method, emitMessage, md)
	return nil
}

// newTelemetry builds the providers behind the OTEL sink.
func newTelemetry(ctx context.Context, service string) (*telemetry.Telemetry, error) {
	cfg := telemetry.NewDefaultConfig()
	cfg.Enabled = true
	cfg.ServiceName = service
	cfg.ServiceVersion = version
	cfg.Endpoint = otelEndpoint
	cfg.Protocol = otelProtocol
	cfg.Insecure = otelInsecure
	return telemetry.New(ctx, cfg)
}

// parsePairs turns key=value entries into a map. Dotted keys create nested
// maps; a later entry for the same key wins.
func parsePairs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}

		parts := strings.Split(key, ".")
		m := out
		for _, p := range parts[:len(parts)-1] {
			next, ok := m[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				m[p] = next
			}
			m = next
		}
		m[parts[len(parts)-1]] = value
	}
	return out, nil
}
