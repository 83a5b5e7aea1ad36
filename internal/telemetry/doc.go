// Package telemetry sets up the OpenTelemetry providers that feed the
// logging facade's OTEL sink.
//
// A Telemetry owns a TracerProvider, whose spans give log records their
// trace_id and span_id, and a LoggerProvider, which the zap adapter's OTEL
// core exports records through.
//
//	tel, err := telemetry.New(ctx, telemetry.NewDefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
//	root, err := logging.NewRoot(cfg.Logging, logging.WithLoggerProvider(tel.LoggerProvider()))
//
// Telemetry failures do not fail logging. If a provider cannot be built the
// instance is marked degraded and callers fall back to no-op providers.
//
// Tests use NewTestTelemetry, which records spans and log records in memory.
package telemetry
