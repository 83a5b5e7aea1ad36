// Package logging provides a contextual logging facade over zap and zerolog.
//
// # Overview
//
// Application code logs through a Logger. Each Logger carries a default
// Context (service, module, feature, ...) which is deep-merged with the
// context passed on every call, then hands the record to a backend adapter
// implementing Port:
//
//	caller -> Logger (merge context) -> Port adapter -> encoder (redact) -> sinks
//
// Two adapters are built in:
//   - ZapAdapter: levels error, warn, info, http, verbose, debug
//   - ZerologAdapter: levels fatal, error, warn, info, debug, trace; http
//     is written at info and verbose at debug
//
// # Usage
//
// Build the composition root from config and install it process-wide:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	root, err := logging.NewRoot(cfg.Logging)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer root.Close()
//	logging.SetDefault(root)
//
// Log with context:
//
//	log := logging.Module("billing")
//	log.Info("invoice sent", logging.Metadata{
//	    "context": logging.Context{"feature": "reminders"},
//	    "invoice": id,
//	})
//
// Output carries the merged context:
//
//	{"level":"info","ts":"...","msg":"invoice sent","context":{"feature":"reminders","module":"billing","service":"ctxlog"},"invoice":"inv_42"}
//
// # Custom adapters
//
// Any Port can be used through New or CreateOptions.Adapter. Embed
// UnimplementedPort to provide only some levels, and report them from
// Methods; New fails with a ConfigurationError listing requested methods the
// adapter lacks.
//
// # Secret Redaction
//
// Sanitization happens where records are encoded, never in the Logger: the
// adapter receives metadata as given. Keys in sanitize.DefaultFields, plus
// any configured extras, are replaced with sanitize.Redacted, and
// config.Secret values are always redacted.
//
// # Files
//
// With file storage enabled each adapter writes three rotating files to the
// log directory, partitioned by level: <service>-error.log,
// <service>-combined.log and <service>-debug.log.
//
// # Testing
//
// Use TestLogger for assertions on a zap-backed logger and Recorder as a
// Port test double:
//
//	tl := logging.NewTestLogger(logging.Context{"service": "test"})
//	tl.Info("test message", logging.Metadata{"key": "value"})
//	tl.AssertLogged(t, logging.MethodInfo, "test message")
//	tl.AssertField(t, "test message", "key", "value")
//	tl.AssertNoSecrets(t)
//
// # Concurrency Safety
//
// Loggers are immutable and safe for concurrent use. Child loggers (With,
// Module) are independent and do not affect parent or siblings.
package logging
