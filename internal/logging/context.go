package logging

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"go.opentelemetry.io/otel/trace"
)

// ContextFrom lifts the correlation data stored on ctx into a log Context:
// trace and span IDs from OpenTelemetry, tenant, session and request IDs.
// It returns nil when ctx carries none of them.
func ContextFrom(ctx context.Context) Context {
	var out Context
	set := func(k string, v any) {
		if out == nil {
			out = make(Context, 4)
		}
		out[k] = v
	}

	// Trace correlation (from OpenTelemetry)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		set("trace_id", sc.TraceID().String())
		set("span_id", sc.SpanID().String())
		if sc.IsSampled() {
			set("trace_sampled", true)
		}
	}

	if tenant := TenantFromContext(ctx); tenant != nil {
		set("tenant", Context{
			"org":     tenant.OrgID,
			"team":    tenant.TeamID,
			"project": tenant.ProjectID,
		})
	}

	if sessionID := SessionIDFromContext(ctx); sessionID != "" {
		set("session_id", sessionID)
	}

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		set("request_id", requestID)
	}

	return out
}

// WithContext returns a child logger whose context includes the correlation
// data carried by ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return l.With(ContextFrom(ctx))
}

// Context key types
type tenantCtxKey struct{}
type sessionCtxKey struct{}
type requestCtxKey struct{}

// Tenant represents multi-tenant context.
type Tenant struct {
	OrgID     string
	TeamID    string
	ProjectID string
}

// Validation constants
const (
	maxTenantFieldLen = 64
	maxIDLen          = 128
)

// idPattern allows alphanumeric, hyphen, underscore
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateID validates a tenant field, session ID or request ID.
func validateID(id, name string, maxLen int) error {
	if id == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if !utf8.ValidString(id) {
		return fmt.Errorf("%s contains invalid UTF-8", name)
	}
	if len(id) > maxLen {
		return fmt.Errorf("%s exceeds max length %d", name, maxLen)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (must be alphanumeric, hyphen, underscore)", name)
	}
	return nil
}

// TenantFromContext extracts tenant from context.
func TenantFromContext(ctx context.Context) *Tenant {
	if t, ok := ctx.Value(tenantCtxKey{}).(*Tenant); ok {
		return t
	}
	return nil
}

// WithTenant adds tenant to context.
// Panics if tenant is nil or contains invalid field values.
func WithTenant(ctx context.Context, tenant *Tenant) context.Context {
	if tenant == nil {
		panic("logging: tenant cannot be nil")
	}
	for _, f := range [...]struct{ name, value string }{
		{"tenant.OrgID", tenant.OrgID},
		{"tenant.TeamID", tenant.TeamID},
		{"tenant.ProjectID", tenant.ProjectID},
	} {
		if err := validateID(f.value, f.name, maxTenantFieldLen); err != nil {
			panic(fmt.Sprintf("logging: %v", err))
		}
	}
	return context.WithValue(ctx, tenantCtxKey{}, tenant)
}

// SessionIDFromContext extracts session ID from context.
func SessionIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(sessionCtxKey{}).(string); ok {
		return s
	}
	return ""
}

// WithSessionID adds session ID to context.
// Panics if sessionID is empty or contains invalid characters.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if err := validateID(sessionID, "sessionID", maxIDLen); err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return context.WithValue(ctx, sessionCtxKey{}, sessionID)
}

// RequestIDFromContext extracts request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if r, ok := ctx.Value(requestCtxKey{}).(string); ok {
		return r
	}
	return ""
}

// WithRequestID adds request ID to context.
// Panics if requestID is empty or contains invalid characters.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if err := validateID(requestID, "requestID", maxIDLen); err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return context.WithValue(ctx, requestCtxKey{}, requestID)
}

// loggerCtxKey is the context key for Logger.
type loggerCtxKey struct{}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context.
// Returns the process-wide default logger if not found.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok && l != nil {
		return l
	}
	return L()
}
