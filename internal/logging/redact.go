package logging

import (
	"encoding/json"
	"fmt"

	"github.com/fyrsmithlabs/ctxlog/internal/sanitize"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// SanitizingEncoder wraps a zapcore.Encoder and runs every field through a
// sanitize.Sanitizer before it is encoded. Fields added with With and fields
// passed per entry are both covered.
type SanitizingEncoder struct {
	zapcore.Encoder
	sanitizer *sanitize.Sanitizer
}

// NewSanitizingEncoder wraps base. A nil sanitizer disables redaction.
func NewSanitizingEncoder(base zapcore.Encoder, s *sanitize.Sanitizer) zapcore.Encoder {
	if s == nil {
		return base
	}
	return &SanitizingEncoder{Encoder: base, sanitizer: s}
}

// EncodeEntry sanitizes per-entry fields. zap's built-in encoders add them to
// an internal clone, bypassing the Add* overrides below.
func (e *SanitizingEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	return e.Encoder.EncodeEntry(ent, sanitizeFields(e.sanitizer, fields))
}

// sanitizeFields returns fields with sensitive values redacted. The input is
// returned as is when nothing changed.
func sanitizeFields(s *sanitize.Sanitizer, fields []zapcore.Field) []zapcore.Field {
	var out []zapcore.Field
	for i, f := range fields {
		nf, changed := sanitizeField(s, f)
		if !changed {
			if out != nil {
				out = append(out, f)
			}
			continue
		}
		if out == nil {
			out = make([]zapcore.Field, i, len(fields))
			copy(out, fields[:i])
		}
		out = append(out, nf)
	}
	if out == nil {
		return fields
	}
	return out
}

func sanitizeField(s *sanitize.Sanitizer, f zapcore.Field) (zapcore.Field, bool) {
	if f.Type == zapcore.SkipType {
		return f, false
	}
	if s.IsSensitive(f.Key) {
		return zap.String(f.Key, sanitize.Redacted), true
	}
	switch f.Type {
	case zapcore.ReflectType, zapcore.StringerType:
		if clean, changed := s.Redact(f.Interface); changed {
			return zap.Any(f.Key, clean), true
		}
	}
	return f, false
}

func (e *SanitizingEncoder) redact(key string) bool {
	if e.sanitizer.IsSensitive(key) {
		e.Encoder.AddString(key, sanitize.Redacted)
		return true
	}
	return false
}

// AddString redacts sensitive field names.
func (e *SanitizingEncoder) AddString(key, val string) {
	if !e.redact(key) {
		e.Encoder.AddString(key, val)
	}
}

// AddByteString redacts sensitive field names.
func (e *SanitizingEncoder) AddByteString(key string, val []byte) {
	if !e.redact(key) {
		e.Encoder.AddByteString(key, val)
	}
}

// AddBinary redacts sensitive field names.
func (e *SanitizingEncoder) AddBinary(key string, val []byte) {
	if !e.redact(key) {
		e.Encoder.AddBinary(key, val)
	}
}

// AddReflected redacts sensitive field names and sanitizes nested values.
func (e *SanitizingEncoder) AddReflected(key string, val interface{}) error {
	if e.redact(key) {
		return nil
	}
	return e.Encoder.AddReflected(key, e.sanitizer.Sanitize(val))
}

// AddArray redacts sensitive field names.
func (e *SanitizingEncoder) AddArray(key string, arr zapcore.ArrayMarshaler) error {
	if e.redact(key) {
		return nil
	}
	return e.Encoder.AddArray(key, arr)
}

// AddObject redacts sensitive field names.
func (e *SanitizingEncoder) AddObject(key string, obj zapcore.ObjectMarshaler) error {
	if e.redact(key) {
		return nil
	}
	return e.Encoder.AddObject(key, obj)
}

// Clone creates a copy of the encoder.
func (e *SanitizingEncoder) Clone() zapcore.Encoder {
	return &SanitizingEncoder{
		Encoder:   e.Encoder.Clone(),
		sanitizer: e.sanitizer,
	}
}

// sanitizingCore redacts fields before they reach a core that does not
// encode through a SanitizingEncoder, such as the OpenTelemetry bridge.
type sanitizingCore struct {
	zapcore.Core
	sanitizer *sanitize.Sanitizer
}

func newSanitizingCore(core zapcore.Core, s *sanitize.Sanitizer) zapcore.Core {
	if s == nil {
		return core
	}
	return &sanitizingCore{Core: core, sanitizer: s}
}

func (c *sanitizingCore) With(fields []zapcore.Field) zapcore.Core {
	return &sanitizingCore{
		Core:      c.Core.With(sanitizeFields(c.sanitizer, fields)),
		sanitizer: c.sanitizer,
	}
}

func (c *sanitizingCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}
	return ce
}

func (c *sanitizingCore) Write(e zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(e, sanitizeFields(c.sanitizer, fields))
}

// formatMessage renders a log message of any type as a string. Structured
// messages are sanitized first when s is non-nil.
func formatMessage(msg any, s *sanitize.Sanitizer) string {
	switch m := msg.(type) {
	case nil:
		return ""
	case string:
		return m
	case error:
		return m.Error()
	case fmt.Stringer:
		return m.String()
	}
	if s != nil {
		msg = s.Sanitize(msg)
	}
	if b, err := json.Marshal(msg); err == nil {
		return string(b)
	}
	return fmt.Sprint(msg)
}
