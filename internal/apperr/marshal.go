package apperr

import (
	"sort"

	"github.com/rs/zerolog"
	"go.uber.org/zap/zapcore"
)

var (
	_ zapcore.ObjectMarshaler    = (*BaseError)(nil)
	_ zerolog.LogObjectMarshaler = (*BaseError)(nil)
	_ zapcore.ObjectMarshaler    = (*ValidationError)(nil)
	_ zerolog.LogObjectMarshaler = (*ValidationError)(nil)
)

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (e *BaseError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalZap(enc, e.Fields())
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (e *BaseError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Fields(e.Fields())
}

// The subtypes override the promoted marshalers so their own fields are
// included; method promotion alone would only see the embedded *BaseError.

func (e *ValidationError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalZap(enc, e.Fields())
}

func (e *ValidationError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Fields(e.Fields())
}

func (e *BusinessLogicError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalZap(enc, e.Fields())
}

func (e *BusinessLogicError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Fields(e.Fields())
}

func (e *NotImplementedError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalZap(enc, e.Fields())
}

func (e *NotImplementedError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Fields(e.Fields())
}

func marshalZap(enc zapcore.ObjectEncoder, fields map[string]any) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := fields[k].(type) {
		case string:
			enc.AddString(k, v)
		default:
			if err := enc.AddReflected(k, v); err != nil {
				return err
			}
		}
	}
	return nil
}
