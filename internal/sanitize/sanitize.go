// Package sanitize redacts sensitive values from structured log data.
//
// Sanitize walks maps with string keys and slices, replacing the value of any
// key that case-insensitively matches the sensitive field set with Redacted.
// Unchanged data is returned by reference: a caller can compare the result
// with its input to learn whether anything was redacted. When something does
// change, only the affected maps and slices are copied; untouched siblings are
// shared with the input.
//
// Maps and slices that refer back to one of their ancestors are replaced with
// Circular instead of being walked forever.
package sanitize

import (
	"reflect"
	"strings"

	"github.com/fyrsmithlabs/ctxlog/internal/config"
)

const (
	// Redacted replaces sensitive values.
	Redacted = "***REDACTED***"

	// Circular replaces a map or slice that contains one of its ancestors.
	Circular = "[Circular]"
)

// DefaultFields is the built-in sensitive field set. Matching ignores case.
var DefaultFields = []string{
	"password", "token", "secret", "apiKey", "accessToken", "refreshToken",
	"ssn", "creditCard", "cardNumber", "pin", "privateKey", "clientSecret",
	"auth", "authorization", "jwt", "session", "cookie",
}

var defaultSanitizer = New()

// Sanitize redacts v with the default field set.
func Sanitize(v any) any {
	return defaultSanitizer.Sanitize(v)
}

// Sanitizer redacts a fixed set of field names. It is immutable and safe for
// concurrent use.
type Sanitizer struct {
	fields map[string]struct{}
}

// New returns a Sanitizer for DefaultFields plus extra.
func New(extra ...string) *Sanitizer {
	fields := make(map[string]struct{}, len(DefaultFields)+len(extra))
	for _, f := range DefaultFields {
		fields[strings.ToLower(f)] = struct{}{}
	}
	for _, f := range extra {
		if f = strings.TrimSpace(f); f != "" {
			fields[strings.ToLower(f)] = struct{}{}
		}
	}
	return &Sanitizer{fields: fields}
}

// IsSensitive reports whether key names a sensitive field.
func (s *Sanitizer) IsSensitive(key string) bool {
	_, ok := s.fields[strings.ToLower(key)]
	return ok
}

// Sanitize returns v with sensitive values redacted. See the package
// documentation for the sharing rules.
func (s *Sanitizer) Sanitize(v any) any {
	out, _ := s.walk(v, nil)
	return out
}

// Redact is Sanitize that also reports whether anything was replaced.
func (s *Sanitizer) Redact(v any) (any, bool) {
	return s.walk(v, nil)
}

func (s *Sanitizer) walk(v any, path []visit) (any, bool) {
	switch val := v.(type) {
	case nil, string, bool, int, int64, float64, []byte:
		return v, false
	case config.Secret:
		if !val.IsSet() {
			return v, false
		}
		return Redacted, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
			return v, false
		}
		return s.walkMap(rv, path)
	case reflect.Slice:
		if rv.IsNil() || rv.Len() == 0 {
			return v, false
		}
		return s.walkSlice(rv, path)
	default:
		return v, false
	}
}

func (s *Sanitizer) walkMap(rv reflect.Value, path []visit) (any, bool) {
	v := visit{ptr: rv.Pointer(), n: -1}
	if onPath(path, v) {
		return Circular, true
	}
	path = append(path, v)

	var changes map[string]any
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		if s.IsSensitive(key) {
			changes = record(changes, key, Redacted)
			continue
		}
		if nv, changed := s.walk(iter.Value().Interface(), path); changed {
			changes = record(changes, key, nv)
		}
	}
	if changes == nil {
		return rv.Interface(), false
	}

	elem := rv.Type().Elem()
	if allAssignable(changes, elem) {
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter = rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		for k, nv := range changes {
			out.SetMapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()), valueFor(nv, elem))
		}
		return out.Interface(), true
	}

	// The element type cannot hold the marker (map[string]int with a "pin"
	// key, say), so fall back to a generic map.
	out := make(map[string]any, rv.Len())
	iter = rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	for k, nv := range changes {
		out[k] = nv
	}
	return out, true
}

func (s *Sanitizer) walkSlice(rv reflect.Value, path []visit) (any, bool) {
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return rv.Interface(), false
	}
	// A subslice shares its parent's data pointer, so length is part of
	// the identity.
	v := visit{ptr: rv.Pointer(), n: rv.Len()}
	if onPath(path, v) {
		return Circular, true
	}
	path = append(path, v)

	var changes map[int]any
	for i := 0; i < rv.Len(); i++ {
		if nv, changed := s.walk(rv.Index(i).Interface(), path); changed {
			if changes == nil {
				changes = make(map[int]any)
			}
			changes[i] = nv
		}
	}
	if changes == nil {
		return rv.Interface(), false
	}

	elem := rv.Type().Elem()
	assignable := true
	for _, nv := range changes {
		if !canAssign(nv, elem) {
			assignable = false
			break
		}
	}

	if assignable {
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		for i, nv := range changes {
			out.Index(i).Set(valueFor(nv, elem))
		}
		return out.Interface(), true
	}

	out := make([]any, rv.Len())
	for i := range out {
		if nv, ok := changes[i]; ok {
			out[i] = nv
			continue
		}
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func record(changes map[string]any, key string, v any) map[string]any {
	if changes == nil {
		changes = make(map[string]any)
	}
	changes[key] = v
	return changes
}

// visit identifies a map (n is -1) or a slice on the recursion path.
type visit struct {
	ptr uintptr
	n   int
}

func onPath(path []visit, v visit) bool {
	for _, p := range path {
		if p == v {
			return true
		}
	}
	return false
}

func allAssignable(changes map[string]any, elem reflect.Type) bool {
	for _, nv := range changes {
		if !canAssign(nv, elem) {
			return false
		}
	}
	return true
}

func canAssign(v any, elem reflect.Type) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).AssignableTo(elem)
}

func valueFor(v any, elem reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(elem)
	}
	return reflect.ValueOf(v)
}
