package logging

// Context is hierarchical scoping attached to log records, for example
// {service: "orders", module: "checkout", feature: {name: "coupons"}}.
// Nested scopes are Context or map[string]any values. A Context handed to a
// log call must not be mutated afterwards.
type Context map[string]any

// Metadata is the per-call map passed to a Port method. After a Logger
// wrapper runs it always holds a Context under ContextKey.
type Metadata map[string]any

// ContextKey is the Metadata key carrying the merged Context.
const ContextKey = "context"

// Merge deep-merges source into target and returns the result:
//   - an empty source returns target itself
//   - an empty target returns source itself
//   - keys holding maps on both sides are merged recursively
//   - every other source value, slices included, replaces the target value
//
// Neither input is mutated; when both are non-empty a new map is returned.
func Merge(target, source Context) Context {
	if len(source) == 0 {
		return target
	}
	if len(target) == 0 {
		return source
	}

	out := make(Context, len(target)+len(source))
	for k, v := range target {
		out[k] = v
	}
	for k, sv := range source {
		if tm, ok := asContext(out[k]); ok {
			if sm, ok := asContext(sv); ok {
				out[k] = Merge(tm, sm)
				continue
			}
		}
		out[k] = sv
	}
	return out
}

// asContext reports whether v is a plain map usable as a nested scope.
func asContext(v any) (Context, bool) {
	switch m := v.(type) {
	case Context:
		return m, true
	case map[string]any:
		return Context(m), true
	default:
		return nil, false
	}
}
