package apperr

import (
	"runtime"
	"strings"
	"unicode"
)

// inferCaller resolves the frame at depth (1-based) and derives component and
// operation from its symbol name.
func inferCaller(pcs []uintptr, depth int) (component, operation string) {
	if depth < 1 || len(pcs) == 0 {
		return Unknown, Unknown
	}
	frames := runtime.CallersFrames(pcs)
	for i := 1; ; i++ {
		f, more := frames.Next()
		if i == depth {
			return parseFunction(f.Function)
		}
		if !more {
			return Unknown, Unknown
		}
	}
}

// parseFunction maps a runtime symbol such as
// "example.com/app/store.(*OrderStore).Save.func1" onto component/operation.
func parseFunction(symbol string) (component, operation string) {
	parts := symbolParts(symbol)
	switch len(parts) {
	case 0:
		return Unknown, Unknown
	case 1:
		return classifyFunction(parts[0])
	default:
		typ := strings.TrimSuffix(strings.TrimPrefix(parts[0], "(*"), ")")
		if typ == "" || parts[1] == "" {
			return Unknown, Unknown
		}
		return strings.ToLower(typ), parts[1]
	}
}

// symbolParts strips the package path, type parameters and closure suffixes,
// returning [Func] or [Type, Method].
func symbolParts(symbol string) []string {
	if symbol == "" {
		return nil
	}
	if i := strings.LastIndexByte(symbol, '/'); i >= 0 {
		symbol = symbol[i+1:]
	}
	i := strings.IndexByte(symbol, '.')
	if i < 0 {
		return nil
	}
	symbol = stripTypeParams(symbol[i+1:])

	var parts []string
	for _, p := range strings.Split(symbol, ".") {
		if p == "" || isClosureSuffix(p) {
			continue
		}
		parts = append(parts, p)
	}
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return parts
}

func stripTypeParams(s string) string {
	if !strings.Contains(s, "[") {
		return s
	}
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '[':
			depth++
		case r == ']':
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isClosureSuffix matches the compiler's names for function literals and
// go/defer wrappers: func1, gowrap2, deferwrap1 and bare nesting indices.
func isClosureSuffix(p string) bool {
	for _, prefix := range []string{"func", "gowrap", "deferwrap"} {
		if rest, ok := strings.CutPrefix(p, prefix); ok && rest != "" && isDigits(rest) {
			return true
		}
	}
	return isDigits(p)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func classifyFunction(name string) (component, operation string) {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "factory"):
		return "factory", name
	case strings.Contains(lower, "create"):
		return "factory", "creation"
	case strings.Contains(lower, "service"):
		stripped := strings.ReplaceAll(lower, "service", "")
		if stripped == "" {
			stripped = "service"
		}
		return stripped, "service-operation"
	default:
		return lower, "function-call"
	}
}
