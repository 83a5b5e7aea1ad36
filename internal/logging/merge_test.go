package logging

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sameMap(a, b Context) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func TestMerge_EmptySourceReturnsTarget(t *testing.T) {
	target := Context{"service": "s"}

	assert.True(t, sameMap(target, Merge(target, nil)))
	assert.True(t, sameMap(target, Merge(target, Context{})))
}

func TestMerge_EmptyTargetReturnsSource(t *testing.T) {
	source := Context{"feature": "x"}

	assert.True(t, sameMap(source, Merge(nil, source)))
	assert.True(t, sameMap(source, Merge(Context{}, source)))
}

func TestMerge_Rules(t *testing.T) {
	tests := []struct {
		name   string
		target Context
		source Context
		want   Context
	}{
		{
			name:   "disjoint keys",
			target: Context{"service": "s"},
			source: Context{"feature": "x"},
			want:   Context{"service": "s", "feature": "x"},
		},
		{
			name:   "primitive replaced",
			target: Context{"service": "a"},
			source: Context{"service": "b"},
			want:   Context{"service": "b"},
		},
		{
			name:   "nested maps merged",
			target: Context{"feature": map[string]any{"name": "coupons", "flag": true}},
			source: Context{"feature": map[string]any{"flag": false, "owner": "growth"}},
			want:   Context{"feature": Context{"name": "coupons", "flag": false, "owner": "growth"}},
		},
		{
			name:   "nested Context merged",
			target: Context{"a": Context{"b": Context{"c": 1, "d": 2}}},
			source: Context{"a": Context{"b": Context{"d": 3}}},
			want:   Context{"a": Context{"b": Context{"c": 1, "d": 3}}},
		},
		{
			name:   "slices replaced not concatenated",
			target: Context{"tags": []any{"a", "b"}},
			source: Context{"tags": []any{"c"}},
			want:   Context{"tags": []any{"c"}},
		},
		{
			name:   "map replaced by primitive",
			target: Context{"feature": Context{"name": "x"}},
			source: Context{"feature": "y"},
			want:   Context{"feature": "y"},
		},
		{
			name:   "primitive replaced by map",
			target: Context{"feature": "y"},
			source: Context{"feature": Context{"name": "x"}},
			want:   Context{"feature": Context{"name": "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(Merge(tt.target, tt.source)))
		})
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	target := Context{"service": "s", "feature": Context{"name": "a"}}
	source := Context{"feature": Context{"flag": true}, "module": "m"}

	merged := Merge(target, source)

	assert.Equal(t, Context{"service": "s", "feature": Context{"name": "a"}}, target)
	assert.Equal(t, Context{"feature": Context{"flag": true}, "module": "m"}, source)
	assert.False(t, sameMap(target, merged))
	assert.False(t, sameMap(source, merged))
}

func TestMerge_NestedKeyEqualsRecursiveMerge(t *testing.T) {
	a := Context{"k": Context{"x": 1, "y": Context{"z": 1}}}
	b := Context{"k": Context{"y": Context{"w": 2}}}

	got, ok := asContext(Merge(a, b)["k"])
	require.True(t, ok)
	assert.Equal(t, Merge(a["k"].(Context), b["k"].(Context)), got)
}

// normalize converts nested map[string]any to Context so results compare
// equal regardless of which plain map type a test used.
func normalize(c Context) Context {
	out := make(Context, len(c))
	for k, v := range c {
		if m, ok := asContext(v); ok {
			out[k] = normalize(m)
			continue
		}
		out[k] = v
	}
	return out
}
