package jsonpath

import "testing"

func TestResolve(t *testing.T) {
	tree := map[string]any{
		"a": map[string]any{
			"b": []any{
				map[string]any{"c": "leaf"},
				"second",
			},
		},
		"scalar": "x",
	}

	tcs := map[string]struct {
		path string
		want any
		ok   bool
	}{
		"root":              {"", tree, true},
		"nested object":     {"a.b.0.c", "leaf", true},
		"array index":       {"a.b.1", "second", true},
		"missing key":       {"a.missing", nil, false},
		"out of range":      {"a.b.9", nil, false},
		"index on scalar":   {"scalar.0", nil, false},
		"negative index":    {"a.b.-1", nil, false},
		"non-numeric index": {"a.b.x", nil, false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			got, ok := Resolve(tree, tc.path)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if name == "root" {
				return // deep-equal on the whole tree isn't interesting here
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCoerceString(t *testing.T) {
	if got := CoerceString("hi"); got != "hi" {
		t.Errorf("string passthrough: got %q", got)
	}
	if got := CoerceString(true); got != "true" {
		t.Errorf("bool stringify: got %q", got)
	}
	if got := CoerceString(float64(42)); got != "42" {
		t.Errorf("float stringify: got %q", got)
	}
	if got := CoerceString(nil); got != "" {
		t.Errorf("nil stringify: got %q", got)
	}
	if got := CoerceString([]any{"a", "b"}); got != `["a","b"]` {
		t.Errorf("array stringify: got %q", got)
	}
}

func TestCoerceFloat(t *testing.T) {
	if f, ok := CoerceFloat(float64(3.5)); !ok || f != 3.5 {
		t.Errorf("number passthrough: got %v %v", f, ok)
	}
	if f, ok := CoerceFloat("3.5"); !ok || f != 3.5 {
		t.Errorf("string parse: got %v %v", f, ok)
	}
	if _, ok := CoerceFloat(true); ok {
		t.Errorf("bool should not coerce to float")
	}
}

func TestCoerceInt(t *testing.T) {
	if i, ok := CoerceInt(float64(3.9)); !ok || i != 3 {
		t.Errorf("truncation: got %v %v", i, ok)
	}
	if i, ok := CoerceInt("42"); !ok || i != 42 {
		t.Errorf("string parse: got %v %v", i, ok)
	}
	if i, ok := CoerceInt("3.0"); !ok || i != 3 {
		t.Errorf("fallback float parse: got %v %v", i, ok)
	}
}

func TestCoerceBool(t *testing.T) {
	tcs := []struct {
		in   any
		want bool
		ok   bool
	}{
		{true, true, true},
		{"true", true, true},
		{"YES", true, true},
		{"1", true, true},
		{"false", false, true},
		{"no", false, true},
		{"0", false, true},
		{float64(0), false, true},
		{float64(7), true, true},
		{"maybe", false, false},
	}
	for _, tc := range tcs {
		got, ok := CoerceBool(tc.in)
		if ok != tc.ok {
			t.Errorf("CoerceBool(%v) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("CoerceBool(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
