// Package jsonpath walks dotted paths (including numeric array-index
// segments) to a leaf value inside a decoded JSON tree and coerces that
// leaf to one of the extraction data types.
//
// Ground: this is the core.Resolve/core.Coerce pairing found all over
// the pack's schema-validation code (kaptinlin-jsonschema walks JSON
// Pointer-style segments the same way); the shape here is written fresh
// for dotted-path segments with numeric array indices.
package jsonpath

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Resolve walks path against root and returns the leaf value found, or
// (nil, false) if the path does not resolve. An empty path means root
// itself.
func Resolve(root any, path string) (any, bool) {
	if path == "" {
		return root, true
	}

	cur := root
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			// Scalar or nil with remaining segments: not found.
			return nil, false
		}
	}
	return cur, true
}

// CoerceString coerces v to a string: strings pass through, other
// scalars are stringified, arrays/objects are JSON-serialized.
func CoerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatFloat(val)
	case []any, map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return ""
	}
}

// CoerceFloat coerces v to a float64. Numbers pass through, strings are
// parsed, anything else yields 0 with ok=false (callers treat that as
// empty-string output).
func CoerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// CoerceInt coerces v to an int64, truncating floats.
func CoerceInt(v any) (int64, bool) {
	switch val := v.(type) {
	case float64:
		return int64(val), true
	case string:
		// Try integer parse first, then fall back to float parse+trunc
		// so strings like "3.0" still coerce.
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return int64(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// CoerceBool coerces v to a bool: booleans pass through; strings
// true|1|yes / false|0|no (case-insensitive); numbers zero is false,
// non-zero is true.
func CoerceBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		default:
			return false, false
		}
	case float64:
		return val != 0, true
	default:
		return false, false
	}
}

// CoerceJSON returns the JSON serialization of v.
func CoerceJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
