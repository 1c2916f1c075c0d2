// Package canonical produces the three byte-exact serializations of a
// trace's "components" subtree that the signature verifier tries in
// order. Three variants exist because signers for this system evolved
// over time; each is independently testable and the verifier tries
// them from an ordered list.
//
// Numbers are preserved exactly as the signer wrote them (no "1.50" →
// "1.5" normalization): Decode below uses encoding/json's
// Decoder.UseNumber so a number in the source text round-trips as the
// same literal, rather than going through a float64 and losing
// trailing zeros or precision.
package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Decode parses raw preserving number literals (as json.Number) rather
// than normalizing them to float64. Use this — not traceparse.Parse's
// fast-path decode — whenever bytes will be canonicalized for signature
// verification.
func Decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return v, nil
}

// Modern encodes {"components": components, "trace_level": traceLevel}
// with sorted keys, no whitespace, and no empty-value stripping.
func Modern(components, traceLevel any) []byte {
	wrapper := map[string]any{
		"components":  components,
		"trace_level": traceLevel,
	}
	var buf bytes.Buffer
	encodeValue(&buf, wrapper, false, false)
	return buf.Bytes()
}

// Intermediate encodes the components value alone, sorted keys, no
// whitespace, WITH recursive empty-value stripping.
func Intermediate(components any) []byte {
	stripped := stripEmpty(components)
	var buf bytes.Buffer
	encodeValue(&buf, stripped, false, false)
	return buf.Bytes()
}

// Legacy encodes the components value alone, sorted keys, with ", " and
// ": " whitespace, and no stripping.
func Legacy(components any) []byte {
	var buf bytes.Buffer
	encodeValue(&buf, components, true, false)
	return buf.Bytes()
}

// stripEmpty recursively removes object entries and array elements
// whose value is null, "", [], or {}; if stripping leaves a container
// empty, that container is itself stripped from its parent. The
// top-level return value can itself become nil/empty.
func stripEmpty(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		keys := sortedKeys(val)
		for _, k := range keys {
			sv := stripEmpty(val[k])
			if isEmptyValue(sv) {
				continue
			}
			out[k] = sv
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, elem := range val {
			se := stripEmpty(elem)
			if isEmptyValue(se) {
				continue
			}
			out = append(out, se)
		}
		return out
	default:
		return v
	}
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

// encodeValue writes v in canonical form: object keys sorted
// lexicographically, arrays in positional order. When legacy is true,
// ", " and ": " separators are used instead of "," and ":".
func encodeValue(buf *bytes.Buffer, v any, legacy bool, _ bool) {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		buf.WriteString(val.String())
	case float64:
		// Only reached for values constructed in-process (e.g. test
		// fixtures) rather than decoded via Decode's UseNumber path.
		b, _ := json.Marshal(val)
		buf.Write(b)
	case string:
		encodeString(buf, val)
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				if legacy {
					buf.WriteString(", ")
				} else {
					buf.WriteByte(',')
				}
			}
			encodeValue(buf, elem, legacy, false)
		}
		buf.WriteByte(']')
	case map[string]any:
		buf.WriteByte('{')
		keys := sortedKeys(val)
		for i, k := range keys {
			if i > 0 {
				if legacy {
					buf.WriteString(", ")
				} else {
					buf.WriteByte(',')
				}
			}
			encodeString(buf, k)
			if legacy {
				buf.WriteString(": ")
			} else {
				buf.WriteByte(':')
			}
			encodeValue(buf, val[k], legacy, false)
		}
		buf.WriteByte('}')
	default:
		// Unreachable for values produced by Decode; fall back to
		// stdlib marshaling for robustness.
		b, _ := json.Marshal(val)
		buf.Write(b)
	}
}

func encodeString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
