package pipeline

import "github.com/CIRISAI/ciris-trace-core/internal/canonical"

// canonicalDecode re-decodes raw trace JSON preserving number literals,
// for signature verification (internal/canonical.Decode already does
// this; this wrapper exists so pipeline.go reads top-to-bottom without
// an extra import alias).
func canonicalDecode(raw string) (any, error) {
	return canonical.Decode([]byte(raw))
}

// componentsAndLevel pulls the "components" and "trace_level" fields
// out of a number-preserving decoded trace object, defaulting
// trace_level to "debug" when absent.
func componentsAndLevel(decoded any) (components any, traceLevel any) {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, "debug"
	}
	components = obj["components"]
	if tl, ok := obj["trace_level"]; ok {
		traceLevel = tl
	} else {
		traceLevel = "debug"
	}
	return components, traceLevel
}
