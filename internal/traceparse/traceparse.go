// Package traceparse turns a raw JSON trace string into the
// tracetypes.Trace shape the rest of the pipeline operates on.
//
// It uses goccy/go-json rather than encoding/json: traces are decoded on
// every batch's hot path and goccy's decoder is a drop-in faster
// replacement (ground: kaptinlin-jsonschema, which decodes schema
// documents the same way).
package traceparse

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/CIRISAI/ciris-trace-core/pkg/tracecoreerrors"
	"github.com/CIRISAI/ciris-trace-core/pkg/tracetypes"
)

// Parse decodes raw into a tracetypes.Trace. It never partially accepts
// malformed JSON: any decode failure returns tracecoreerrors.ErrParse
// wrapped with the underlying reason.
func Parse(raw string) (tracetypes.Trace, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return tracetypes.Trace{}, fmt.Errorf("%w: %s", tracecoreerrors.ErrParse, err)
	}

	t := tracetypes.Trace{
		TraceID: tracetypes.UnknownTraceID,
		Raw:     obj,
		RawJSON: raw,
	}

	if id, ok := obj["trace_id"].(string); ok && id != "" {
		t.TraceID = id
	}
	if et, ok := obj["event_type"].(string); ok {
		t.EventType = et
	}
	if sig, ok := obj["signature"].(string); ok {
		t.Signature = sig
	}
	if kid, ok := obj["signature_key_id"].(string); ok {
		t.SignatureKeyID = kid
	}

	if rawComponents, ok := obj["components"].([]any); ok {
		t.Components = make([]tracetypes.Component, 0, len(rawComponents))
		for _, rc := range rawComponents {
			comp, ok := rc.(map[string]any)
			if !ok {
				continue
			}
			t.Components = append(t.Components, parseComponent(comp))
		}
	}

	return t, nil
}

func parseComponent(comp map[string]any) tracetypes.Component {
	c := tracetypes.Component{}
	if et, ok := comp["event_type"].(string); ok {
		c.EventType = et
	}
	if data, ok := comp["data"].(map[string]any); ok {
		c.Data = data
	} else {
		// No "data" key: the component itself is its own data.
		c.Data = comp
	}
	return c
}
