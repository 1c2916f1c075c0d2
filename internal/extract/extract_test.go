package extract

import (
	"testing"

	"github.com/CIRISAI/ciris-trace-core/internal/catalog"
	"github.com/CIRISAI/ciris-trace-core/pkg/tracetypes"
)

func TestComponents_LastWriterWinsOnCollision(t *testing.T) {
	cat := catalog.NewSchemaCatalog()
	cat.Load([]catalog.SchemaTuple{
		{Version: "1.0", Status: tracetypes.StatusCurrent, SignatureEvents: []string{"thought"}, MatchMode: tracetypes.MatchAll},
	}, []catalog.FieldTuple{
		{SchemaVersion: "1.0", EventType: "thought", Rule: tracetypes.FieldRule{FieldName: "models", JSONPath: "models_used", DataType: tracetypes.DataTypeString, DBColumn: "models_used"}},
	})

	components := []tracetypes.Component{
		{EventType: "thought", Data: map[string]any{"models_used": "first"}},
		{EventType: "thought", Data: map[string]any{"models_used": "second"}},
	}

	out := Components(cat, "1.0", components, nil)
	if out["models_used"] != "second" {
		t.Fatalf("expected last writer to win, got %q", out["models_used"])
	}
}

func TestComponents_RequiredMissingDoesNotFail(t *testing.T) {
	cat := catalog.NewSchemaCatalog()
	cat.Load([]catalog.SchemaTuple{
		{Version: "1.0", Status: tracetypes.StatusCurrent, SignatureEvents: []string{"thought"}, MatchMode: tracetypes.MatchAll},
	}, []catalog.FieldTuple{
		{SchemaVersion: "1.0", EventType: "thought", Rule: tracetypes.FieldRule{FieldName: "missing", JSONPath: "nope", DataType: tracetypes.DataTypeString, DBColumn: "nope_col", Required: true}},
	})

	components := []tracetypes.Component{{EventType: "thought", Data: map[string]any{}}}

	out := Components(cat, "1.0", components, nil)
	if _, ok := out["nope_col"]; ok {
		t.Fatalf("missing required field must not appear in output: %+v", out)
	}
}

func TestComponents_FullJSONFallback(t *testing.T) {
	cat := catalog.NewSchemaCatalog()
	cat.Load(nil, nil)

	components := []tracetypes.Component{
		{EventType: "DMA_RESULTS", Data: map[string]any{"a": "b"}},
	}
	out := Components(cat, "1.0", components, nil)
	if out["dma_results"] == "" {
		t.Fatalf("expected full-JSON fallback under canonical key, got %+v", out)
	}
}

func TestComponents_FullJSONFallbackSkippedWhenRuleAlreadyPopulated(t *testing.T) {
	cat := catalog.NewSchemaCatalog()
	cat.Load([]catalog.SchemaTuple{
		{Version: "1.0", Status: tracetypes.StatusCurrent, SignatureEvents: []string{"DMA_RESULTS"}, MatchMode: tracetypes.MatchAll},
	}, []catalog.FieldTuple{
		{SchemaVersion: "1.0", EventType: "DMA_RESULTS", Rule: tracetypes.FieldRule{FieldName: "x", JSONPath: "x", DataType: tracetypes.DataTypeString, DBColumn: "dma_results"}},
	})

	components := []tracetypes.Component{
		{EventType: "DMA_RESULTS", Data: map[string]any{"x": "rule-value"}},
	}
	out := Components(cat, "1.0", components, nil)
	if out["dma_results"] != "rule-value" {
		t.Fatalf("rule output should take precedence over full-JSON fallback, got %q", out["dma_results"])
	}
}

func TestConnectivity_PopulatesFromTopLevel(t *testing.T) {
	trace := tracetypes.Trace{
		TraceID: "t1",
		Raw: map[string]any{
			"trace_id":   "t1",
			"event_type": "startup",
			"agent_name": "agent-a",
		},
	}
	out := Connectivity(trace)
	if out["event_type"] != "startup" || out["agent_name"] != "agent-a" || out["trace_id"] != "t1" {
		t.Fatalf("unexpected connectivity output: %+v", out)
	}
	if out["event_data"] == "" {
		t.Fatal("expected event_data to carry full trace JSON")
	}
}
