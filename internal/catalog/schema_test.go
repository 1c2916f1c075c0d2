package catalog

import (
	"testing"

	"github.com/CIRISAI/ciris-trace-core/pkg/tracetypes"
)

func sampleSchemas() []SchemaTuple {
	return []SchemaTuple{
		{
			Version:         "connectivity",
			Status:          "current",
			SignatureEvents: []string{"startup", "shutdown"},
			MatchMode:       tracetypes.MatchAny,
			SpecialHandling: true,
		},
		{
			Version:         "1.9.3",
			Status:          tracetypes.StatusCurrent,
			SignatureEvents: []string{"thought", "action"},
			MatchMode:       tracetypes.MatchAll,
		},
		{
			Version:         "1.0.0",
			Status:          tracetypes.StatusDeprecated,
			SignatureEvents: []string{"thought"},
			MatchMode:       tracetypes.MatchAll,
		},
	}
}

func TestSchemaCatalog_DetectSchemaVersion(t *testing.T) {
	c := NewSchemaCatalog()
	c.Load(sampleSchemas(), nil)

	def, ok := c.DetectSchemaVersion(map[string]bool{"thought": true, "action": true})
	if !ok || def.Version != "1.9.3" {
		t.Fatalf("expected 1.9.3, got %+v ok=%v", def, ok)
	}

	def, ok = c.DetectSchemaVersion(map[string]bool{"startup": true})
	if !ok || def.Version != "connectivity" {
		t.Fatalf("expected connectivity, got %+v ok=%v", def, ok)
	}

	_, ok = c.DetectSchemaVersion(map[string]bool{"nonsense": true})
	if ok {
		t.Fatal("expected no match")
	}
}

func TestSchemaCatalog_PriorityOrdering(t *testing.T) {
	c := NewSchemaCatalog()
	c.Load(sampleSchemas(), nil)

	list := c.PriorityList()
	if len(list) != 3 {
		t.Fatalf("expected 3 schemas, got %d", len(list))
	}
	// Both "connectivity" and "1.9.3" are status=current; tiebreak is
	// lexicographic by version, so "1.9.3" sorts before "connectivity".
	if list[0].Version != "1.9.3" {
		t.Errorf("expected 1.9.3 first, got %s", list[0].Version)
	}
	if list[len(list)-1].Version != "1.0.0" {
		t.Errorf("expected deprecated 1.0.0 last, got %s", list[len(list)-1].Version)
	}
}

func TestSchemaCatalog_FieldRules(t *testing.T) {
	c := NewSchemaCatalog()
	c.Load(sampleSchemas(), []FieldTuple{
		{
			SchemaVersion: "1.9.3",
			EventType:     "thought",
			Rule:          tracetypes.FieldRule{FieldName: "models", JSONPath: "models_used", DataType: tracetypes.DataTypeString, DBColumn: "models_used"},
		},
	})

	rules := c.GetFieldRules("1.9.3", "thought")
	if len(rules) != 1 || rules[0].DBColumn != "models_used" {
		t.Fatalf("unexpected rules: %+v", rules)
	}

	if got := c.GetFieldRules("1.9.3", "missing-event"); len(got) != 0 {
		t.Fatalf("expected no rules, got %+v", got)
	}
}

func TestSchemaCatalog_NotLoadedNeedsRefresh(t *testing.T) {
	c := NewSchemaCatalog()
	if !c.NeedsRefresh() {
		t.Fatal("unloaded catalog must need refresh")
	}
	if c.Loaded() {
		t.Fatal("unloaded catalog must report Loaded()==false")
	}

	c.Load(sampleSchemas(), nil)
	if c.NeedsRefresh() {
		t.Fatal("freshly loaded catalog should not need refresh")
	}

	c.Clear()
	if c.Loaded() {
		t.Fatal("cleared catalog must report Loaded()==false")
	}
}
