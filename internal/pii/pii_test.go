package pii

import (
	"strings"
	"testing"
)

func TestScrub_OnlyScansSensitiveSubtrees(t *testing.T) {
	trace := map[string]any{
		"task_description": "Contact john@example.com and call 555-123-4567",
		"unrelated_field":  "Contact john@example.com too",
	}

	scrubbed, counters := Scrub(trace)
	out := scrubbed.(map[string]any)

	got := out["task_description"].(string)
	if got == trace["task_description"] {
		t.Fatal("expected task_description to be redacted")
	}
	for _, bad := range []string{"john@example.com", "555-123-4567"} {
		if strings.Contains(got, bad) {
			t.Errorf("redacted string still contains %q: %q", bad, got)
		}
	}

	unrelated := out["unrelated_field"].(string)
	if unrelated != trace["unrelated_field"] {
		t.Errorf("non-sensitive field should be untouched, got %q", unrelated)
	}

	if counters.Counts[KindEmail] != 1 {
		t.Errorf("expected 1 email match, got %d", counters.Counts[KindEmail])
	}
	if counters.Counts[KindPhone] != 1 {
		t.Errorf("expected 1 phone match, got %d", counters.Counts[KindPhone])
	}
	if counters.FieldsModified != 1 {
		t.Errorf("expected 1 field modified, got %d", counters.FieldsModified)
	}
}

func TestScrub_NestedSensitiveSubtreeScansEverything(t *testing.T) {
	trace := map[string]any{
		"memories": map[string]any{
			"entries": []any{
				"my SSN is 123-45-6789",
				map[string]any{"note": "card 4111 1111 1111 1111"},
			},
		},
	}

	scrubbed, counters := Scrub(trace)
	out := scrubbed.(map[string]any)
	entries := out["memories"].(map[string]any)["entries"].([]any)

	if strings.Contains(entries[0].(string), "123-45-6789") {
		t.Error("SSN not redacted in nested array element")
	}
	nested := entries[1].(map[string]any)["note"].(string)
	if strings.Contains(nested, "4111") {
		t.Error("credit card not redacted in deeply nested field")
	}
	if counters.Counts[KindSSN] != 1 || counters.Counts[KindCreditCard] != 1 {
		t.Errorf("unexpected counters: %+v", counters)
	}
}

func TestScrub_Idempotent(t *testing.T) {
	trace := map[string]any{
		"task_description": "Contact john@example.com and call 555-123-4567, IP 10.0.0.1, https://example.com, SSN 123-45-6789, card 4111 1111 1111 1111",
	}

	once, _ := Scrub(trace)
	twice, _ := Scrub(once)

	o := once.(map[string]any)["task_description"]
	tw := twice.(map[string]any)["task_description"]
	if o != tw {
		t.Fatalf("scrubbing a scrubbed trace changed it: %q -> %q", o, tw)
	}
}

func TestScrub_NonStringLeavesNeverRewritten(t *testing.T) {
	trace := map[string]any{
		"parameters": map[string]any{
			"count": float64(42),
			"flag":  true,
			"empty": nil,
		},
	}
	scrubbed, _ := Scrub(trace)
	params := scrubbed.(map[string]any)["parameters"].(map[string]any)
	if params["count"] != float64(42) || params["flag"] != true || params["empty"] != nil {
		t.Errorf("non-string leaves were rewritten: %+v", params)
	}
}
