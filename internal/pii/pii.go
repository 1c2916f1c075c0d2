// Package pii implements the regex-based PII scrubber that runs only at
// the strictest privacy tier (full_traces), over a fixed allow-list of
// sensitive field names.
//
// Ground: the allow-list/scan-or-recurse shape follows
// marcohefti-zero-context-lab's internal/redact (a minimal, bounded,
// default-safe regex redactor) generalized from its two hardcoded
// patterns to a larger fixed set of field names; the abstract-category
// / evidence hash discipline in quantumlife-canon-core's
// internal/receiptscan informed keeping the scrubber non-destructive of
// structure — it produces a new value and never mutates in place.
package pii

import (
	"regexp"
)

// SensitiveFields is the strict allow-list of field names whose
// subtrees are scanned for PII at the full_traces tier. Adding a new
// sensitive field is a single-line change here.
var SensitiveFields = map[string]bool{
	"task_description":     true,
	"contexts":             true,
	"memories":             true,
	"conversation_history": true,
	"reasoning":            true,
	"prompt_used":          true,
	"action_rationale":     true,
	"parameters":           true,
	"thought_content":      true,
	"user_message":         true,
	"agent_response":       true,
	"system_prompt":        true,
	"tool_input":           true,
	"tool_output":          true,
	"error_message":        true,
	"feedback":             true,
	"notes":                true,
	"observations":         true,
	"rationale":            true,
	"input_data":           true,
	"output_data":          true,
}

// Kind identifies one of the six PII patterns, in the order they apply.
type Kind string

const (
	KindEmail      Kind = "email"
	KindPhone      Kind = "phone"
	KindIPAddress  Kind = "ip_address"
	KindURL        Kind = "url"
	KindSSN        Kind = "ssn"
	KindCreditCard Kind = "credit_card"
)

// order is the fixed application order: each pattern runs over the
// string as already partially scrubbed by the previous one.
var order = []struct {
	kind        Kind
	re          *regexp.Regexp
	placeholder string
}{
	{KindEmail, regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`), "[EMAIL]"},
	{KindPhone, regexp.MustCompile(`(?:\+1[\s.\-]?)?\(?\d{3}\)?[\s.\-]\d{3}[\s.\-]\d{4}\b`), "[PHONE]"},
	{KindIPAddress, regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), "[IP_ADDRESS]"},
	{KindURL, regexp.MustCompile(`(?i)https?://[^\s"'<>]+`), "[URL]"},
	{KindSSN, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[SSN]"},
	{KindCreditCard, regexp.MustCompile(`\b\d{4}[\s\-]?\d{4}[\s\-]?\d{4}[\s\-]?\d{4}\b`), "[CREDIT_CARD]"},
}

// Counters reports how many replacements of each kind were made, plus
// how many fields (string leaves) were modified at all.
type Counters struct {
	Counts         map[Kind]int
	FieldsModified int
}

func newCounters() *Counters {
	return &Counters{Counts: make(map[Kind]int, len(order))}
}

// ScrubString applies every pattern in order to s and returns the
// redacted string plus whether anything changed.
func ScrubString(s string, c *Counters) (string, bool) {
	out := s
	changed := false
	for _, p := range order {
		matches := p.re.FindAllStringIndex(out, -1)
		if len(matches) == 0 {
			continue
		}
		out = p.re.ReplaceAllString(out, p.placeholder)
		c.Counts[p.kind] += len(matches)
		changed = true
	}
	return out, changed
}

// Scrub walks trace, redacting strings found under sensitive field
// names, and returns a new value (the input is never mutated) plus
// telemetry counters.
func Scrub(v any) (any, Counters) {
	c := newCounters()
	out := scrubRecurse(v, false, c)
	return out, *c
}

func scrubRecurse(v any, inSensitiveSubtree bool, c *Counters) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			scanThis := inSensitiveSubtree || SensitiveFields[k]
			out[k] = scrubRecurse(child, scanThis, c)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = scrubRecurse(child, inSensitiveSubtree, c)
		}
		return out
	case string:
		if !inSensitiveSubtree {
			return val
		}
		redacted, changed := ScrubString(val, c)
		if changed {
			c.FieldsModified++
		}
		return redacted
	default:
		// Non-string leaves are never rewritten.
		return val
	}
}
