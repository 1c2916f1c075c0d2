package tracetypes

// UnknownTraceID is substituted for trace_id when a trace omits it.
const UnknownTraceID = "unknown"

// Component is one event within a trace: an event type and its data
// object. If a parsed component carries no "data" key, the component's
// own JSON object is treated as its data.
type Component struct {
	EventType string
	Data      map[string]any
}

// Trace is a single parsed trace, prior to schema detection.
type Trace struct {
	TraceID        string
	Components     []Component
	EventType      string // top-level event_type, used only for connectivity traces
	Signature      string
	SignatureKeyID string

	// Raw is the full decoded trace object, used for the threat scanner,
	// the PII scrubber, and the connectivity extraction path's
	// full-JSON copies.
	Raw map[string]any

	// RawJSON is the original, unparsed trace string. The canonical
	// encoder re-decodes it with number-literal preservation (so
	// signatures verify bit-exact against however the signer formatted
	// numbers) rather than using Raw, whose numbers have already been
	// normalized to float64 by the fast decoder.
	RawJSON string
}

// EventTypeSet returns the union of event types across all components
// plus the top-level EventType if present, for schema detection.
func (t Trace) EventTypeSet() map[string]bool {
	set := make(map[string]bool, len(t.Components)+1)
	for _, c := range t.Components {
		if c.EventType != "" {
			set[c.EventType] = true
		}
	}
	if t.EventType != "" {
		set[t.EventType] = true
	}
	return set
}
