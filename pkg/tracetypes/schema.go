// Package tracetypes holds the data model shared by the schema catalog,
// key catalog, detector, and extractor: schema definitions, field
// extraction rules, and the parsed trace/component shapes they operate
// over.
package tracetypes

// SchemaStatus is the lifecycle status of a schema version.
type SchemaStatus string

// Lifecycle statuses, in priority order (current beats supported beats
// deprecated beats anything else).
const (
	StatusCurrent    SchemaStatus = "current"
	StatusSupported  SchemaStatus = "supported"
	StatusDeprecated SchemaStatus = "deprecated"
)

// StatusPriority returns the tiebreak priority for a status: lower sorts
// first. Unknown statuses sort last (priority 3).
func StatusPriority(s SchemaStatus) int {
	switch s {
	case StatusCurrent:
		return 0
	case StatusSupported:
		return 1
	case StatusDeprecated:
		return 2
	default:
		return 3
	}
}

// MatchMode controls how a schema's signature event set is matched
// against a trace's observed event types.
type MatchMode string

const (
	// MatchAll requires every signature event to be present.
	MatchAll MatchMode = "all"
	// MatchAny requires at least one signature event to be present.
	// Reserved for the connectivity schema.
	MatchAny MatchMode = "any"
)

// ConnectivityVersion is the schema version name reserved for
// connectivity traces.
const ConnectivityVersion = "connectivity"

// DataType is the coercion target for an extracted field.
type DataType string

const (
	DataTypeString    DataType = "string"
	DataTypeFloat     DataType = "float"
	DataTypeInt       DataType = "int"
	DataTypeBoolean   DataType = "boolean"
	DataTypeJSON      DataType = "json"
	DataTypeTimestamp DataType = "timestamp"
)

// FieldRule is one row of a schema's per-event extraction rules.
type FieldRule struct {
	FieldName string
	JSONPath  string
	DataType  DataType
	Required  bool
	DBColumn  string
}

// SchemaDefinition is one version of the schema catalog.
type SchemaDefinition struct {
	Version           string
	Description       string
	Status            SchemaStatus
	SignatureEvents   []string
	MatchMode         MatchMode
	SpecialHandling   bool
	FieldRulesByEvent map[string][]FieldRule
}

// Matches reports whether the given set of observed event types
// satisfies this schema's signature event set under its match mode. A
// schema's signature event set is never empty, so MatchAny against an
// empty observed set is always false.
func (d SchemaDefinition) Matches(observed map[string]bool) bool {
	if len(d.SignatureEvents) == 0 {
		return false
	}
	switch d.MatchMode {
	case MatchAny:
		for _, ev := range d.SignatureEvents {
			if observed[ev] {
				return true
			}
		}
		return false
	default: // MatchAll
		for _, ev := range d.SignatureEvents {
			if !observed[ev] {
				return false
			}
		}
		return true
	}
}

// IsConnectivity reports whether this schema is the special-cased
// connectivity schema.
func (d SchemaDefinition) IsConnectivity() bool {
	return d.SpecialHandling
}
