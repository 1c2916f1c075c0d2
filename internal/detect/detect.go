// Package detect maps a trace's observed event types to a schema
// version using the schema catalog's priority order.
package detect

import (
	"github.com/CIRISAI/ciris-trace-core/internal/catalog"
	"github.com/CIRISAI/ciris-trace-core/pkg/tracetypes"
)

// UnknownVersion is the schema version reported in degraded mode, when
// the catalog has never been loaded.
const UnknownVersion = "unknown"

// Result is the outcome of schema detection for one trace.
type Result struct {
	Valid   bool
	Version string
	Reason  string
	Schema  tracetypes.SchemaDefinition // zero value when Version == UnknownVersion
}

// Detect runs schema detection for the given event set against cat.
func Detect(cat *catalog.SchemaCatalog, eventTypes map[string]bool) Result {
	if !cat.Loaded() {
		return Result{Valid: true, Version: UnknownVersion}
	}

	def, ok := cat.DetectSchemaVersion(eventTypes)
	if !ok {
		return Result{Valid: false, Reason: "no schema matched event set"}
	}
	return Result{Valid: true, Version: def.Version, Schema: def}
}
