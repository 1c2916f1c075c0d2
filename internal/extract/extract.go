// Package extract drives the JSON path resolver with the schema
// catalog's field rules to project a trace's components into the flat
// per-trace key/value record the router and caller consume.
package extract

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/CIRISAI/ciris-trace-core/internal/jsonpath"
	"github.com/CIRISAI/ciris-trace-core/pkg/tracetypes"
)

// FullJSONEventTypes is the fixed set of event types whose full,
// serialized data is stored under a canonical key when no rule already
// populated that key.
var FullJSONEventTypes = map[string]bool{
	"DMA_RESULTS":       true,
	"ASPDMA_RESULT":     true,
	"IDMA_RESULT":       true,
	"TSASPDMA_RESULT":   true,
	"CONSCIENCE_RESULT": true,
	"ACTION_RESULT":     true,
}

// CanonicalKey returns the db_column used for a full-JSON fallback copy
// of an event type's data: the event type lowercased.
func CanonicalKey(eventType string) string {
	return strings.ToLower(eventType)
}

// GetFieldRules is the subset of *catalog.SchemaCatalog extract needs,
// so it can be driven by any rule source (production catalog, tests, or
// a fixture).
type GetFieldRules interface {
	GetFieldRules(version, eventType string) []tracetypes.FieldRule
}

// Components extracts output[db_column] fields from trace's components
// at schemaVersion, using rules. Last component wins on db_column
// collision. Required-but-missing fields are logged as warnings via
// log, never fail the trace.
func Components(rules GetFieldRules, schemaVersion string, components []tracetypes.Component, log *slog.Logger) map[string]string {
	if log == nil {
		log = slog.Default()
	}
	output := make(map[string]string)

	for _, comp := range components {
		fieldRules := rules.GetFieldRules(schemaVersion, comp.EventType)
		for _, rule := range fieldRules {
			value, ok := jsonpath.Resolve(anyData(comp.Data), rule.JSONPath)
			if !ok {
				if rule.Required {
					log.Warn("required field missing",
						"event_type", comp.EventType,
						"field", rule.FieldName,
						"json_path", rule.JSONPath,
						"schema_version", schemaVersion,
					)
				}
				continue
			}
			output[rule.DBColumn] = coerce(value, rule.DataType)
		}

		if FullJSONEventTypes[comp.EventType] {
			key := CanonicalKey(comp.EventType)
			if _, exists := output[key]; !exists {
				if j, err := jsonpath.CoerceJSON(anyData(comp.Data)); err == nil {
					output[key] = j
				}
			}
		}
	}

	return output
}

// Connectivity populates the connectivity-trace output shape from
// top-level trace fields.
func Connectivity(trace tracetypes.Trace) map[string]string {
	output := make(map[string]string)

	output["event_type"] = stringField(trace.Raw, "event_type")
	output["agent_name"] = stringField(trace.Raw, "agent_name")
	output["agent_id"] = stringField(trace.Raw, "agent_id")
	output["agent_id_hash"] = stringField(trace.Raw, "agent_id_hash")

	if j, err := jsonpath.CoerceJSON(anyData(trace.Raw)); err == nil {
		output["event_data"] = j
	}

	if trace.TraceID != "" {
		output["trace_id"] = trace.TraceID
	}

	return output
}

func stringField(obj map[string]any, key string) string {
	if v, ok := obj[key]; ok {
		return jsonpath.CoerceString(v)
	}
	return ""
}

func anyData(m map[string]any) any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func coerce(v any, dt tracetypes.DataType) string {
	switch dt {
	case tracetypes.DataTypeFloat:
		f, ok := jsonpath.CoerceFloat(v)
		if !ok {
			return ""
		}
		return jsonpath.CoerceString(f)
	case tracetypes.DataTypeInt:
		i, ok := jsonpath.CoerceInt(v)
		if !ok {
			return ""
		}
		return strconv.FormatInt(i, 10)
	case tracetypes.DataTypeBoolean:
		b, ok := jsonpath.CoerceBool(v)
		if !ok {
			return ""
		}
		if b {
			return "true"
		}
		return "false"
	case tracetypes.DataTypeJSON:
		j, err := jsonpath.CoerceJSON(v)
		if err != nil {
			return ""
		}
		return j
	case tracetypes.DataTypeTimestamp:
		return jsonpath.CoerceString(v)
	default: // string
		return jsonpath.CoerceString(v)
	}
}
