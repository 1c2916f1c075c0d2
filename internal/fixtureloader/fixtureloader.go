// Package fixtureloader reads schema and key definitions from a YAML
// (or JSON, by extension) document and calls into internal/catalog's
// existing Load methods with the tuple shapes the catalog surface
// already defines. A production deployment's durable catalog store is
// an external collaborator this package doesn't implement; fixtureloader
// exists for local operation, the CLI harness, and tests.
//
// Ground: marcohefti-zero-context-lab's internal/suite.ParseFile and
// internal/config (YAML-vs-JSON dispatch by file extension, using
// gopkg.in/yaml.v3) and internal/campaign/spec.go.
package fixtureloader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/CIRISAI/ciris-trace-core/internal/catalog"
	"github.com/CIRISAI/ciris-trace-core/pkg/tracetypes"
)

// SchemaFieldFixture is one field-extraction rule row in a schema
// fixture document.
type SchemaFieldFixture struct {
	FieldName string `yaml:"field_name" json:"field_name"`
	JSONPath  string `yaml:"json_path" json:"json_path"`
	DataType  string `yaml:"data_type" json:"data_type"`
	Required  bool   `yaml:"required" json:"required"`
	DBColumn  string `yaml:"db_column" json:"db_column"`
}

// SchemaEventFixture groups field rules under the event type they
// extract from.
type SchemaEventFixture struct {
	EventType string               `yaml:"event_type" json:"event_type"`
	Fields    []SchemaFieldFixture `yaml:"fields" json:"fields"`
}

// SchemaFixture is one schema version's fixture row.
type SchemaFixture struct {
	Version         string               `yaml:"version" json:"version"`
	Description     string               `yaml:"description" json:"description"`
	Status          string               `yaml:"status" json:"status"`
	SignatureEvents []string             `yaml:"signature_events" json:"signature_events"`
	MatchMode       string               `yaml:"match_mode" json:"match_mode"`
	SpecialHandling bool                 `yaml:"special_handling" json:"special_handling"`
	Events          []SchemaEventFixture `yaml:"events" json:"events"`
}

// KeyFixture is one key catalog row.
type KeyFixture struct {
	KeyID     string `yaml:"key_id" json:"key_id"`
	PublicKey string `yaml:"public_key" json:"public_key"`
}

// Document is the top-level fixture shape: a list of schema versions
// and a list of keys, loadable in one call.
type Document struct {
	Schemas []SchemaFixture `yaml:"schemas" json:"schemas"`
	Keys    []KeyFixture    `yaml:"keys" json:"keys"`
}

// ParseFile reads and parses a fixture document, dispatching on file
// extension between YAML and JSON.
func ParseFile(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read fixture %s: %w", path, err)
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return Document{}, fmt.Errorf("invalid fixture yaml %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			// yaml.v3 also accepts well-formed JSON (a strict subset of
			// YAML 1.2 flow-style), so a single unmarshal path covers
			// both without pulling in a second decoder.
			return Document{}, fmt.Errorf("invalid fixture json %s: %w", path, err)
		}
	}
	return doc, nil
}

// LoadInto loads doc's schemas and keys into the given catalogs,
// returning any per-key decode errors collected during the key load —
// the schema load itself cannot partially fail since it has no
// key-material decode step.
func LoadInto(doc Document, schemas *catalog.SchemaCatalog, keys *catalog.KeyCatalog) []error {
	var schemaTuples []catalog.SchemaTuple
	var fieldTuples []catalog.FieldTuple

	for _, s := range doc.Schemas {
		schemaTuples = append(schemaTuples, catalog.SchemaTuple{
			Version:         s.Version,
			Description:     s.Description,
			Status:          tracetypes.SchemaStatus(s.Status),
			SignatureEvents: s.SignatureEvents,
			MatchMode:       tracetypes.MatchMode(s.MatchMode),
			SpecialHandling: s.SpecialHandling,
		})
		for _, ev := range s.Events {
			for _, f := range ev.Fields {
				fieldTuples = append(fieldTuples, catalog.FieldTuple{
					SchemaVersion: s.Version,
					EventType:     ev.EventType,
					Rule: tracetypes.FieldRule{
						FieldName: f.FieldName,
						JSONPath:  f.JSONPath,
						DataType:  tracetypes.DataType(f.DataType),
						Required:  f.Required,
						DBColumn:  f.DBColumn,
					},
				})
			}
		}
	}
	schemas.Load(schemaTuples, fieldTuples)

	var keyTuples []catalog.KeyTuple
	for _, k := range doc.Keys {
		keyTuples = append(keyTuples, catalog.KeyTuple{KeyID: k.KeyID, PublicKeyBase64: k.PublicKey})
	}
	return keys.Load(keyTuples)
}
