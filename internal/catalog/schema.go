// Package catalog implements the two read-mostly, refresh-aware caches
// the pipeline consumes: the schema catalog and the key catalog. Both
// follow the same shape: an immutable snapshot value, swapped
// atomically on Load/Clear, read under an RWMutex so a
// concurrent refresh never interleaves partial state with a reader
// mid-trace.
//
// Ground: quantumlife-canon-core's internal/persist (sync.RWMutex
// guarding lazily-loaded key material) and pkg/errors (sentinel error
// style); the snapshot-swap design favors one pointer swap over taking
// a reader/writer lock per field.
package catalog

import (
	"sort"
	"sync"
	"time"

	"github.com/CIRISAI/ciris-trace-core/pkg/tracetypes"
)

// DefaultSchemaTTL is the default time a schema snapshot is considered
// fresh before NeedsRefresh reports true.
const DefaultSchemaTTL = 5 * time.Minute

// schemaSnapshot is the immutable value swapped by Load/Clear.
type schemaSnapshot struct {
	byVersion map[string]tracetypes.SchemaDefinition
	priority  []tracetypes.SchemaDefinition // sorted by status priority, then version
	loaded    bool
	loadedAt  time.Time
}

var emptySchemaSnapshot = &schemaSnapshot{byVersion: map[string]tracetypes.SchemaDefinition{}}

// SchemaCatalog is the in-memory, refresh-aware store of schema versions.
type SchemaCatalog struct {
	mu  sync.RWMutex
	ttl time.Duration
	cur *schemaSnapshot
}

// NewSchemaCatalog returns an empty, unloaded catalog with the default
// TTL.
func NewSchemaCatalog() *SchemaCatalog {
	return &SchemaCatalog{ttl: DefaultSchemaTTL, cur: emptySchemaSnapshot}
}

// SchemaTuple is one row of the bulk-load catalog surface: (version,
// description, status, signature_events[]).
type SchemaTuple struct {
	Version         string
	Description     string
	Status          tracetypes.SchemaStatus
	SignatureEvents []string
	MatchMode       tracetypes.MatchMode
	SpecialHandling bool
}

// FieldTuple is one row of the bulk-load field-rule surface:
// (schema_version, event_type, field_name, json_path, data_type,
// required, db_column).
type FieldTuple struct {
	SchemaVersion string
	EventType     string
	Rule          tracetypes.FieldRule
}

// Load atomically replaces the catalog's contents. It never mutates a
// snapshot already handed to a reader: it builds a new snapshot and
// swaps a pointer.
func (c *SchemaCatalog) Load(schemas []SchemaTuple, fields []FieldTuple) {
	byVersion := make(map[string]tracetypes.SchemaDefinition, len(schemas))
	for _, s := range schemas {
		byVersion[s.Version] = tracetypes.SchemaDefinition{
			Version:           s.Version,
			Description:       s.Description,
			Status:            s.Status,
			SignatureEvents:   append([]string(nil), s.SignatureEvents...),
			MatchMode:         s.MatchMode,
			SpecialHandling:   s.SpecialHandling,
			FieldRulesByEvent: map[string][]tracetypes.FieldRule{},
		}
	}
	for _, f := range fields {
		def, ok := byVersion[f.SchemaVersion]
		if !ok {
			continue
		}
		def.FieldRulesByEvent[f.EventType] = append(def.FieldRulesByEvent[f.EventType], f.Rule)
	}

	priority := make([]tracetypes.SchemaDefinition, 0, len(byVersion))
	for _, def := range byVersion {
		priority = append(priority, def)
	}
	sort.Slice(priority, func(i, j int) bool {
		pi, pj := tracetypes.StatusPriority(priority[i].Status), tracetypes.StatusPriority(priority[j].Status)
		if pi != pj {
			return pi < pj
		}
		// Explicit tiebreak: lexicographic by version.
		return priority[i].Version < priority[j].Version
	})

	snap := &schemaSnapshot{
		byVersion: byVersion,
		priority:  priority,
		loaded:    true,
		loadedAt:  time.Now(),
	}

	c.mu.Lock()
	c.cur = snap
	c.mu.Unlock()
}

// Clear destroys the catalog's contents, returning it to the unloaded
// state.
func (c *SchemaCatalog) Clear() {
	c.mu.Lock()
	c.cur = emptySchemaSnapshot
	c.mu.Unlock()
}

// snapshot returns a consistent read of the current snapshot pointer.
// Because schemaSnapshot is never mutated after construction, callers
// can safely read from the returned value without holding the lock.
func (c *SchemaCatalog) snapshot() *schemaSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cur
}

// Loaded reports whether Load has ever been called (and Clear has not
// reset the catalog since).
func (c *SchemaCatalog) Loaded() bool {
	return c.snapshot().loaded
}

// PriorityList returns the schema definitions in detection priority
// order: current, then supported, then deprecated, then anything else,
// tiebroken lexicographically by version.
func (c *SchemaCatalog) PriorityList() []tracetypes.SchemaDefinition {
	snap := c.snapshot()
	out := make([]tracetypes.SchemaDefinition, len(snap.priority))
	copy(out, snap.priority)
	return out
}

// DetectSchemaVersion returns the first schema definition in priority
// order whose signature event set matches observed. It returns (def,
// false) if none match.
func (c *SchemaCatalog) DetectSchemaVersion(observed map[string]bool) (tracetypes.SchemaDefinition, bool) {
	snap := c.snapshot()
	for _, def := range snap.priority {
		if def.Matches(observed) {
			return def, true
		}
	}
	return tracetypes.SchemaDefinition{}, false
}

// GetFieldRules returns the ordered field rules for (version, eventType),
// or an empty slice if none are defined.
func (c *SchemaCatalog) GetFieldRules(version, eventType string) []tracetypes.FieldRule {
	snap := c.snapshot()
	def, ok := snap.byVersion[version]
	if !ok {
		return nil
	}
	return def.FieldRulesByEvent[eventType]
}

// LoadedVersions returns every loaded schema version string, for the
// "loaded_versions" diagnostic.
func (c *SchemaCatalog) LoadedVersions() []string {
	snap := c.snapshot()
	out := make([]string, 0, len(snap.byVersion))
	for v := range snap.byVersion {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// NeedsRefresh reports whether the snapshot's age exceeds the
// configured TTL, or the catalog has never been loaded.
func (c *SchemaCatalog) NeedsRefresh() bool {
	snap := c.snapshot()
	if !snap.loaded {
		return true
	}
	return time.Since(snap.loadedAt) > c.ttl
}

// CacheAgeSecs returns how many seconds have elapsed since the last
// load, or -1 if never loaded.
func (c *SchemaCatalog) CacheAgeSecs() float64 {
	snap := c.snapshot()
	if !snap.loaded {
		return -1
	}
	return time.Since(snap.loadedAt).Seconds()
}

// SetTTL overrides the default TTL, primarily for tests.
func (c *SchemaCatalog) SetTTL(ttl time.Duration) {
	c.mu.Lock()
	c.ttl = ttl
	c.mu.Unlock()
}
