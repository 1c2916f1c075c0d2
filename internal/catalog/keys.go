package catalog

import (
	"crypto/ed25519"
	"fmt"
	"sync"
	"time"

	"github.com/CIRISAI/ciris-trace-core/internal/verify"
)

// DefaultKeyTTL is the default freshness window for the key catalog.
const DefaultKeyTTL = 5 * time.Minute

// KeyTuple is one row of the bulk-load key surface: (key_id,
// public_key_base64).
type KeyTuple struct {
	KeyID           string
	PublicKeyBase64 string
}

type keySnapshot struct {
	byID     map[string]ed25519.PublicKey
	loaded   bool
	loadedAt time.Time
}

var emptyKeySnapshot = &keySnapshot{byID: map[string]ed25519.PublicKey{}}

// KeyCatalog is the in-memory, refresh-aware store of Ed25519 public
// keys keyed by id.
type KeyCatalog struct {
	mu  sync.RWMutex
	ttl time.Duration
	cur *keySnapshot
}

// NewKeyCatalog returns an empty, unloaded key catalog.
func NewKeyCatalog() *KeyCatalog {
	return &KeyCatalog{ttl: DefaultKeyTTL, cur: emptyKeySnapshot}
}

// Load atomically replaces the catalog's key material. Per-key decode
// failures are collected and returned without aborting the load of the
// remaining keys: the caller decides whether the resulting cache is
// usable.
func (c *KeyCatalog) Load(keys []KeyTuple) []error {
	byID := make(map[string]ed25519.PublicKey, len(keys))
	var errs []error
	for _, k := range keys {
		pub, err := verify.DecodePublicKey(k.PublicKeyBase64)
		if err != nil {
			errs = append(errs, fmt.Errorf("key %q: %w", k.KeyID, err))
			continue
		}
		byID[k.KeyID] = pub
	}

	snap := &keySnapshot{byID: byID, loaded: true, loadedAt: time.Now()}

	c.mu.Lock()
	c.cur = snap
	c.mu.Unlock()

	return errs
}

// Clear destroys the catalog's contents.
func (c *KeyCatalog) Clear() {
	c.mu.Lock()
	c.cur = emptyKeySnapshot
	c.mu.Unlock()
}

func (c *KeyCatalog) snapshot() *keySnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cur
}

// Loaded reports whether Load has been called since the last Clear.
func (c *KeyCatalog) Loaded() bool {
	return c.snapshot().loaded
}

// Get returns the public key for id, if present.
func (c *KeyCatalog) Get(id string) (ed25519.PublicKey, bool) {
	snap := c.snapshot()
	pub, ok := snap.byID[id]
	return pub, ok
}

// Empty reports whether no key material is loaded at all — the
// "operator mode" condition signature verification treats specially.
func (c *KeyCatalog) Empty() bool {
	snap := c.snapshot()
	return len(snap.byID) == 0
}

// KeyCount returns the number of loaded keys.
func (c *KeyCatalog) KeyCount() int {
	return len(c.snapshot().byID)
}

// NeedsRefresh reports whether the snapshot's age exceeds the
// configured TTL, or the catalog has never been loaded.
func (c *KeyCatalog) NeedsRefresh() bool {
	snap := c.snapshot()
	if !snap.loaded {
		return true
	}
	return time.Since(snap.loadedAt) > c.ttl
}

// CacheAgeSecs returns how many seconds have elapsed since the last
// load, or -1 if never loaded.
func (c *KeyCatalog) CacheAgeSecs() float64 {
	snap := c.snapshot()
	if !snap.loaded {
		return -1
	}
	return time.Since(snap.loadedAt).Seconds()
}

// SetTTL overrides the default TTL, primarily for tests.
func (c *KeyCatalog) SetTTL(ttl time.Duration) {
	c.mu.Lock()
	c.ttl = ttl
	c.mu.Unlock()
}
