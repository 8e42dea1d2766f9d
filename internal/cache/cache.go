// Package cache is the engine's per-script memo (§3's "Cache"): a
// bounded mapping from "rule-name:fragment-hash" keys to parsed AST
// fragments or prepared sandbox handles, so a rule that re-derives the
// same fragment across passes - or across candidates in one pass -
// doesn't re-parse or re-prepare it. Keyed by a whole-script fingerprint
// (BLAKE2b-256) so loading a new script clears it automatically, and by
// a per-fragment HighwayHash for the entry key itself, both algorithms
// already used elsewhere in the pack for exactly this kind of bounded,
// non-cryptographic identity hashing.
package cache

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/minio/highwayhash"
	"golang.org/x/crypto/blake2b"

	"github.com/nocturnelabs/restringer/internal/ast"
)

// MaxEntries bounds the cache; §5's resource model treats exceeding it
// as licence to flush the whole map rather than track per-entry
// recency.
const MaxEntries = 100

// highwayKey is fixed and non-secret: HighwayHash is used here purely
// for its speed and distribution, not as a MAC.
var highwayKey = make([]byte, 32)

// Entry is the sum type a Cache stores under one key: exactly one of
// Fragment or Sandbox is set, mirroring "the cache holds either a
// parsed AST fragment or a prepared sandbox, store them under a sum
// type." Sandbox is left as interface{} since internal/sandbox is a
// leaf package relative to cache and must not import it back.
type Entry struct {
	Fragment *ast.Tree
	Sandbox  interface{}
}

// Cache is single-thread-owned per §5; nothing here is safe for
// concurrent use from more than one goroutine.
type Cache struct {
	fingerprint [32]byte
	loaded      bool
	entries     map[string]Entry
}

// New returns an empty Cache with no script loaded yet.
func New() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Load fingerprints source and clears every entry if it differs from
// the fingerprint currently held - "cleared when a new script is
// loaded." Loading the same source twice in a row is a no-op.
func (c *Cache) Load(source string) {
	fp := blake2b.Sum256([]byte(source))
	if c.loaded && fp == c.fingerprint {
		return
	}
	c.fingerprint = fp
	c.loaded = true
	c.entries = make(map[string]Entry)
}

// Get looks up the entry a prior Put stored for rule+fragment.
func (c *Cache) Get(rule, fragment string) (Entry, bool) {
	e, ok := c.entries[key(rule, fragment)]
	return e, ok
}

// Put stores e under rule+fragment, flushing the whole cache first if
// it is already at MaxEntries.
func (c *Cache) Put(rule, fragment string, e Entry) {
	if len(c.entries) >= MaxEntries {
		c.entries = make(map[string]Entry)
	}
	c.entries[key(rule, fragment)] = e
}

// Len reports how many entries the cache currently holds.
func (c *Cache) Len() int { return len(c.entries) }

func key(rule, fragment string) string {
	sum := highwayhash.Sum64([]byte(fragment), highwayKey)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], sum)
	return rule + ":" + hex.EncodeToString(buf[:])
}
