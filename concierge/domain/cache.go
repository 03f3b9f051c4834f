package domain

import (
	"context"
	"encoding/json"
	"time"
)

// CacheEntry wraps a cached payload with creation and expiry timestamps.
// Entries are append-only: they are never mutated after creation, and several
// entries may coexist for the same logical key because writes are not
// deduplicated. Read-time resolution (ResolveEntries) sorts that out.
type CacheEntry struct {
	ID        string          `json:"id"`
	Key       string          `json:"key"`
	Source    string          `json:"source,omitempty"` // provenance tag, e.g. data source name
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// IsExpired reports whether the entry is logically dead at the given instant.
// An entry created with ExpiresAt <= CreatedAt is simply inert, not an error.
func (e CacheEntry) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// ResolveEntries picks the freshest non-expired payload among candidate
// entries sharing one logical key. Expired entries are filtered (they are NOT
// deleted here; cleanup is a separate maintenance concern), then the entry
// with the latest CreatedAt wins. Ties on CreatedAt are broken by input order:
// the first such entry wins. Returns false when nothing survives filtering.
func ResolveEntries(entries []CacheEntry, now time.Time) (json.RawMessage, bool) {
	var best *CacheEntry
	for i := range entries {
		e := &entries[i]
		if e.IsExpired(now) {
			continue
		}
		if best == nil || e.CreatedAt.After(best.CreatedAt) {
			best = e
		}
	}
	if best == nil {
		return nil, false
	}
	return best.Data, true
}

// EntryStore is the persistence collaborator behind every cache service.
// Storage carries no uniqueness guarantee for keys; Query may return
// duplicates and expired rows. Errors must be distinguishable from "no rows"
// (empty slice, nil error).
type EntryStore interface {
	Insert(ctx context.Context, table, key string, entry CacheEntry) error
	Query(ctx context.Context, table, key string) ([]CacheEntry, error)

	// Cleanup removes expired rows. Advisory; correctness never depends on it.
	Cleanup(ctx context.Context, table string) error
}
