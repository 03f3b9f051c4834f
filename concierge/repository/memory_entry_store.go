package repository

import (
	"context"
	"sync"
	"time"

	"github.com/wanderly/concierge/concierge/domain"
)

// MemoryEntryStore is an in-memory implementation of domain.EntryStore.
// Used as fallback when neither a database nor Valkey is configured, and in
// tests. Append-only per key; duplicates are kept, resolution happens at read
// time.
type MemoryEntryStore struct {
	mu      sync.RWMutex
	entries map[string][]domain.CacheEntry
}

// NewMemoryEntryStore creates a new in-memory entry store.
func NewMemoryEntryStore() *MemoryEntryStore {
	return &MemoryEntryStore{
		entries: make(map[string][]domain.CacheEntry),
	}
}

func storeKey(table, key string) string {
	return table + "|" + key
}

func (s *MemoryEntryStore) Insert(ctx context.Context, table, key string, entry domain.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := storeKey(table, key)
	s.entries[k] = append(s.entries[k], entry)
	return nil
}

func (s *MemoryEntryStore) Query(ctx context.Context, table, key string) ([]domain.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.entries[storeKey(table, key)]
	out := make([]domain.CacheEntry, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *MemoryEntryStore) Cleanup(ctx context.Context, table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	prefix := table + "|"
	for k, list := range s.entries {
		if len(k) < len(prefix) || k[:len(prefix)] != prefix {
			continue
		}
		kept := list[:0]
		for _, e := range list {
			if !e.IsExpired(now) {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(s.entries, k)
			continue
		}
		s.entries[k] = kept
	}
	return nil
}
