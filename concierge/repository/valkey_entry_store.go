package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wanderly/concierge/concierge/domain"
	"github.com/wanderly/concierge/infrastructure/valkey"
)

// ValkeyEntryStore implements domain.EntryStore on Valkey. Entries for one
// logical key live in a list so duplicate writes coexist, matching the
// read-time-resolution contract. The list key's expiry is pushed forward to
// the newest entry's expiry on every insert; per-entry staleness is still
// decided by the resolver, the key TTL only bounds garbage.
type ValkeyEntryStore struct {
	client *valkey.Client
	prefix string
}

// NewValkeyEntryStore creates a new ValkeyEntryStore instance.
func NewValkeyEntryStore(client *valkey.Client) *ValkeyEntryStore {
	return &ValkeyEntryStore{
		client: client,
		prefix: client.Key("cache") + ":",
	}
}

func (s *ValkeyEntryStore) fullKey(table, key string) string {
	return s.prefix + table + ":" + key
}

func (s *ValkeyEntryStore) Insert(ctx context.Context, table, key string, entry domain.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	k := s.fullKey(table, key)
	if err := s.client.AppendList(ctx, k, string(data)); err != nil {
		return fmt.Errorf("failed to append cache entry: %w", err)
	}

	if err := s.client.ExpireListAt(ctx, k, entry.ExpiresAt); err != nil {
		logrus.WithError(err).Warnf("[ValkeyEntryStore] Failed to set expiry on %s", k)
	}
	return nil
}

func (s *ValkeyEntryStore) Query(ctx context.Context, table, key string) ([]domain.CacheEntry, error) {
	values, err := s.client.RangeList(ctx, s.fullKey(table, key))
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entries: %w", err)
	}

	entries := make([]domain.CacheEntry, 0, len(values))
	for _, val := range values {
		var e domain.CacheEntry
		if err := json.Unmarshal([]byte(val), &e); err != nil {
			logrus.WithError(err).Warn("[ValkeyEntryStore] Skipping unreadable entry")
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Cleanup is a no-op: the whole list expires with its newest entry, and the
// resolver ignores stale entries before that.
func (s *ValkeyEntryStore) Cleanup(ctx context.Context, table string) error {
	return nil
}
