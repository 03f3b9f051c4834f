package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wanderly/concierge/concierge/domain"
)

// Service is the generic expiring-cache pattern, instantiated once per data
// domain (weather, currency, cultural insights). It never propagates storage
// errors: a failing Get is a miss, a failing Set reports false. Duplicate
// writes for one key coexist; reads resolve to the freshest live entry.
type Service struct {
	store  domain.EntryStore
	table  string
	source string
	ttl    time.Duration

	now func() time.Time
}

// NewService builds a cache service over the given store. table names the
// logical collection, source is the provenance tag stamped on every entry,
// ttl is the domain-specific lifetime of new entries.
func NewService(store domain.EntryStore, table, source string, ttl time.Duration) *Service {
	return &Service{
		store:  store,
		table:  table,
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// SetClock replaces the service's time source. Test hook.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// TTL returns the configured entry lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// GetCache fetches all entries for key and resolves the freshest non-expired
// payload. Any storage error is logged and treated as a miss.
func (s *Service) GetCache(ctx context.Context, key string) (json.RawMessage, bool) {
	entries, err := s.store.Query(ctx, s.table, key)
	if err != nil {
		logrus.WithError(err).Warnf("[CACHE] %s: query failed for %q, treating as miss", s.table, key)
		return nil, false
	}
	return domain.ResolveEntries(entries, s.now())
}

// SetCache persists a new entry for key with expiry now+ttl. Multiple calls
// for the same key create multiple live entries. Returns false on marshal or
// storage error, never raises.
func (s *Service) SetCache(ctx context.Context, key string, value interface{}) bool {
	data, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).Errorf("[CACHE] %s: marshal failed for %q", s.table, key)
		return false
	}

	now := s.now()
	entry := domain.CacheEntry{
		ID:        uuid.NewString(),
		Key:       key,
		Source:    s.source,
		Data:      data,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.store.Insert(ctx, s.table, key, entry); err != nil {
		logrus.WithError(err).Warnf("[CACHE] %s: insert failed for %q", s.table, key)
		return false
	}
	return true
}

// GetInto resolves the cached payload for key into out. A payload that no
// longer unmarshals into the domain shape counts as a miss.
func (s *Service) GetInto(ctx context.Context, key string, out interface{}) bool {
	data, ok := s.GetCache(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logrus.WithError(err).Warnf("[CACHE] %s: stale payload shape for %q, treating as miss", s.table, key)
		return false
	}
	return true
}

// Cleanup removes expired rows for this service's table. Advisory.
func (s *Service) Cleanup(ctx context.Context) error {
	return s.store.Cleanup(ctx, s.table)
}
