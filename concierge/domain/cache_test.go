package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func entry(key, data string, createdAt, expiresAt time.Time) CacheEntry {
	return CacheEntry{
		Key:       key,
		Data:      json.RawMessage(data),
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}
}

func TestResolveEntries_PicksFreshestNonExpired(t *testing.T) {
	now := time.Date(2025, 9, 2, 12, 0, 0, 0, time.UTC)

	entries := []CacheEntry{
		entry("paris", `{"v":1}`, now.Add(-2*time.Hour), now.Add(1*time.Hour)),
		entry("paris", `{"v":2}`, now.Add(-1*time.Hour), now.Add(1*time.Hour)),
		entry("paris", `{"v":3}`, now.Add(-30*time.Minute), now.Add(-1*time.Minute)), // expired
	}

	data, ok := ResolveEntries(entries, now)
	if !ok {
		t.Fatal("ResolveEntries() expected a result, got absent")
	}
	if string(data) != `{"v":2}` {
		t.Fatalf("ResolveEntries() = %s, want freshest non-expired {\"v\":2}", data)
	}
}

func TestResolveEntries_AllExpiredIsAbsentNotError(t *testing.T) {
	now := time.Date(2025, 9, 2, 12, 0, 0, 0, time.UTC)

	entries := []CacheEntry{
		entry("paris", `{"v":1}`, now.Add(-2*time.Hour), now.Add(-1*time.Hour)),
		entry("paris", `{"v":2}`, now.Add(-3*time.Hour), now.Add(-2*time.Hour)),
	}

	if _, ok := ResolveEntries(entries, now); ok {
		t.Fatal("ResolveEntries() expected absent when all entries are expired")
	}

	if _, ok := ResolveEntries(nil, now); ok {
		t.Fatal("ResolveEntries() expected absent for empty input")
	}
}

func TestResolveEntries_NewEntrySupersedesOld(t *testing.T) {
	now := time.Date(2025, 9, 2, 12, 0, 0, 0, time.UTC)

	entries := []CacheEntry{
		entry("eur", `{"rate":0.90}`, now.Add(-40*time.Minute), now.Add(20*time.Minute)),
	}

	data, ok := ResolveEntries(entries, now)
	if !ok || string(data) != `{"rate":0.90}` {
		t.Fatalf("ResolveEntries() = %s, %v; want old value before supersession", data, ok)
	}

	// Appending a fresher entry for the same key changes the resolved value.
	entries = append(entries, entry("eur", `{"rate":0.92}`, now.Add(-1*time.Minute), now.Add(59*time.Minute)))

	data, ok = ResolveEntries(entries, now)
	if !ok || string(data) != `{"rate":0.92}` {
		t.Fatalf("ResolveEntries() = %s, %v; want superseding value", data, ok)
	}
}

func TestResolveEntries_TieBrokenByInputOrder(t *testing.T) {
	now := time.Date(2025, 9, 2, 12, 0, 0, 0, time.UTC)
	created := now.Add(-10 * time.Minute)

	entries := []CacheEntry{
		entry("kyoto", `{"v":"first"}`, created, now.Add(time.Hour)),
		entry("kyoto", `{"v":"second"}`, created, now.Add(time.Hour)),
	}

	data, ok := ResolveEntries(entries, now)
	if !ok || string(data) != `{"v":"first"}` {
		t.Fatalf("ResolveEntries() = %s; ties on CreatedAt must keep the first entry", data)
	}
}

func TestCacheEntry_ImmediatelyExpiredIsInert(t *testing.T) {
	now := time.Date(2025, 9, 2, 12, 0, 0, 0, time.UTC)

	// expires_at <= created_at: not an error, just never resolvable.
	e := entry("x", `{}`, now, now.Add(-time.Second))
	if !e.IsExpired(now) {
		t.Fatal("entry with expires_at before now should be expired")
	}

	if _, ok := ResolveEntries([]CacheEntry{e}, now); ok {
		t.Fatal("inert entry should never resolve")
	}
}
