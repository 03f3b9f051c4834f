package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/wanderly/concierge/concierge/domain"
)

func TestMemoryEntryStore_InsertKeepsDuplicates(t *testing.T) {
	store := NewMemoryEntryStore()
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		err := store.Insert(ctx, "weather_cache", "paris", domain.CacheEntry{
			Key:       "paris",
			Data:      json.RawMessage(`{}`),
			CreatedAt: now,
			ExpiresAt: now.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("Insert() unexpected error: %v", err)
		}
	}

	entries, err := store.Query(ctx, "weather_cache", "paris")
	if err != nil {
		t.Fatalf("Query() unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Query() expected 3 duplicate entries, got %d", len(entries))
	}

	// Tables are isolated from one another.
	entries, _ = store.Query(ctx, "currency_cache", "paris")
	if len(entries) != 0 {
		t.Fatalf("Query() on other table expected 0 entries, got %d", len(entries))
	}
}

func TestMemoryEntryStore_CleanupDropsOnlyExpired(t *testing.T) {
	store := NewMemoryEntryStore()
	ctx := context.Background()
	now := time.Now()

	store.Insert(ctx, "weather_cache", "paris", domain.CacheEntry{
		Key: "paris", Data: json.RawMessage(`{"v":1}`),
		CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	})
	store.Insert(ctx, "weather_cache", "paris", domain.CacheEntry{
		Key: "paris", Data: json.RawMessage(`{"v":2}`),
		CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	})

	if err := store.Cleanup(ctx, "weather_cache"); err != nil {
		t.Fatalf("Cleanup() unexpected error: %v", err)
	}

	entries, _ := store.Query(ctx, "weather_cache", "paris")
	if len(entries) != 1 {
		t.Fatalf("Cleanup() expected 1 surviving entry, got %d", len(entries))
	}
	if string(entries[0].Data) != `{"v":2}` {
		t.Fatalf("Cleanup() kept wrong entry: %s", entries[0].Data)
	}
}
