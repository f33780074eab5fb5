package state

import (
	"testing"
	"time"
)

func TestLocationCache_PutNeverOverwrites(t *testing.T) {
	cache := NewLocationCache(nil)

	original := LocationData{ID: "door_1_entrance", Description: "A sunlit grove.", GeneratedAt: time.Now()}
	stored := cache.Put(original)
	if stored.Description != original.Description {
		t.Fatalf("First put should store the value, got %q", stored.Description)
	}

	// A second generation for the same id must short-circuit to the
	// cached content, never replace it.
	regenerated := LocationData{ID: "door_1_entrance", Description: "A completely different grove."}
	stored = cache.Put(regenerated)
	if stored.Description != original.Description {
		t.Errorf("Put overwrote cached content: %q", stored.Description)
	}

	got, ok := cache.Get("door_1_entrance")
	if !ok || got.Description != original.Description {
		t.Errorf("Get returned %q, want original description", got.Description)
	}
}

func TestLocationCache_Seed(t *testing.T) {
	seed := map[string]LocationData{
		HubLocationID: NewForestClearing(),
	}
	cache := NewLocationCache(seed)

	if cache.Len() != 1 {
		t.Fatalf("Expected 1 seeded location, got %d", cache.Len())
	}
	if _, ok := cache.Get(HubLocationID); !ok {
		t.Error("Seeded location not retrievable")
	}

	// Mutating the seed map must not affect the cache.
	delete(seed, HubLocationID)
	if _, ok := cache.Get(HubLocationID); !ok {
		t.Error("Cache shares storage with the seed map")
	}
}

func TestLocationCache_GetMissing(t *testing.T) {
	cache := NewLocationCache(nil)
	if _, ok := cache.Get("door_9_entrance"); ok {
		t.Error("Expected miss for unknown id")
	}
}
