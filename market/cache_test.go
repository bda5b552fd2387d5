package market

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func sampleLines() []line {
	count := 25
	value := 3.5
	return []line{
		{Name: "Rusted Cartography Scarab", ChaosValue: &value, Count: &count},
		{Name: "Polished Cartography Scarab", ChaosValue: &value},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCache(t.TempDir(), 15*time.Minute)
	stored := sampleLines()

	if err := cache.Store("Standard", "Scarab", stored); err != nil {
		t.Fatalf("store: %v", err)
	}

	loaded, hit := cache.Load("Standard", "Scarab")
	if !hit {
		t.Fatalf("expected cache hit")
	}
	if !reflect.DeepEqual(stored, loaded) {
		t.Errorf("cache round trip mismatch: stored %+v, loaded %+v", stored, loaded)
	}
}

func TestCacheMissForUnknownPair(t *testing.T) {
	cache := NewCache(t.TempDir(), 15*time.Minute)
	if _, hit := cache.Load("Standard", "Scarab"); hit {
		t.Fatalf("expected miss for empty cache")
	}
}

func TestCacheExpiry(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(dir, 15*time.Minute)

	if err := cache.Store("Standard", "Scarab", sampleLines()); err != nil {
		t.Fatalf("store: %v", err)
	}

	// Age the entry past the TTL.
	stale := time.Now().Add(-16 * time.Minute)
	path := filepath.Join(dir, "Standard_Scarab.json")
	if err := os.Chtimes(path, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, hit := cache.Load("Standard", "Scarab"); hit {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestCacheDiscardsCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(dir, 15*time.Minute)

	path := filepath.Join(dir, "Standard_Scarab.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, hit := cache.Load("Standard", "Scarab"); hit {
		t.Fatalf("expected corrupt entry to miss")
	}
}
