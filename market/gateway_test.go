package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"poeflow/config"
	"poeflow/models"
)

func testConfig(baseURL, cacheDir string) *config.Config {
	return &config.Config{
		API: config.APIConfig{
			BaseURL:           baseURL,
			Timeout:           5 * time.Second,
			RequestsPerSecond: 100,
		},
		Cache: config.CacheConfig{
			Dir: cacheDir,
			TTL: 15 * time.Minute,
		},
	}
}

func linesHandler(hits *int64, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestFetchServesFromCacheWithinTTL(t *testing.T) {
	var hits int64
	server := httptest.NewServer(linesHandler(&hits,
		`{"lines":[{"name":"Rusted Cartography Scarab","chaosValue":3.5,"count":25}]}`))
	defer server.Close()

	g := NewGateway(testConfig(server.URL+"/", t.TempDir()))

	first := g.Fetch(context.Background(), models.CategoryScarab, "Standard")
	if len(first) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(first))
	}

	second := g.Fetch(context.Background(), models.CategoryScarab, "Standard")
	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Fatalf("expected a single network call, got %d", got)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached fetch differs: first %+v, second %+v", first, second)
	}
}

func TestFetchRefetchesAfterExpiry(t *testing.T) {
	var hits int64
	server := httptest.NewServer(linesHandler(&hits,
		`{"lines":[{"name":"Rusted Cartography Scarab","chaosValue":3.5,"count":25}]}`))
	defer server.Close()

	cfg := testConfig(server.URL+"/", t.TempDir())
	cfg.Cache.TTL = time.Nanosecond
	g := NewGateway(cfg)

	g.Fetch(context.Background(), models.CategoryScarab, "Standard")
	g.Fetch(context.Background(), models.CategoryScarab, "Standard")
	if got := atomic.LoadInt64(&hits); got != 2 {
		t.Fatalf("expected 2 network calls after expiry, got %d", got)
	}
}

func TestFetchAppliesFilters(t *testing.T) {
	var hits int64
	server := httptest.NewServer(linesHandler(&hits,
		`{"lines":[
			{"name":"Rusted Cartography Scarab","chaosValue":3.5,"count":25},
			{"name":"Mirror of Kalandra","chaosValue":90000,"count":40},
			{"name":"Polished Cartography Scarab","chaosValue":8,"count":2}
		]}`))
	defer server.Close()

	cfg := testConfig(server.URL+"/", t.TempDir())
	cfg.API.ItemBlacklist = []string{"Mirror of Kalandra"}
	cfg.API.MinimumListings = 10
	g := NewGateway(cfg)

	listings := g.Fetch(context.Background(), models.CategoryScarab, "Standard")
	if len(listings) != 1 {
		t.Fatalf("expected filters to leave 1 listing, got %d", len(listings))
	}
	if listings[0].Name != "Rusted Cartography Scarab" {
		t.Errorf("unexpected listing survived: %s", listings[0].Name)
	}
}

func TestFetchCountFilterSkipsCountlessRows(t *testing.T) {
	var hits int64
	server := httptest.NewServer(linesHandler(&hits,
		`{"lines":[{"currencyTypeName":"Divine Orb","chaosEquivalent":230}]}`))
	defer server.Close()

	cfg := testConfig(server.URL+"/", t.TempDir())
	cfg.API.MinimumListings = 10
	g := NewGateway(cfg)

	listings := g.Fetch(context.Background(), models.CategoryCurrency, "Standard")
	if len(listings) != 1 {
		t.Fatalf("currency rows without a count must survive the filter, got %d", len(listings))
	}
	if listings[0].Name != "Divine Orb" || listings[0].ChaosValue != 230 {
		t.Errorf("unexpected normalization: %+v", listings[0])
	}
}

func TestFetchServerErrorYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	g := NewGateway(testConfig(server.URL+"/", t.TempDir()))
	if listings := g.Fetch(context.Background(), models.CategoryScarab, "Standard"); len(listings) != 0 {
		t.Fatalf("expected empty result on server error, got %d", len(listings))
	}
}

func TestFetchMalformedBodyYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lines": "not-an-array"`))
	}))
	defer server.Close()

	g := NewGateway(testConfig(server.URL+"/", t.TempDir()))
	if listings := g.Fetch(context.Background(), models.CategoryScarab, "Standard"); len(listings) != 0 {
		t.Fatalf("expected empty result on malformed body, got %d", len(listings))
	}
}

func TestFetchUnknownCategory(t *testing.T) {
	g := NewGateway(testConfig("http://127.0.0.1:0/", t.TempDir()))
	if listings := g.Fetch(context.Background(), "Relic", "Standard"); listings != nil {
		t.Fatalf("expected nil for unknown category, got %v", listings)
	}
}

func TestFetchAllUpdatesDivineRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/currencyoverview" {
			_, _ = w.Write([]byte(`{"lines":[
				{"currencyTypeName":"Vaal Orb","chaosEquivalent":2},
				{"currencyTypeName":"Divine Orb","chaosEquivalent":230}
			]}`))
			return
		}
		_, _ = w.Write([]byte(`{"lines":[]}`))
	}))
	defer server.Close()

	g := NewGateway(testConfig(server.URL+"/", t.TempDir()))
	snapshot, rates := g.FetchAll(context.Background(), "Standard")

	if rates.DivineToChaos != 230 {
		t.Errorf("expected divine rate 230, got %v", rates.DivineToChaos)
	}
	if len(snapshot[models.CategoryCurrency]) != 2 {
		t.Errorf("expected 2 currency listings, got %d", len(snapshot[models.CategoryCurrency]))
	}
	if _, ok := snapshot[models.CategoryGem]; !ok {
		t.Errorf("expected gem category present even when empty")
	}
}

func TestFetchAllKeepsRateWhenDivineMissing(t *testing.T) {
	server := httptest.NewServer(linesHandler(new(int64), `{"lines":[]}`))
	defer server.Close()

	g := NewGateway(testConfig(server.URL+"/", t.TempDir()))
	_, rates := g.FetchAll(context.Background(), "Standard")

	if rates.DivineToChaos != models.DefaultDivineToChaos {
		t.Errorf("expected default rate retained, got %v", rates.DivineToChaos)
	}
}
