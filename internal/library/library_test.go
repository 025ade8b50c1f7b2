package library

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gearrack/internal/fetch"
	"gearrack/internal/fsys"
	"gearrack/internal/gearcache"
	"gearrack/internal/testsupport"
)

const unitDoc = `{
	"unitId": "la2a-compressor-1.0.0",
	"name": "LA-2A Leveling Amplifier",
	"category": "compressor",
	"version": "1.0.0",
	"faceplateImage": "la2a.jpg",
	"controls": [
		{"type": "knob", "name": "Peak Reduction", "min": 0, "max": 1, "initial": 0.5, "assetPath": "knobs/la2a_pr.png"},
		{"type": "switch", "name": "Limit/Compress", "min": 0, "max": 1, "positions": 2, "assetPath": "switches/la2a_mode.png"}
	]
}`

func newTestLibrary(t *testing.T) (*Library, *gearcache.Manager, *testsupport.StubFetcher) {
	t.Helper()
	cache := gearcache.NewManager("/cache", testsupport.NewMemFS(), nil)
	if !cache.Initialize() {
		t.Fatal("cache init failed")
	}
	fetcher := testsupport.NewStubFetcher()
	lib := New(Options{
		BaseURL:     "https://gear.test/library",
		Fetcher:     fetcher,
		Cache:       cache,
		SettleDelay: time.Millisecond,
	})
	return lib, cache, fetcher
}

func TestEnsureUnitFetchesOnceThenHitsCache(t *testing.T) {
	lib, cache, fetcher := newTestLibrary(t)
	fetcher.AddJSON("https://gear.test/library/units/la2a-compressor-1.0.0.json", unitDoc)

	item := lib.EnsureUnit(context.Background(), "la2a-compressor-1.0.0")
	if item == nil {
		t.Fatal("EnsureUnit returned nil")
	}
	if item.Name != "LA-2A Leveling Amplifier" || len(item.Controls) != 2 {
		t.Fatalf("unexpected item: %+v", item)
	}
	if !cache.IsUnitCached("la2a-compressor-1.0.0") {
		t.Fatal("unit should have been cached")
	}

	before := len(fetcher.Requests())
	if again := lib.EnsureUnit(context.Background(), "la2a-compressor-1.0.0"); again == nil {
		t.Fatal("second EnsureUnit failed")
	}
	if got := len(fetcher.Requests()); got != before {
		t.Fatalf("cache hit must not re-fetch: %d requests, had %d", got, before)
	}
}

func TestEnsureUnitFailsWhenOfflineAndUncached(t *testing.T) {
	lib, _, _ := newTestLibrary(t)
	if item := lib.EnsureUnit(context.Background(), "missing-unit-1.0.0"); item != nil {
		t.Fatalf("expected nil for unfetchable unit, got %+v", item)
	}
}

func TestItemByUnitIDReadsCache(t *testing.T) {
	lib, cache, _ := newTestLibrary(t)
	if !cache.SaveUnit("la2a-compressor-1.0.0", unitDoc) {
		t.Fatal("seed cache")
	}

	item := lib.ItemByUnitID("la2a-compressor-1.0.0")
	if item == nil || item.Category != "compressor" {
		t.Fatalf("ItemByUnitID = %+v", item)
	}
	if lib.ItemByUnitID("unknown") != nil {
		t.Fatal("unknown id should return nil")
	}
	if lib.ItemByUnitID("") != nil {
		t.Fatal("empty id should return nil")
	}
}

func TestRefreshMergesIndex(t *testing.T) {
	lib, _, fetcher := newTestLibrary(t)
	fetcher.AddJSON("https://gear.test/library/index.json", `{
		"units": [
			{"unitId": "la2a-compressor-1.0.0", "name": "LA-2A", "category": "compressor"},
			{"unitId": "pultec-eq-2.1.0", "name": "Pultec EQP-1A", "category": "equalizer"}
		]
	}`)

	if !lib.Refresh(context.Background()) {
		t.Fatal("Refresh failed")
	}
	if lib.ItemByUnitID("pultec-eq-2.1.0") == nil {
		t.Fatal("index entry missing after refresh")
	}
	// Summaries carry no schema yet.
	if lib.ItemByUnitID("la2a-compressor-1.0.0").HasSchema() {
		t.Fatal("summary should not have a schema")
	}
}

func TestRefreshFailsOnMalformedIndex(t *testing.T) {
	lib, _, fetcher := newTestLibrary(t)
	fetcher.AddJSON("https://gear.test/library/index.json", "{broken")
	if lib.Refresh(context.Background()) {
		t.Fatal("malformed index should fail")
	}
}

func TestFetchSchemaPopulatesControlsAndImages(t *testing.T) {
	lib, cache, fetcher := newTestLibrary(t)
	fetcher.AddJSON("https://gear.test/library/units/la2a-compressor-1.0.0.json", unitDoc)
	strip := []byte{0x01, 0x02, 0x03}
	fetcher.AddBinary("https://gear.test/library/assets/controls/knobs/la2a_pr.png", strip)
	fetcher.AddBinary("https://gear.test/library/assets/controls/switches/la2a_mode.png", strip)
	fetcher.AddBinary("https://gear.test/library/assets/faceplates/la2a.jpg", testsupport.PNGBytes(t, 8, 8))

	result := make(chan bool, 1)
	lib.FetchSchema(context.Background(), "la2a-compressor-1.0.0", func(ok bool) {
		result <- ok
	})

	select {
	case ok := <-result:
		if !ok {
			t.Fatal("schema fetch reported failure")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("schema callback never fired")
	}

	if !cache.IsControlAssetCached("knobs/la2a_pr.png") {
		t.Fatal("knob strip not cached")
	}
	if !cache.IsControlAssetCached("switches/la2a_mode.png") {
		t.Fatal("switch strip not cached")
	}
	if !cache.IsFaceplateCached("la2a.jpg") {
		t.Fatal("faceplate not cached")
	}
	if !lib.ItemByUnitID("la2a-compressor-1.0.0").HasSchema() {
		t.Fatal("schema not populated")
	}
}

func TestFetchSchemaReportsFailureForUnknownUnit(t *testing.T) {
	lib, _, _ := newTestLibrary(t)

	result := make(chan bool, 1)
	lib.FetchSchema(context.Background(), "nope-1.0.0", func(ok bool) {
		result <- ok
	})
	select {
	case ok := <-result:
		if ok {
			t.Fatal("expected failure for unknown unit")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("schema callback never fired")
	}
}

func TestFetchSchemaHonorsContextCancellation(t *testing.T) {
	lib, _, _ := newTestLibrary(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := make(chan bool, 1)
	lib.FetchSchema(ctx, "la2a-compressor-1.0.0", func(ok bool) {
		result <- ok
	})
	select {
	case ok := <-result:
		if ok {
			t.Fatal("cancelled fetch should fail")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("schema callback never fired")
	}
}

func TestEnsureUnitOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/units/la2a-compressor-1.0.0.json" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(unitDoc))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithRemote(server.URL))
	cache := gearcache.NewManager(cfg.Paths.CacheDir, fsys.NewOS(nil), nil)
	if !cache.Initialize() {
		t.Fatal("cache init failed")
	}
	lib := New(Options{
		BaseURL: cfg.Remote.BaseURL,
		Fetcher: fetch.NewHTTP(fetch.Options{
			Timeout:      time.Duration(cfg.Remote.TimeoutSeconds) * time.Second,
			MaxRedirects: cfg.Remote.MaxRedirects,
		}, nil),
		Cache:       cache,
		SettleDelay: time.Millisecond,
	})

	item := lib.EnsureUnit(context.Background(), "la2a-compressor-1.0.0")
	if item == nil || !item.HasSchema() {
		t.Fatalf("EnsureUnit over HTTP = %+v", item)
	}
	if !cache.IsUnitCached("la2a-compressor-1.0.0") {
		t.Fatal("unit should be cached on disk")
	}
}

func TestParseItemRejectsMissingID(t *testing.T) {
	if _, err := ParseItem(`{"name":"anonymous"}`); err == nil {
		t.Fatal("expected error for missing unitId")
	}
	if _, err := ParseItem("{broken"); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
