package gearcache

import (
	"encoding/json"
	"fmt"
	"testing"

	"gearrack/internal/fsys"
	"gearrack/internal/testsupport"
)

func TestRecentlyUsedMoveToFront(t *testing.T) {
	m := newTestManager(t)
	if !m.Initialize() {
		t.Fatal("Initialize failed")
	}

	for _, id := range []string{"A", "B", "A"} {
		if !m.AddRecentlyUsed(id) {
			t.Fatalf("AddRecentlyUsed(%s) failed", id)
		}
	}

	got := m.RecentlyUsed()
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("RecentlyUsed = %v, want [A B]", got)
	}
}

func TestRecentlyUsedEvictsOldest(t *testing.T) {
	m := newTestManager(t)
	if !m.Initialize() {
		t.Fatal("Initialize failed")
	}

	for i := 0; i < DefaultRecentlyUsedLimit+1; i++ {
		if !m.AddRecentlyUsed(fmt.Sprintf("unit-%02d", i)) {
			t.Fatalf("add %d failed", i)
		}
	}

	got := m.RecentlyUsed()
	if len(got) != DefaultRecentlyUsedLimit {
		t.Fatalf("list length = %d, want %d", len(got), DefaultRecentlyUsedLimit)
	}
	if got[0] != "unit-20" {
		t.Fatalf("newest entry = %q", got[0])
	}
	for _, id := range got {
		if id == "unit-00" {
			t.Fatal("oldest entry should have been evicted")
		}
	}
}

func TestRecentlyUsedSidecarFormat(t *testing.T) {
	m := newTestManager(t)
	if !m.Initialize() {
		t.Fatal("Initialize failed")
	}
	m.AddRecentlyUsed("u1")

	content, ok := fsys.NewOS(nil).ReadFile(fsys.Join(m.Root(), "recently_used.json"))
	if !ok {
		t.Fatal("sidecar missing")
	}
	var doc struct {
		RecentlyUsed []string `json:"recentlyUsed"`
	}
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		t.Fatalf("sidecar is not valid JSON: %v", err)
	}
	if len(doc.RecentlyUsed) != 1 || doc.RecentlyUsed[0] != "u1" {
		t.Fatalf("unexpected sidecar contents: %v", doc.RecentlyUsed)
	}
}

func TestRecentlyUsedClear(t *testing.T) {
	m := newTestManager(t)
	if !m.Initialize() {
		t.Fatal("Initialize failed")
	}
	m.AddRecentlyUsed("u1")
	if !m.ClearRecentlyUsed() {
		t.Fatal("ClearRecentlyUsed failed")
	}
	if got := m.RecentlyUsed(); len(got) != 0 {
		t.Fatalf("list not empty after clear: %v", got)
	}
}

func TestFavoritesSetSemantics(t *testing.T) {
	m := newTestManager(t)
	if !m.Initialize() {
		t.Fatal("Initialize failed")
	}

	if !m.AddFavorite("u1") || !m.AddFavorite("u1") {
		t.Fatal("adding twice should succeed both times")
	}
	if got := m.Favorites(); len(got) != 1 {
		t.Fatalf("favorites size = %d, want 1", len(got))
	}
	if !m.IsFavorite("u1") {
		t.Fatal("u1 should be a favorite")
	}

	// Removing a never-added id still reports success.
	if !m.RemoveFavorite("never-added") {
		t.Fatal("removing absent id should succeed")
	}

	if !m.RemoveFavorite("u1") {
		t.Fatal("RemoveFavorite failed")
	}
	if m.IsFavorite("u1") {
		t.Fatal("u1 should no longer be a favorite")
	}
}

func TestFavoritesCacheInvalidationOnMutation(t *testing.T) {
	m := newTestManager(t)
	if !m.Initialize() {
		t.Fatal("Initialize failed")
	}

	// Prime the memory cache.
	if got := m.Favorites(); len(got) != 0 {
		t.Fatalf("expected empty favorites, got %v", got)
	}

	// The very next read after each mutation must reflect it.
	m.AddFavorite("u1")
	if !m.IsFavorite("u1") {
		t.Fatal("read after add missed the mutation")
	}
	m.AddFavorite("u2")
	if got := m.Favorites(); len(got) != 2 {
		t.Fatalf("read after second add = %v", got)
	}
	m.RemoveFavorite("u1")
	if m.IsFavorite("u1") {
		t.Fatal("read after remove missed the mutation")
	}
	m.ClearFavorites()
	if got := m.Favorites(); len(got) != 0 {
		t.Fatalf("read after clear = %v", got)
	}
}

func TestFavoritesCacheRefreshesFromDisk(t *testing.T) {
	// Two managers over one root model two plugin instances sharing a cache.
	mem := testsupport.NewMemFS()
	a := NewManager("/shared/cache", mem, nil)
	b := NewManager("/shared/cache", mem, nil)
	if !a.Initialize() {
		t.Fatal("Initialize failed")
	}

	if !a.AddFavorite("u1") {
		t.Fatal("AddFavorite failed")
	}
	// b's cache was never primed, so it reads through to disk.
	if !b.IsFavorite("u1") {
		t.Fatal("second manager should observe the favorite")
	}
}

func TestFavoritesSidecarFormat(t *testing.T) {
	m := newTestManager(t)
	if !m.Initialize() {
		t.Fatal("Initialize failed")
	}
	m.AddFavorite("u1")
	m.AddFavorite("u2")

	content, ok := fsys.NewOS(nil).ReadFile(fsys.Join(m.Root(), "favorites.json"))
	if !ok {
		t.Fatal("sidecar missing")
	}
	var doc struct {
		Favorites []string `json:"favorites"`
	}
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		t.Fatalf("sidecar is not valid JSON: %v", err)
	}
	if len(doc.Favorites) != 2 {
		t.Fatalf("unexpected sidecar contents: %v", doc.Favorites)
	}
}

func TestEmptyIDRejected(t *testing.T) {
	m := newTestManager(t)
	if m.AddRecentlyUsed("") {
		t.Fatal("empty id should be rejected")
	}
	if m.AddFavorite("") {
		t.Fatal("empty id should be rejected")
	}
	if m.IsFavorite("") {
		t.Fatal("empty id is never a favorite")
	}
}

func TestCorruptSidecarStartsEmpty(t *testing.T) {
	m := newTestManager(t)
	if !m.Initialize() {
		t.Fatal("Initialize failed")
	}
	fs := fsys.NewOS(nil)
	if !fs.WriteFile(fsys.Join(m.Root(), "favorites.json"), "{not json") {
		t.Fatal("seed corrupt sidecar")
	}

	if got := m.Favorites(); len(got) != 0 {
		t.Fatalf("corrupt sidecar should read as empty, got %v", got)
	}
	// Mutation still works and rewrites the sidecar.
	if !m.AddFavorite("u1") {
		t.Fatal("AddFavorite after corruption failed")
	}
	if !m.IsFavorite("u1") {
		t.Fatal("favorite lost after rewrite")
	}
}
