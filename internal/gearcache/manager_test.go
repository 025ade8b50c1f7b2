package gearcache

import (
	"path/filepath"
	"testing"

	"gearrack/internal/fsys"
	"gearrack/internal/testsupport"
)

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	root := filepath.Join(t.TempDir(), "cache")
	return NewManager(root, fsys.NewOS(nil), nil, opts...)
}

func TestInitializeCreatesLayout(t *testing.T) {
	m := newTestManager(t)
	if !m.Initialize() {
		t.Fatal("Initialize failed")
	}
	// Idempotent.
	if !m.Initialize() {
		t.Fatal("second Initialize failed")
	}

	fs := fsys.NewOS(nil)
	for _, rel := range []string{
		"units",
		"assets/faceplates",
		"assets/thumbnails",
		"assets/controls/buttons",
		"assets/controls/faders",
		"assets/controls/knobs",
		"assets/controls/switches",
	} {
		if !fs.IsDirectory(fsys.Join(m.Root(), rel)) {
			t.Errorf("missing directory %s", rel)
		}
	}
}

func TestInitializeFailsOnNullFS(t *testing.T) {
	m := NewManager("/cache", fsys.NewNull(nil), nil)
	if m.Initialize() {
		t.Fatal("Initialize should fail on the null file system")
	}
}

func TestUnitRoundTrip(t *testing.T) {
	m := newTestManager(t)
	if !m.Initialize() {
		t.Fatal("Initialize failed")
	}

	const unitID = "la2a-compressor-1.0.0"
	const doc = `{"unitId":"la2a-compressor-1.0.0","name":"LA-2A"}`

	if m.IsUnitCached(unitID) {
		t.Fatal("unit should not be cached before save")
	}
	if _, ok := m.LoadUnit(unitID); ok {
		t.Fatal("load before save should fail")
	}
	if !m.SaveUnit(unitID, doc) {
		t.Fatal("SaveUnit failed")
	}
	if !m.IsUnitCached(unitID) {
		t.Fatal("unit should be cached after save")
	}
	got, ok := m.LoadUnit(unitID)
	if !ok || got != doc {
		t.Fatalf("LoadUnit = %q, %v", got, ok)
	}
}

func TestImageAssetsReencodedAsJPEG(t *testing.T) {
	m := newTestManager(t)
	if !m.Initialize() {
		t.Fatal("Initialize failed")
	}

	raw := testsupport.PNGBytes(t, 32, 16)

	if m.IsFaceplateCached("la2a.jpg") {
		t.Fatal("faceplate should not be cached yet")
	}
	if !m.SaveFaceplate("la2a.jpg", raw) {
		t.Fatal("SaveFaceplate failed")
	}
	if !m.IsFaceplateCached("la2a.jpg") {
		t.Fatal("faceplate should be cached after save")
	}
	img, ok := m.LoadFaceplate("la2a.jpg")
	if !ok {
		t.Fatal("LoadFaceplate failed")
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 16 {
		t.Fatalf("unexpected bounds: %v", img.Bounds())
	}

	// Stored bytes must start with the JPEG SOI marker, not the PNG header.
	data, ok := fsys.NewOS(nil).ReadBinary(m.CachedFaceplatePath("la2a.jpg"))
	if !ok || len(data) < 2 || data[0] != 0xff || data[1] != 0xd8 {
		t.Fatalf("faceplate not stored as JPEG: % x", data[:4])
	}

	if !m.SaveThumbnail("la2a_thumb.jpg", raw) {
		t.Fatal("SaveThumbnail failed")
	}
	if _, ok := m.LoadThumbnail("la2a_thumb.jpg"); !ok {
		t.Fatal("LoadThumbnail failed")
	}
}

func TestSaveImageRejectsCorruptData(t *testing.T) {
	m := newTestManager(t)
	if !m.Initialize() {
		t.Fatal("Initialize failed")
	}
	if m.SaveFaceplate("bad.jpg", []byte("not an image")) {
		t.Fatal("corrupt image data should not save")
	}
	if m.IsFaceplateCached("bad.jpg") {
		t.Fatal("nothing should be cached after a failed save")
	}
}

func TestControlAssetPathNormalization(t *testing.T) {
	m := newTestManager(t)

	want := m.CachedControlAssetPath("knobs/x.png")
	if want == "" {
		t.Fatal("empty derived path")
	}
	for _, input := range []string{
		"assets/controls/knobs/x.png",
		"controls/knobs/x.png",
		"knobs/x.png",
	} {
		if got := m.CachedControlAssetPath(input); got != want {
			t.Errorf("CachedControlAssetPath(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestControlAssetRoundTrip(t *testing.T) {
	m := newTestManager(t)
	if !m.Initialize() {
		t.Fatal("Initialize failed")
	}

	strip := []byte{0x89, 0x50, 0x4e, 0x47, 0x01, 0x02}
	if !m.SaveControlAsset("assets/controls/faders/long_throw.png", strip) {
		t.Fatal("SaveControlAsset failed")
	}
	if !m.IsControlAssetCached("faders/long_throw.png") {
		t.Fatal("asset should be visible under the bare relative path")
	}
	got, ok := m.LoadControlAsset("controls/faders/long_throw.png")
	if !ok || string(got) != string(strip) {
		t.Fatalf("LoadControlAsset = % x, %v", got, ok)
	}
}

func TestSizeAndClear(t *testing.T) {
	m := newTestManager(t)

	if m.Size() != 0 {
		t.Fatal("size of missing root should be 0")
	}
	if !m.Initialize() {
		t.Fatal("Initialize failed")
	}
	if m.Size() != 0 {
		t.Fatal("size of empty cache should be 0")
	}

	doc := `{"unitId":"u1"}`
	if !m.SaveUnit("u1", doc) {
		t.Fatal("SaveUnit failed")
	}
	if got := m.Size(); got < int64(len(doc)) {
		t.Fatalf("Size = %d, want >= %d", got, len(doc))
	}

	if !m.Clear() {
		t.Fatal("Clear failed")
	}
	if m.Size() != 0 {
		t.Fatal("size after clear should be 0")
	}
	// Clearing an absent root succeeds.
	if !m.Clear() {
		t.Fatal("Clear on absent root should succeed")
	}
}

func TestStatsUsesStubbedStatfs(t *testing.T) {
	m := newTestManager(t, withStatfs(func(string) (uint64, uint64, error) {
		return 1000, 250, nil
	}))
	if !m.Initialize() {
		t.Fatal("Initialize failed")
	}
	m.SaveUnit("u1", `{"unitId":"u1"}`)

	s := m.Stats()
	if s.UnitCount != 1 {
		t.Fatalf("UnitCount = %d", s.UnitCount)
	}
	if s.TotalFSBytes != 1000 || s.FreeBytes != 250 {
		t.Fatalf("unexpected fs stats: %+v", s)
	}
	if s.FreeRatio != 0.25 {
		t.Fatalf("FreeRatio = %f", s.FreeRatio)
	}
}

func TestFailedStorageConvertsToFalse(t *testing.T) {
	mem := testsupport.NewMemFS()
	m := NewManager("/cache", mem, nil)
	if !m.Initialize() {
		t.Fatal("Initialize on MemFS failed")
	}

	mem.FailWrites = true
	if m.SaveUnit("u1", `{}`) {
		t.Fatal("save should fail when storage fails")
	}
	if m.AddRecentlyUsed("u1") {
		t.Fatal("list mutation should fail when storage fails")
	}
	if m.AddFavorite("u1") {
		t.Fatal("favorites mutation should fail when storage fails")
	}
}
