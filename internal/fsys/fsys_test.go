package fsys

import (
	"os"
	"path/filepath"
	"testing"
)

func TestJoin(t *testing.T) {
	cases := []struct {
		first, second, want string
	}{
		{"", "x", ""},
		{"/a", "", "/a"},
		{"/a", "b", "/a/b"},
		{"/a/", "b", "/a/b"},
		{"/a", "/b", "/a/b"},
		{"a", "b/c", "a/b/c"},
	}
	for _, tc := range cases {
		if got := Join(tc.first, tc.second); got != tc.want {
			t.Errorf("Join(%q, %q) = %q, want %q", tc.first, tc.second, got, tc.want)
		}
	}
}

func TestFileName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"a/b/c.txt", "c.txt"},
		{"c.txt", "c.txt"},
		{"a\\b\\c.txt", "c.txt"},
	}
	for _, tc := range cases {
		if got := FileName(tc.in); got != tc.want {
			t.Errorf("FileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParentDirectory(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"a/b/c.txt", "a/b"},
		{"c.txt", ""},
		{"/a", "/"},
	}
	for _, tc := range cases {
		if got := ParentDirectory(tc.in); got != tc.want {
			t.Errorf("ParentDirectory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"a//b/../c", "a/c"},
		{"a\\b\\c", "a/b/c"},
		{"./a", "a"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsAbsolute(t *testing.T) {
	if !IsAbsolute("/a/b") {
		t.Error("expected /a/b absolute")
	}
	if !IsAbsolute(`C:\gear\cache`) {
		t.Error("expected drive path absolute")
	}
	if IsAbsolute("a/b") {
		t.Error("expected a/b relative")
	}
	if IsAbsolute("") {
		t.Error("expected empty path relative")
	}
}

func TestOSRoundTrip(t *testing.T) {
	fs := NewOS(nil)
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "unit.json")

	if fs.Exists(path) {
		t.Fatal("file should not exist yet")
	}
	if !fs.CreateDirectory(filepath.Dir(path)) {
		t.Fatal("CreateDirectory failed")
	}
	// Idempotent on existing directory.
	if !fs.CreateDirectory(filepath.Dir(path)) {
		t.Fatal("CreateDirectory should succeed on existing directory")
	}
	if !fs.WriteFile(path, `{"unitId":"u1"}`) {
		t.Fatal("WriteFile failed")
	}
	content, ok := fs.ReadFile(path)
	if !ok || content != `{"unitId":"u1"}` {
		t.Fatalf("ReadFile = %q, %v", content, ok)
	}
	if fs.FileSize(path) != int64(len(content)) {
		t.Fatalf("FileSize = %d", fs.FileSize(path))
	}
	if fs.ModTime(path).IsZero() {
		t.Fatal("ModTime should not be zero for existing file")
	}

	moved := filepath.Join(dir, "sub", "moved.json")
	if !fs.Move(path, moved) {
		t.Fatal("Move failed")
	}
	if fs.Exists(path) || !fs.Exists(moved) {
		t.Fatal("Move left wrong files behind")
	}

	names := fs.List(filepath.Dir(moved))
	if len(names) != 1 || names[0] != "moved.json" {
		t.Fatalf("List = %v", names)
	}

	if !fs.Remove(moved) {
		t.Fatal("Remove failed")
	}
	if fs.Exists(moved) {
		t.Fatal("file still exists after Remove")
	}
}

func TestOSFailureSentinels(t *testing.T) {
	fs := NewOS(nil)

	if _, ok := fs.ReadFile(""); ok {
		t.Error("ReadFile on empty path should fail")
	}
	if fs.FileSize("") != -1 {
		t.Error("FileSize on empty path should be -1")
	}
	if fs.FileSize(filepath.Join(t.TempDir(), "missing")) != -1 {
		t.Error("FileSize on missing file should be -1")
	}
	if !fs.ModTime("").IsZero() {
		t.Error("ModTime on empty path should be zero")
	}
	if fs.WriteFile("", "x") {
		t.Error("WriteFile on empty path should fail")
	}
}

func TestOSExistsUnreadableJPEG(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission bits do not bind for root")
	}
	fs := NewOS(nil)
	dir := t.TempDir()
	path := filepath.Join(dir, "faceplate.jpg")

	if err := os.WriteFile(path, []byte{0xff, 0xd8}, 0o000); err != nil {
		t.Fatal(err)
	}
	if fs.Exists(path) {
		t.Fatal("unreadable jpeg should be reported absent")
	}

	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatal(err)
	}
	if !fs.Exists(path) {
		t.Fatal("readable jpeg should be reported present")
	}
}

func TestNullFailsEverything(t *testing.T) {
	fs := NewNull(nil)

	if fs.Exists("/tmp") {
		t.Error("Null.Exists should be false")
	}
	if fs.CreateDirectory("/tmp/x") {
		t.Error("Null.CreateDirectory should fail")
	}
	if _, ok := fs.ReadBinary("/tmp/x"); ok {
		t.Error("Null.ReadBinary should fail")
	}
	if fs.WriteFile("/tmp/x", "data") {
		t.Error("Null.WriteFile should fail")
	}
	if fs.FileSize("/tmp/x") != -1 {
		t.Error("Null.FileSize should be -1")
	}
	if got := fs.List("/tmp"); got != nil {
		t.Errorf("Null.List should be nil, got %v", got)
	}
}
