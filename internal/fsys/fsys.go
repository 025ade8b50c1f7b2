package fsys

import (
	"path"
	"strings"
	"time"
)

// FileSystem is the capability interface the cache layer stores through.
// Operations never panic; failures surface as false, empty results, a -1
// size, or a zero time.
type FileSystem interface {
	Exists(path string) bool
	IsDirectory(path string) bool
	ReadFile(path string) (string, bool)
	ReadBinary(path string) ([]byte, bool)
	WriteFile(path, content string) bool
	WriteBinary(path string, data []byte) bool
	Remove(path string) bool
	RemoveAll(path string) bool
	Move(oldPath, newPath string) bool
	CreateDirectory(path string) bool
	List(dir string) []string
	FileSize(path string) int64
	ModTime(path string) time.Time
}

// FileName returns the final path segment, or "" for empty input.
func FileName(p string) string {
	if p == "" {
		return ""
	}
	return path.Base(toSlash(p))
}

// ParentDirectory returns the path with the final segment removed, or "" for
// empty input or a path without a parent.
func ParentDirectory(p string) string {
	if p == "" {
		return ""
	}
	dir := path.Dir(toSlash(p))
	if dir == "." {
		return ""
	}
	return dir
}

// Join appends second to first with a single separator. An empty first
// segment yields "", an empty second segment yields first unchanged.
func Join(first, second string) string {
	if first == "" {
		return ""
	}
	if second == "" {
		return first
	}
	return strings.TrimRight(toSlash(first), "/") + "/" + strings.TrimLeft(toSlash(second), "/")
}

// IsAbsolute reports whether p is an absolute path. Windows drive prefixes
// count as absolute so cached trees copied across systems still resolve.
func IsAbsolute(p string) bool {
	p = toSlash(p)
	if strings.HasPrefix(p, "/") {
		return true
	}
	return len(p) >= 3 && p[1] == ':' && p[2] == '/'
}

// Normalize cleans separators and collapses "." and ".." segments. Empty
// input stays empty.
func Normalize(p string) string {
	if p == "" {
		return ""
	}
	return path.Clean(toSlash(p))
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
