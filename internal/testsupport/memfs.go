package testsupport

import (
	"sort"
	"strings"
	"sync"
	"time"

	"gearrack/internal/fsys"
)

// MemFS is an in-memory fsys.FileSystem for deterministic tests. Paths are
// normalized on every call so OS-style and slash-style inputs address the
// same entries. FailWrites flips every mutating operation into a failure,
// exercising the cache layer's error-conversion boundary.
type MemFS struct {
	mu         sync.Mutex
	files      map[string][]byte
	dirs       map[string]bool
	modTimes   map[string]time.Time
	FailWrites bool
}

var _ fsys.FileSystem = (*MemFS)(nil)

// NewMemFS builds an empty in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{
		files:    make(map[string][]byte),
		dirs:     make(map[string]bool),
		modTimes: make(map[string]time.Time),
	}
}

func (m *MemFS) Exists(path string) bool {
	path = fsys.Normalize(path)
	if path == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; ok {
		return true
	}
	return m.dirs[path]
}

func (m *MemFS) IsDirectory(path string) bool {
	path = fsys.Normalize(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirs[path]
}

func (m *MemFS) ReadFile(path string) (string, bool) {
	data, ok := m.ReadBinary(path)
	if !ok {
		return "", false
	}
	return string(data), true
}

func (m *MemFS) ReadBinary(path string) ([]byte, bool) {
	path = fsys.Normalize(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

func (m *MemFS) WriteFile(path, content string) bool {
	return m.WriteBinary(path, []byte(content))
}

func (m *MemFS) WriteBinary(path string, data []byte) bool {
	path = fsys.Normalize(path)
	if path == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return false
	}
	m.files[path] = append([]byte(nil), data...)
	m.modTimes[path] = time.Now()
	return true
}

func (m *MemFS) Remove(path string) bool {
	path = fsys.Normalize(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return false
	}
	if _, ok := m.files[path]; !ok {
		return false
	}
	delete(m.files, path)
	delete(m.modTimes, path)
	return true
}

func (m *MemFS) RemoveAll(path string) bool {
	path = fsys.Normalize(path)
	if path == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return false
	}
	prefix := path + "/"
	for name := range m.files {
		if name == path || strings.HasPrefix(name, prefix) {
			delete(m.files, name)
			delete(m.modTimes, name)
		}
	}
	for name := range m.dirs {
		if name == path || strings.HasPrefix(name, prefix) {
			delete(m.dirs, name)
		}
	}
	return true
}

func (m *MemFS) Move(oldPath, newPath string) bool {
	oldPath = fsys.Normalize(oldPath)
	newPath = fsys.Normalize(newPath)
	if oldPath == "" || newPath == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return false
	}
	data, ok := m.files[oldPath]
	if !ok {
		return false
	}
	delete(m.files, oldPath)
	m.files[newPath] = data
	m.modTimes[newPath] = time.Now()
	delete(m.modTimes, oldPath)
	return true
}

func (m *MemFS) CreateDirectory(path string) bool {
	path = fsys.Normalize(path)
	if path == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return false
	}
	// Create all ancestors, MkdirAll style.
	segments := strings.Split(path, "/")
	current := ""
	for i, seg := range segments {
		if i == 0 {
			current = seg
			if current == "" {
				current = "/"
			}
		} else {
			current = strings.TrimRight(current, "/") + "/" + seg
		}
		m.dirs[current] = true
	}
	return true
}

func (m *MemFS) List(dir string) []string {
	dir = fsys.Normalize(dir)
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirs[dir] {
		return nil
	}
	prefix := strings.TrimRight(dir, "/") + "/"
	seen := make(map[string]bool)
	for name := range m.files {
		if strings.HasPrefix(name, prefix) {
			rest := strings.TrimPrefix(name, prefix)
			seen[strings.SplitN(rest, "/", 2)[0]] = true
		}
	}
	for name := range m.dirs {
		if strings.HasPrefix(name, prefix) {
			rest := strings.TrimPrefix(name, prefix)
			seen[strings.SplitN(rest, "/", 2)[0]] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *MemFS) FileSize(path string) int64 {
	path = fsys.Normalize(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return -1
	}
	return int64(len(data))
}

func (m *MemFS) ModTime(path string) time.Time {
	path = fsys.Normalize(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modTimes[path]
}
