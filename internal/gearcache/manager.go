package gearcache

import (
	"log/slog"
	"sync"

	"github.com/gofrs/flock"

	"gearrack/internal/fsys"
	"gearrack/internal/logging"
)

const (
	unitsDir      = "units"
	assetsDir     = "assets"
	faceplatesDir = "faceplates"
	thumbnailsDir = "thumbnails"
	controlsDir   = "controls"

	recentlyUsedFile = "recently_used.json"
	favoritesFile    = "favorites.json"
	sidecarLockFile  = "lists.lock"

	// DefaultRecentlyUsedLimit caps the recently-used list.
	DefaultRecentlyUsedLimit = 20
)

// controlTypeDirs are the control-image subfolders pre-created at init.
var controlTypeDirs = []string{"buttons", "faders", "knobs", "switches"}

// Manager is a keyed store over the file system abstraction. Construct one
// per cache root and pass it to every consumer; there is no ambient global.
type Manager struct {
	root   string
	fs     fsys.FileSystem
	logger *slog.Logger

	recentLimit int
	sidecarLock *flock.Flock
	statfs      statfsFunc

	mu                  sync.Mutex
	favoritesCache      []string
	favoritesCacheValid bool
}

// Option customizes Manager construction.
type Option func(*Manager)

// WithRecentlyUsedLimit overrides the recently-used list cap.
func WithRecentlyUsedLimit(limit int) Option {
	return func(m *Manager) {
		if limit > 0 {
			m.recentLimit = limit
		}
	}
}

// withStatfs stubs the filesystem stats probe in tests.
func withStatfs(fn statfsFunc) Option {
	return func(m *Manager) {
		m.statfs = fn
	}
}

// NewManager builds a cache manager rooted at root. The file system is
// required; a nil logger is replaced with a no-op logger.
func NewManager(root string, fs fsys.FileSystem, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		root:        fsys.Normalize(root),
		fs:          fs,
		logger:      logging.NewComponentLogger(logger, "gearcache"),
		recentLimit: DefaultRecentlyUsedLimit,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.sidecarLock = flock.New(fsys.Join(m.root, sidecarLockFile))
	return m
}

// Root returns the cache root directory.
func (m *Manager) Root() string {
	return m.root
}

// Initialize creates the root and every fixed subdirectory. It is idempotent
// and returns false on the first creation failure; directories created before
// the failure are left in place.
func (m *Manager) Initialize() bool {
	if m.root == "" {
		return false
	}
	dirs := []string{
		m.root,
		fsys.Join(m.root, unitsDir),
		fsys.Join(m.root, assetsDir),
		m.faceplateRoot(),
		m.thumbnailRoot(),
		m.controlRoot(),
	}
	for _, sub := range controlTypeDirs {
		dirs = append(dirs, fsys.Join(m.controlRoot(), sub))
	}
	for _, dir := range dirs {
		if !m.fs.CreateDirectory(dir) {
			m.logger.Warn("cache directory creation failed",
				logging.String(logging.FieldPath, dir),
				logging.String(logging.FieldErrorHint, "check cache root permissions"))
			return false
		}
	}
	return true
}

// Size returns the recursive byte size of the cache tree, 0 when the root
// does not exist.
func (m *Manager) Size() int64 {
	if m.root == "" || !m.fs.Exists(m.root) {
		return 0
	}
	return m.sizeOf(m.root)
}

func (m *Manager) sizeOf(dir string) int64 {
	var total int64
	for _, name := range m.fs.List(dir) {
		child := fsys.Join(dir, name)
		if m.fs.IsDirectory(child) {
			total += m.sizeOf(child)
			continue
		}
		if size := m.fs.FileSize(child); size > 0 {
			total += size
		}
	}
	return total
}

// Clear deletes the entire cache tree. A root that is already absent counts
// as success.
func (m *Manager) Clear() bool {
	if m.root == "" {
		return false
	}
	if !m.fs.Exists(m.root) {
		return true
	}
	ok := m.fs.RemoveAll(m.root)
	if ok {
		m.mu.Lock()
		m.favoritesCache = nil
		m.favoritesCacheValid = false
		m.mu.Unlock()
	}
	return ok
}

func (m *Manager) faceplateRoot() string {
	return fsys.Join(fsys.Join(m.root, assetsDir), faceplatesDir)
}

func (m *Manager) thumbnailRoot() string {
	return fsys.Join(fsys.Join(m.root, assetsDir), thumbnailsDir)
}

func (m *Manager) controlRoot() string {
	return fsys.Join(fsys.Join(m.root, assetsDir), controlsDir)
}

// ensureParent creates the parent directory of path before a write.
func (m *Manager) ensureParent(path string) bool {
	parent := fsys.ParentDirectory(path)
	if parent == "" {
		return true
	}
	return m.fs.CreateDirectory(parent)
}
