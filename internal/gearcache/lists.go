package gearcache

import (
	"encoding/json"

	"gearrack/internal/fsys"
	"gearrack/internal/logging"
)

type recentlyUsedDoc struct {
	RecentlyUsed []string `json:"recentlyUsed"`
}

type favoritesDoc struct {
	Favorites []string `json:"favorites"`
}

// RecentlyUsed returns unit ids most-recent-first. The sidecar is read on
// every call; the list carries no memory cache.
func (m *Manager) RecentlyUsed() []string {
	var doc recentlyUsedDoc
	m.readSidecar(recentlyUsedFile, &doc)
	return doc.RecentlyUsed
}

// AddRecentlyUsed moves unitID to the front of the list, dropping any prior
// occurrence, and evicts the oldest entry past the cap.
func (m *Manager) AddRecentlyUsed(unitID string) bool {
	if unitID == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var doc recentlyUsedDoc
	m.readSidecar(recentlyUsedFile, &doc)

	next := make([]string, 0, len(doc.RecentlyUsed)+1)
	next = append(next, unitID)
	for _, id := range doc.RecentlyUsed {
		if id != unitID {
			next = append(next, id)
		}
	}
	if len(next) > m.recentLimit {
		next = next[:m.recentLimit]
	}
	doc.RecentlyUsed = next
	return m.writeSidecar(recentlyUsedFile, doc)
}

// ClearRecentlyUsed empties the list.
func (m *Manager) ClearRecentlyUsed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeSidecar(recentlyUsedFile, recentlyUsedDoc{RecentlyUsed: []string{}})
}

// Favorites returns the favorite unit ids. Reads hit the in-memory cache
// when it is valid; otherwise the sidecar is loaded and the cache
// repopulated.
func (m *Manager) Favorites() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.favoritesLocked()...)
}

// IsFavorite reports whether unitID is in the favorites set.
func (m *Manager) IsFavorite(unitID string) bool {
	if unitID == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.favoritesLocked() {
		if id == unitID {
			return true
		}
	}
	return false
}

// AddFavorite inserts unitID into the set. Adding a present id is a success.
func (m *Manager) AddFavorite(unitID string) bool {
	if unitID == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.favoritesLocked()
	for _, id := range current {
		if id == unitID {
			return true
		}
	}
	next := append(append([]string(nil), current...), unitID)
	return m.mutateFavoritesLocked(next)
}

// RemoveFavorite deletes unitID from the set. Removing an absent id is a
// success.
func (m *Manager) RemoveFavorite(unitID string) bool {
	if unitID == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.favoritesLocked()
	next := make([]string, 0, len(current))
	found := false
	for _, id := range current {
		if id == unitID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if !found {
		return true
	}
	return m.mutateFavoritesLocked(next)
}

// ClearFavorites empties the set.
func (m *Manager) ClearFavorites() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutateFavoritesLocked([]string{})
}

// favoritesLocked returns the cached set, reloading from disk when the cache
// is invalid. Callers must hold m.mu.
func (m *Manager) favoritesLocked() []string {
	if m.favoritesCacheValid {
		return m.favoritesCache
	}
	var doc favoritesDoc
	m.readSidecar(favoritesFile, &doc)
	m.favoritesCache = doc.Favorites
	m.favoritesCacheValid = true
	return m.favoritesCache
}

// mutateFavoritesLocked persists the new set and invalidates the memory
// cache before returning, so the very next read observes the mutation even
// on the same call stack. Callers must hold m.mu.
func (m *Manager) mutateFavoritesLocked(next []string) bool {
	if !m.writeSidecar(favoritesFile, favoritesDoc{Favorites: next}) {
		return false
	}
	m.favoritesCache = nil
	m.favoritesCacheValid = false
	return true
}

func (m *Manager) readSidecar(name string, out any) {
	content, ok := m.fs.ReadFile(fsys.Join(m.root, name))
	if !ok || content == "" {
		return
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		m.logger.Warn("sidecar file is corrupt",
			logging.String(logging.FieldPath, name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "list will start empty"))
	}
}

// writeSidecar persists a sidecar document under the cross-process lock. The
// lock is best-effort: when it cannot be acquired (no real file system under
// the root) the write proceeds guarded by m.mu alone.
func (m *Manager) writeSidecar(name string, doc any) bool {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return false
	}
	if locked, err := m.sidecarLock.TryLock(); err == nil && locked {
		defer func() { _ = m.sidecarLock.Unlock() }()
	}
	if !m.fs.CreateDirectory(m.root) {
		return false
	}
	return m.fs.WriteFile(fsys.Join(m.root, name), string(data))
}
