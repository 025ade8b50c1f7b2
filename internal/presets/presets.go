package presets

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"gearrack/internal/fsys"
	"gearrack/internal/logging"
	"gearrack/internal/rack"
)

const (
	presetExtension = ".json"
	maxNameLength   = 64
)

// Manager stores named presets under one directory.
type Manager struct {
	dir    string
	fs     fsys.FileSystem
	logger *slog.Logger

	mu        sync.Mutex
	lastError string
}

// NewManager builds a preset manager over the given directory.
func NewManager(dir string, fs fsys.FileSystem, logger *slog.Logger) *Manager {
	return &Manager{
		dir:    fsys.Normalize(dir),
		fs:     fs,
		logger: logging.NewComponentLogger(logger, "presets"),
	}
}

// LastError returns the human-readable cause of the most recent failure,
// "" when the last operation succeeded.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

func (m *Manager) fail(format string, args ...any) bool {
	message := fmt.Sprintf(format, args...)
	m.mu.Lock()
	m.lastError = message
	m.mu.Unlock()
	m.logger.Warn("preset operation failed", logging.String("reason", message))
	return false
}

func (m *Manager) succeed() bool {
	m.mu.Lock()
	m.lastError = ""
	m.mu.Unlock()
	return true
}

// ValidateName checks a candidate preset name: non-empty after trimming,
// bounded length, no path separators or control characters.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("preset name is empty")
	}
	if len(trimmed) > maxNameLength {
		return fmt.Errorf("preset name exceeds %d characters", maxNameLength)
	}
	if strings.ContainsAny(trimmed, `/\`) {
		return fmt.Errorf("preset name must not contain path separators")
	}
	for _, r := range trimmed {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("preset name contains control characters")
		}
	}
	return nil
}

// Exists reports whether a preset with the given name is already stored.
func (m *Manager) Exists(name string) bool {
	if ValidateName(name) != nil {
		return false
	}
	return m.fs.Exists(m.presetPath(name))
}

// SavePreset writes the state tree under name, overwriting any existing
// preset with that name. Conflict handling is the caller's concern; check
// Exists first when overwrite needs confirmation.
func (m *Manager) SavePreset(name string, tree *rack.StateNode) bool {
	if err := ValidateName(name); err != nil {
		return m.fail("invalid preset name: %v", err)
	}
	if tree == nil {
		return m.fail("preset %q has no state to save", strings.TrimSpace(name))
	}
	data, err := rack.MarshalState(tree)
	if err != nil {
		return m.fail("encode preset %q: %v", strings.TrimSpace(name), err)
	}
	if !m.fs.CreateDirectory(m.dir) {
		return m.fail("create presets directory %q", m.dir)
	}

	target := m.presetPath(name)
	tmp := target + ".tmp"
	if !m.fs.WriteFile(tmp, string(data)) {
		return m.fail("write preset %q", strings.TrimSpace(name))
	}
	if !m.fs.Move(tmp, target) {
		m.fs.Remove(tmp)
		return m.fail("store preset %q", strings.TrimSpace(name))
	}
	return m.succeed()
}

// LoadPreset reads the state tree stored under name.
func (m *Manager) LoadPreset(name string) (*rack.StateNode, bool) {
	if err := ValidateName(name); err != nil {
		m.fail("invalid preset name: %v", err)
		return nil, false
	}
	content, ok := m.fs.ReadFile(m.presetPath(name))
	if !ok {
		m.fail("preset %q not found", strings.TrimSpace(name))
		return nil, false
	}
	tree, err := rack.UnmarshalState([]byte(content))
	if err != nil {
		m.fail("preset %q is corrupt: %v", strings.TrimSpace(name), err)
		return nil, false
	}
	m.succeed()
	return tree, true
}

// DeletePreset removes the preset stored under name.
func (m *Manager) DeletePreset(name string) bool {
	if err := ValidateName(name); err != nil {
		return m.fail("invalid preset name: %v", err)
	}
	path := m.presetPath(name)
	if !m.fs.Exists(path) {
		return m.fail("preset %q not found", strings.TrimSpace(name))
	}
	if !m.fs.Remove(path) {
		return m.fail("delete preset %q", strings.TrimSpace(name))
	}
	return m.succeed()
}

// PresetNames lists stored preset names sorted alphabetically.
func (m *Manager) PresetNames() []string {
	entries := m.fs.List(m.dir)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !strings.HasSuffix(entry, presetExtension) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry, presetExtension))
	}
	sort.Strings(names)
	return names
}

func (m *Manager) presetPath(name string) string {
	return fsys.Join(m.dir, strings.TrimSpace(name)+presetExtension)
}
