package testsupport

import (
	"path/filepath"
	"testing"

	"gearrack/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.PresetsDir = filepath.Join(base, "presets")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Catalog.Path = filepath.Join(base, "cache", "catalog.db")
	cfg.Remote.Offline = true

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSlotCount overrides the rack slot count on the test config.
func WithSlotCount(count int) ConfigOption {
	return func(c *config.Config) {
		c.Rack.SlotCount = count
	}
}

// WithRemote points the test config at a live endpoint and disables offline
// mode.
func WithRemote(baseURL string) ConfigOption {
	return func(c *config.Config) {
		c.Remote.BaseURL = baseURL
		c.Remote.Offline = false
	}
}
