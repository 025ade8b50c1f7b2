package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultPresetsDir        = "~/.local/share/gearrack/presets"
	defaultLogDir            = "~/.local/share/gearrack/logs"
	defaultRemoteBaseURL     = "https://gear.rackextender.com/library"
	defaultRemoteTimeout     = 10
	defaultRemoteRedirects   = 5
	defaultSlotCount         = 8
	defaultRecentlyUsedLimit = 20
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	cacheSubdir              = "gearrack"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir:   defaultCacheDir(),
			PresetsDir: defaultPresetsDir,
			LogDir:     defaultLogDir,
		},
		Remote: Remote{
			BaseURL:        defaultRemoteBaseURL,
			TimeoutSeconds: defaultRemoteTimeout,
			MaxRedirects:   defaultRemoteRedirects,
		},
		Rack: Rack{
			SlotCount:         defaultSlotCount,
			RecentlyUsedLimit: defaultRecentlyUsedLimit,
		},
		Catalog: Catalog{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// defaultCacheDir derives the per-user cache root: the OS cache location plus
// a fixed subdirectory name.
func defaultCacheDir() string {
	if base, err := os.UserCacheDir(); err == nil && strings.TrimSpace(base) != "" {
		return filepath.Join(base, cacheSubdir)
	}
	return filepath.Join("~", ".cache", cacheSubdir)
}
