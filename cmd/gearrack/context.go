package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gearrack/internal/catalog"
	"gearrack/internal/config"
	"gearrack/internal/fetch"
	"gearrack/internal/fsys"
	"gearrack/internal/gearcache"
	"gearrack/internal/library"
	"gearrack/internal/logging"
	"gearrack/internal/presets"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// cliLogger logs warnings and above to stderr so command output stays clean.
func (c *commandContext) cliLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.New(logging.Options{Level: "warn", Format: "console"})
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) cacheManager() (*gearcache.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	fs := fsys.NewOS(c.cliLogger())
	manager := gearcache.NewManager(cfg.Paths.CacheDir, fs, c.cliLogger(),
		gearcache.WithRecentlyUsedLimit(cfg.Rack.RecentlyUsedLimit))
	if !manager.Initialize() {
		return nil, fmt.Errorf("initialize cache at %s", cfg.Paths.CacheDir)
	}
	return manager, nil
}

func (c *commandContext) presetManager() (*presets.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	fs := fsys.NewOS(c.cliLogger())
	return presets.NewManager(cfg.Paths.PresetsDir, fs, c.cliLogger()), nil
}

// withCatalog opens the catalog index, runs fn, and closes it again. It fails
// when the catalog is disabled in configuration.
func (c *commandContext) withCatalog(fn func(*catalog.Index) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Catalog.Enabled {
		return fmt.Errorf("catalog is disabled; enable it in the [catalog] config section")
	}
	index, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer index.Close()
	return fn(index)
}

// newLibrary wires a library over the configured remote endpoint and cache.
// The returned cleanup closes the catalog index when one was opened.
func (c *commandContext) newLibrary() (*library.Library, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	manager, err := c.cacheManager()
	if err != nil {
		return nil, nil, err
	}

	var fetcher fetch.Fetcher
	if cfg.Remote.Offline {
		fetcher = fetch.NewNull(c.cliLogger())
	} else {
		fetcher = fetch.NewHTTP(fetch.Options{
			Timeout:      time.Duration(cfg.Remote.TimeoutSeconds) * time.Second,
			MaxRedirects: cfg.Remote.MaxRedirects,
		}, c.cliLogger())
	}

	cleanup := func() {}
	var index *catalog.Index
	if cfg.Catalog.Enabled {
		index, err = catalog.Open(cfg.Catalog.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open catalog: %w", err)
		}
		cleanup = func() { index.Close() }
	}

	lib := library.New(library.Options{
		BaseURL: cfg.Remote.BaseURL,
		Fetcher: fetcher,
		Cache:   manager,
		Index:   index,
		Logger:  c.cliLogger(),
	})
	return lib, cleanup, nil
}
