package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"trackdig/internal/cache"
	"trackdig/internal/config"
	"trackdig/internal/logging"
	"trackdig/internal/research"
	"trackdig/internal/sources"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
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

// openStore opens the cache database. Callers own the returned store and
// must close it.
func (c *commandContext) openStore() (*cache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := cache.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return store, nil
}

// buildEngine wires the full research stack: logger, cache store, source
// adapters, collectors, and the orchestrator. The returned cleanup closes
// the store.
func (c *commandContext) buildEngine(ctx context.Context) (*research.Orchestrator, *slog.Logger, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("configure logging: %w", err)
	}

	store, err := c.openStore()
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() { _ = store.Close() }

	searchers, err := sources.BuildSearchers(ctx, cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	byName := sources.BuildCollectors(cfg, store, searchers, logger)

	// Deterministic collector order, independent of map iteration.
	collectors := make([]*sources.Collector, 0, len(byName))
	for _, name := range config.KnownSources {
		if collector, ok := byName[name]; ok {
			collectors = append(collectors, collector)
		}
	}

	return research.New(cfg, collectors, store, logger), logger, cleanup, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
