package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dshills/shiftplan/internal/config"
	"github.com/dshills/shiftplan/internal/logging"
	"github.com/dshills/shiftplan/internal/store"
)

// setup loads configuration, applies command-line overrides and builds the
// logger shared by every store a command opens.
func setup(c *cli.Context) (*config.Config, *logging.Logger, error) {
	opts := []config.Option{config.WithEnv(!c.Bool("no-env"))}
	if path := c.String("config"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, nil, fmt.Errorf("config: %w", err)
		}
		opts = append(opts, config.WithFile(path))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, nil, err
	}

	if c.IsSet("block-size") {
		n := c.Int("block-size")
		if n <= 0 {
			return nil, nil, fmt.Errorf("block size must be positive, got %d", n)
		}
		if err := cfg.Set("flush.maxBlockSize", n); err != nil {
			return nil, nil, err
		}
	}
	if c.IsSet("log-level") {
		if err := cfg.Set("logging.level", c.String("log-level")); err != nil {
			return nil, nil, err
		}
	}
	if c.IsSet("watch") {
		if err := cfg.Set("medium.watch", c.Bool("watch")); err != nil {
			return nil, nil, err
		}
	}

	lc := cfg.Logging()
	level, err := logging.ParseLevel(lc.Level)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(logging.Config{
		Level:  level,
		Output: c.App.ErrWriter,
		Prefix: lc.Prefix,
	})
	return cfg, logger, nil
}

func storeOptions(cfg *config.Config, logger *logging.Logger, m *store.Metrics) []store.Option {
	return []store.Option{store.WithConfig(cfg), store.WithLogger(logger), store.WithMetrics(m)}
}
