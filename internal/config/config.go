// Package config provides layered configuration for shiftplan.
//
// Settings are resolved from four layers, lowest priority first:
//
//  1. Built-in defaults
//  2. A TOML file (optional)
//  3. SHIFTPLAN_* environment variables
//  4. Overrides set at runtime with Set (command-line flags)
//
// Layers are deep-merged: a section present in a higher layer only replaces
// the settings it names.
package config

import (
	"fmt"
	"sync"

	"github.com/dshills/shiftplan/internal/config/loader"
)

// Config is the merged configuration. It is safe for concurrent use.
type Config struct {
	mu sync.RWMutex

	fs        loader.FileSystem
	path      string
	envPrefix string
	useEnv    bool

	defaults  map[string]any
	file      map[string]any
	env       map[string]any
	overrides map[string]any

	merged map[string]any
}

// Option configures a Config.
type Option func(*Config)

// WithFile sets the TOML file to load. A missing file is not an error.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithFileSystem sets the file system used to read the TOML file.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithEnv enables or disables the environment layer.
func WithEnv(enabled bool) Option {
	return func(c *Config) {
		c.useEnv = enabled
	}
}

// New creates a Config holding only the built-in defaults. Call Load to
// read the file and environment layers.
func New(opts ...Option) *Config {
	c := &Config{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		useEnv:    true,
		defaults:  defaultConfig(),
		overrides: make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.remerge()
	return c
}

// Load is a convenience for New followed by Load.
func Load(opts ...Option) (*Config, error) {
	c := New(opts...)
	if err := c.Load(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load (re)reads the file and environment layers.
func (c *Config) Load() error {
	var file, env map[string]any
	var err error

	if c.path != "" {
		file, err = loader.NewTOMLLoaderWithFS(c.fs, c.path).Load()
		if err != nil {
			return fmt.Errorf("loading config file: %w", err)
		}
	}
	if c.useEnv {
		env, err = loader.NewEnvLoader(c.envPrefix).Load()
		if err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.file = file
	c.env = env
	c.remerge()
	return nil
}

// remerge rebuilds the merged view. Caller holds the write lock or owns c.
func (c *Config) remerge() {
	merged := loader.Clone(c.defaults)
	for _, layer := range []map[string]any{c.file, c.env, c.overrides} {
		merged = loader.DeepMerge(merged, layer)
	}
	c.merged = merged
}

// Path returns the configured TOML file path, if any.
func (c *Config) Path() string {
	return c.path
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return getPath(c.merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// Set stores a value in the override layer, which has the highest priority.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := setPath(c.overrides, path, value); err != nil {
		return fmt.Errorf("setting %q: %w", path, err)
	}
	c.remerge()
	return nil
}

// Merged returns a copy of the fully merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.merged)
}

func defaultConfig() map[string]any {
	return map[string]any{
		"flush": map[string]any{
			"maxBlockSize": DefaultMaxBlockSize,
		},
		"medium": map[string]any{
			"detectChanges": true,
			"watch":         false,
		},
		"logging": map[string]any{
			"level":  "info",
			"prefix": "shiftplan",
		},
	}
}
