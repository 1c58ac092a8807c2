// Package config loads the optional seed.toml configuration file.
//
// A config file has three sections, all optional:
//
//	[layout]
//	viewport_width = 1024
//	font_size = 14
//
//	[cache]
//	backend = "sqlite"
//	ttl = "12h"
//
//	[server]
//	addr = ":8080"
//
// Command-line flags override values from the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/seed/pkg/cache"
	"github.com/matzehuels/seed/pkg/errors"
	"github.com/matzehuels/seed/pkg/pipeline"
)

const (
	// FileName is the config file name looked up in the config directories.
	FileName = "seed.toml"

	// DefaultServerAddr is the listen address of `seed serve`.
	DefaultServerAddr = ":8080"

	// DefaultMongoDatabase holds the cache collection when mongo_database is unset.
	DefaultMongoDatabase = "seed"

	appName = "seed"
)

// Config is the decoded seed.toml.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// LayoutConfig mirrors [pipeline.Options].
type LayoutConfig struct {
	ViewportWidth  float64 `toml:"viewport_width"`
	ViewportHeight float64 `toml:"viewport_height"`
	FontSize       float64 `toml:"font_size"`
	LineHeight     float64 `toml:"line_height"`
	MaxIterations  int     `toml:"max_iterations"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	TTL           time.Duration `toml:"ttl"`
	RedisAddr     string        `toml:"redis_addr"`
	MongoURI      string        `toml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database"`
	SQLitePath    string        `toml:"sqlite_path"`
	Prefix        string        `toml:"prefix"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cache:  CacheConfig{Backend: cache.BackendFile},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// Load reads the config file at path. An empty path searches the default
// locations and falls back to [Default] when none exists. An explicit
// path that does not exist is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = find()
		if path == "" {
			return Default(), nil
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	return LoadFile(path)
}

// LoadFile decodes the config file at path on top of [Default].
// Unknown keys are rejected so that typos do not go unnoticed.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	cfg.Path = path
	return cfg, nil
}

// Validate checks values that the consumers would otherwise reject late.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendFile, cache.BackendSQLite:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache backend redis needs redis_addr")
		}
	case cache.BackendMongo:
		if c.Cache.MongoURI == "" {
			return fmt.Errorf("cache backend mongo needs mongo_uri")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must be non-negative, got %s", c.Cache.TTL)
	}
	opts := c.Options()
	return opts.ValidateAndSetDefaults()
}

// Options returns the layout section as pipeline options. Zero values are
// left for [pipeline.Options.ValidateAndSetDefaults] to fill.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		ViewportWidth:  c.Layout.ViewportWidth,
		ViewportHeight: c.Layout.ViewportHeight,
		FontSize:       c.Layout.FontSize,
		LineHeight:     c.Layout.LineHeight,
		MaxIterations:  c.Layout.MaxIterations,
	}
}

// CacheOptions returns the cache section as [cache.Open] options.
func (c *Config) CacheOptions() cache.Options {
	db := c.Cache.MongoDatabase
	if db == "" {
		db = DefaultMongoDatabase
	}
	return cache.Options{
		Backend:       c.Cache.Backend,
		Dir:           c.Cache.Dir,
		SQLitePath:    c.Cache.SQLitePath,
		RedisAddr:     c.Cache.RedisAddr,
		MongoURI:      c.Cache.MongoURI,
		MongoDatabase: db,
		Prefix:        c.Cache.Prefix,
	}
}

// SearchPaths returns the default config locations in lookup order:
// $XDG_CONFIG_HOME/seed/seed.toml, then ~/.config/seed/seed.toml.
func SearchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, appName, FileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", appName, FileName)
		if len(paths) == 0 || paths[0] != p {
			paths = append(paths, p)
		}
	}
	return paths
}

func find() string {
	for _, p := range SearchPaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
