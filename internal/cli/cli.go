// Package cli implements the seed command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seed/pkg/buildinfo"
	"github.com/matzehuels/seed/pkg/cache"
	"github.com/matzehuels/seed/pkg/config"
	"github.com/matzehuels/seed/pkg/errors"
	"github.com/matzehuels/seed/pkg/observability"
	"github.com/matzehuels/seed/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "seed"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag. Empty searches the default locations.
	ConfigPath string

	config *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline,
// cache and HTTP hooks are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Register()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Seed lays out design documents with linear constraints",
		Long:         `Seed is a layout engine for design documents. It solves the constraints, auto layout and grid rules of a document and writes the resulting layout tree.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", c.ConfigPath, "config file (default: $XDG_CONFIG_HOME/seed/seed.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.rpcCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads the config file once per CLI.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	c.config = cfg
	return cfg, nil
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	runner.TTL = cfg.Cache.TTL
	return runner, nil
}

func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	opts := cfg.CacheOptions()
	if opts.Dir == "" && (opts.Backend == "" || opts.Backend == cache.BackendFile || opts.Backend == cache.BackendSQLite) {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		opts.Dir = dir
	}
	return cache.Open(ctx, opts)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/seed/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the layout options shared by several commands.
// Zero values keep the config file (or built-in) defaults.
type layoutFlags struct {
	viewport      string
	fontSize      float64
	lineHeight    float64
	maxIterations int
	suggest       []string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.viewport, "viewport", "", "viewport size as WxH (e.g. 1024x768)")
	cmd.Flags().Float64Var(&f.fontSize, "font-size", 0, "base font size in pixels")
	cmd.Flags().Float64Var(&f.lineHeight, "line-height", 0, "text line height multiplier")
	cmd.Flags().IntVar(&f.maxIterations, "max-iterations", 0, "solver pivot limit per optimization")
	cmd.Flags().StringArrayVar(&f.suggest, "suggest", nil, "suggest a value as Name.property=value (repeatable)")
}

// options merges the flags over the configured layout options.
func (f *layoutFlags) options(cfg *config.Config) (pipeline.Options, error) {
	opts := cfg.Options()
	if f.viewport != "" {
		w, h, err := parseViewport(f.viewport)
		if err != nil {
			return opts, err
		}
		opts.ViewportWidth, opts.ViewportHeight = w, h
	}
	if f.fontSize != 0 {
		opts.FontSize = f.fontSize
	}
	if f.lineHeight != 0 {
		opts.LineHeight = f.lineHeight
	}
	if f.maxIterations != 0 {
		opts.MaxIterations = f.maxIterations
	}
	for _, s := range f.suggest {
		sg, err := pipeline.ParseSuggestion(s)
		if err != nil {
			return opts, err
		}
		opts.Suggestions = append(opts.Suggestions, sg)
	}
	return opts, opts.ValidateAndSetDefaults()
}

// parseViewport parses "WxH" into a width and height.
func parseViewport(s string) (float64, float64, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "viewport %q must be WxH", s)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(ws), 64)
	if err != nil || w <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "viewport %q: invalid width", s)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hs), 64)
	if err != nil || h <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "viewport %q: invalid height", s)
	}
	return w, h, nil
}
