package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seed/pkg/cache"
	"github.com/matzehuels/seed/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and graphs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := newCache(cmd.Context(), cfg, false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			if err := cache.Clear(cmd.Context(), store); err != nil {
				if errors.Is(err, cache.ErrUnsupported) {
					printWarning("The %s cache backend cannot be cleared", backendName(cfg))
					return nil
				}
				return fmt.Errorf("clear cache: %w", err)
			}
			loc, err := cacheLocation(cfg)
			if err != nil {
				return err
			}
			printSuccess("Cleared %s cache", backendName(cfg))
			printDetail("Location: %s", loc)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			loc, err := cacheLocation(cfg)
			if err != nil {
				return fmt.Errorf("get cache location: %w", err)
			}
			fmt.Println(loc)
			return nil
		},
	}
}

func backendName(cfg *config.Config) string {
	if cfg.Cache.Backend == "" {
		return cache.BackendFile
	}
	return cfg.Cache.Backend
}

// cacheLocation describes where the configured backend keeps its entries.
func cacheLocation(cfg *config.Config) (string, error) {
	opts := cfg.CacheOptions()
	dir := opts.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	switch backendName(cfg) {
	case cache.BackendNone:
		return "(caching disabled)", nil
	case cache.BackendSQLite:
		if opts.SQLitePath != "" {
			return opts.SQLitePath, nil
		}
		return filepath.Join(dir, "cache.db"), nil
	case cache.BackendRedis:
		return "redis://" + opts.RedisAddr, nil
	case cache.BackendMongo:
		return opts.MongoURI + " (" + opts.MongoDatabase + "." + cache.DefaultMongoCollection + ")", nil
	}
	return dir, nil
}
