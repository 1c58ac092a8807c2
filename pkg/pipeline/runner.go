package pipeline

import (
	"bytes"
	"context"
	"fmt"
	stdio "io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seed/pkg/cache"
	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/io"
	"github.com/matzehuels/seed/pkg/observability"
)

// Runner encapsulates layout passes with caching.
// The CLI, the HTTP server and the RPC service share it so that caching
// behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different documents and options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long cached entries live. Zero means the per-kind
	// defaults [cache.TTLLayout] and [cache.TTLGraph].
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(stdio.Discard)
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Layout computes the layout tree of doc, reading and writing the cache.
func (r *Runner) Layout(ctx context.Context, doc *ast.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	docHash, err := HashDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("hash document: %w", err)
	}
	result := &Result{DocHash: docHash}
	cacheKey := r.Keyer.LayoutKey(docHash, opts.LayoutKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			tree, err := io.ReadTree(bytes.NewReader(data))
			if err == nil {
				hooks.OnCacheHit(ctx, "layout")
				result.Tree = tree
				result.Stats.Nodes = tree.Len()
				result.CacheInfo.LayoutHit = true
				r.Logger.Debug("layout cache hit", "key", cacheKey)
				return result, nil
			}
			r.Logger.Warn("discarding unreadable cache entry", "key", cacheKey, "err", err)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
	}
	hooks.OnCacheMiss(ctx, "layout")

	tree, stats, err := ComputeLayout(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Tree = tree
	result.Stats = stats

	r.Logger.Debug("solved",
		"elements", stats.Elements,
		"constraints", stats.Constraints,
		"duration", stats.SolveTime)
	r.Logger.Debug("composed",
		"nodes", stats.Nodes,
		"duration", stats.ComposeTime)

	var buf bytes.Buffer
	if err := io.WriteTree(tree, &buf); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), r.ttl(cache.TTLLayout)); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, "layout", buf.Len())
		}
	}
	return result, nil
}

// Solve builds and solves the constraint system of doc. Solutions are not
// cached: they are cheap compared to composing and are mostly used for
// interactive exploration with suggestions.
func (r *Runner) Solve(ctx context.Context, doc *ast.Document, opts Options) (*SolveResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	res, err := Solve(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("solved",
		"elements", res.Stats.Elements,
		"constraints", res.Stats.Constraints,
		"duration", res.Stats.SolveTime)
	return res, nil
}

// Graph renders the constraint graph of doc, reading and writing the cache.
// The second result reports a cache hit.
func (r *Runner) Graph(ctx context.Context, doc *ast.Document, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}
	docHash, err := HashDocument(doc)
	if err != nil {
		return nil, false, fmt.Errorf("hash document: %w", err)
	}
	cacheKey := r.Keyer.GraphKey(docHash, opts.GraphKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			hooks.OnCacheHit(ctx, "graph")
			return data, true, nil
		}
	}
	hooks.OnCacheMiss(ctx, "graph")

	data, err := RenderGraph(ctx, doc, opts)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLGraph)); err == nil {
		hooks.OnCacheSet(ctx, "graph", len(data))
	}
	return data, false, nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
