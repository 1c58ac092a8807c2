// Package cache stores layout results keyed by document hash.
//
// Backends:
//   - [NullCache] never stores anything
//   - [FileCache] keeps one file per entry, for CLI use
//   - [SQLiteCache] keeps entries in a single SQLite database
//   - [RedisCache] and [MongoCache] share entries between server instances
//
// Keys are produced by a [Keyer] so that a deployment can namespace them
// with [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Entry lifetimes.
const (
	TTLLayout = 24 * time.Hour
	TTLGraph  = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry. A zero ttl stores the entry
// without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Clear removes every entry from c if the backend supports it.
func Clear(ctx context.Context, c Cache) error {
	if cl, ok := c.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return ErrUnsupported
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey is the key of a computed layout tree.
	LayoutKey(docHash string, opts LayoutKeyOpts) string
	// GraphKey is the key of a rendered constraint graph.
	GraphKey(docHash string, opts GraphKeyOpts) string
}

// LayoutKeyOpts are the options that change a layout result.
type LayoutKeyOpts struct {
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
	FontSize       float64 `json:"font_size"`
	LineHeight     float64 `json:"line_height"`
	MaxIterations  int     `json:"max_iterations"`
	// Suggestions are "Name.property=value" edit suggestions.
	Suggestions []string `json:"suggestions,omitempty"`
}

// GraphKeyOpts are the options that change a rendered graph.
type GraphKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer hashes its inputs into prefix:hash keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// GraphKey returns "graph:<hash>".
func (DefaultKeyer) GraphKey(docHash string, opts GraphKeyOpts) string {
	return hashKey("graph", docHash, opts)
}
