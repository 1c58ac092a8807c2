package cache

import (
	"context"
	"fmt"
	"path/filepath"
)

// Backend names accepted by [Open].
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Dir           string
	SQLitePath    string
	RedisAddr     string
	MongoURI      string
	MongoDatabase string
	// Prefix namespaces keys in shared backends.
	Prefix string
}

// Open creates the cache named by opts.Backend. An empty backend means
// [BackendFile] in opts.Dir, or in [DefaultDir] when Dir is empty.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile, "":
		dir, err := dirOrDefault(opts.Dir)
		if err != nil {
			return nil, err
		}
		return NewFileCache(dir)
	case BackendSQLite:
		path := opts.SQLitePath
		if path == "" {
			dir, err := dirOrDefault(opts.Dir)
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "cache.db")
		}
		return NewSQLiteCache(path)
	case BackendRedis:
		return NewRedisCache(ctx, RedisOptions{Addr: opts.RedisAddr, Prefix: opts.Prefix})
	case BackendMongo:
		return NewMongoCache(ctx, MongoOptions{URI: opts.MongoURI, Database: opts.MongoDatabase})
	}
	return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
}

func dirOrDefault(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return DefaultDir()
}
