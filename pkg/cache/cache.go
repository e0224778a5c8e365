// Package cache stores computed layouts, rendered artifacts, published
// boards and handoff values behind one small interface.
//
// Backends:
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [MemoryCache]: in-process map, for the server default and tests
//   - [RedisCache]: shared cache for multi-instance servers
//   - [MongoCache]: documents with a TTL index
//   - [NullCache]: disables caching
//
// Keys are produced by a [Keyer] so that every backend sees the same key
// layout. Values are opaque bytes; callers marshal their own payloads.
//
// Cache failures are never fatal to a layout: callers treat a failing Get
// as a miss and log a failing Set.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the value for key. A missing or expired entry reports
	// hit == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Taker is implemented by caches that can read and delete an entry
// atomically. Single-use values prefer it over Get followed by Delete.
type Taker interface {
	Take(ctx context.Context, key string) (data []byte, hit bool, err error)
}

// Take reads key and removes it. It uses the backend's atomic Take when
// available and falls back to Get followed by Delete otherwise.
func Take(ctx context.Context, c Cache, key string) ([]byte, bool, error) {
	if t, ok := c.(Taker); ok {
		return t.Take(ctx, key)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		return nil, false, err
	}
	if err := c.Delete(ctx, key); err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Default TTLs per entry kind.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
	BoardTTL    = 30 * 24 * time.Hour
	HandoffTTL  = 10 * time.Minute
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendNull   = "null"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string // one of the Backend* constants; empty means file

	Dir string // FileCache directory

	RedisURL string // redis://[user:pass@]host:port/db

	MongoURI        string
	MongoDatabase   string // default "scatterbox"
	MongoCollection string // default "cache"
}

// Open builds the backend described by cfg. Remote backends are pinged
// before returning so that misconfiguration surfaces at startup.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch cfg.Backend {
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory configured")
		}
		var fc *FileCache
		if fc, err = NewFileCache(cfg.Dir); err == nil {
			c = fc
		}
	case BackendMemory:
		c = NewMemoryCacheWithOptions(MemoryOptions{
			MaxEntries:    DefaultMemoryMaxEntries,
			SweepInterval: DefaultSweepInterval,
		})
	case BackendNull:
		c = NewNullCache()
	case BackendRedis:
		var rc *RedisCache
		if rc, err = NewRedisCache(ctx, cfg.RedisURL); err == nil {
			c = rc
		}
	case BackendMongo:
		var mc *MongoCache
		if mc, err = NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection); err == nil {
			c = mc
		}
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
