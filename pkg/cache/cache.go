// Package cache stores rendered chart layouts and artifacts.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: caching disabled (the default)
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers
//
// Keys are built by a [Keyer] from a content hash of the input plus every
// option that changes the output, so equal inputs always share an entry and
// a changed option never returns a stale one.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/ddcharts/pkg/errors"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the data stored under key. hit is false for missing or
	// expired entries.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default entry lifetimes.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend   string
	Dir       string
	RedisAddr string
}

// Open creates the cache selected by cfg. An empty backend means none.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		if cfg.Dir == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "file cache needs a directory")
		}
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open file cache")
		}
		return c, nil
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "redis cache needs an address")
		}
		c, err := NewRedisCache(ctx, RedisOptions{Addr: cfg.RedisAddr})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Backend)
}
