// Package cache stores parsed sequences, map layouts and rendered artifacts
// between runs.
//
// Three backends implement [Cache]: [FileCache] for the CLI (one JSON file
// per entry under the user cache directory), [RedisCache] for the HTTP
// server, and [MemoryCache] for tests and single-process servers.
// [NullCache] disables caching.
//
// Keys come from a [Keyer], so every layer hashes its inputs the same way:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(layoutHash, cache.ArtifactKeyOpts{Format: "svg"})
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry. A miss is reported as
// (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero keeps the entry until it is
	// deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default entry lifetimes. Sequences and layouts are pure functions of
// their keys, so they only expire to bound disk usage.
const (
	TTLSequence = 30 * 24 * time.Hour
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
