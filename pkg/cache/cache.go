// Package cache stores computed layouts and rendered artifacts.
//
// A [Cache] is a plain byte store with expiration. Keys are derived by a
// [Keyer] from a hash of the job input plus every option that changes the
// output, so two jobs with the same artwork, detections, and settings share
// a cache entry.
//
// Implementations:
//   - [FileCache] for the CLI (one JSON file per entry under a cache directory)
//   - [RedisCache] for the HTTP server
//   - [NullCache] when caching is disabled
package cache

import (
	"context"
	"time"
)

// Time-to-live for each entry kind. Layouts depend only on their inputs, so
// they live long; artifacts are large and cheap to regenerate from a layout.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte store keyed by string.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// A missing or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying connection.
	Close() error
}
