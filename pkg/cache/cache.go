// Package cache provides pluggable byte caching for rasterization results.
//
// Rendering an SVG document is by far the most expensive step of a
// comparison, and batch runs frequently rasterize the same document at the
// same dimensions (baseline sets, repeated CI runs). The cache stores
// encoded raster buffers keyed by a content hash of the document markup
// plus the planned dimensions and fit mode, so a repeated render becomes
// a lookup.
//
// Three backends are provided:
//   - FileCache: directory of JSON entries, for CLI usage
//   - RedisCache: shared cache for server deployments
//   - NullCache: disables caching
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with optional TTL.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// RasterKey builds the cache key for a rasterization result: the sha256 of
// the document markup combined with the planned pixel dimensions and the
// fit mode. The fit mode changes the rendered pixels, so buffers rendered
// under different fits must never share an entry.
func RasterKey(svg string, width, height, fit int) string {
	return hashKey("raster", Hash([]byte(svg)), width, height, fit)
}
