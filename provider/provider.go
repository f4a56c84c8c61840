// Package provider defines where cache files live.
//
// A cache is persisted as one opaque blob per storage key ("<name>.cache").
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the bytes most recently passed to Set for that key. Set replaces the whole
// blob; there is no append or partial write.
package provider

import (
	"context"
)

// Provider is a minimal blob store keyed by cache file name.
// Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) when the blob
	// does not exist. If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set replaces the blob stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Del removes the blob. Removing a missing blob is not an error.
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// Locator is implemented by providers that can describe where a key lives
// (a file path, a redis key). Managers use it to identify a cache across
// instances; providers without it are identified by the key alone.
type Locator interface {
	Locate(key string) string
}

// Locate returns p's location for key, or key itself.
func Locate(p Provider, key string) string {
	if l, ok := p.(Locator); ok {
		return l.Locate(key)
	}
	return key
}
