// Package genstore tracks a commit generation per cache location.
//
// Every successful commit of a cache bumps its generation. A manager remembers
// the generation it loaded at, so it can tell when another manager (in this
// process with Local, or on another host with Redis) has rewritten the same
// cache since.
package genstore

import (
	"context"
)

// GenStore abstracts where generations live.
type GenStore interface {
	// Snapshot returns the current generation; missing => 0.
	Snapshot(ctx context.Context, location string) (uint64, error)
	// Bump atomically increments and returns the new generation.
	Bump(ctx context.Context, location string) (uint64, error)
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
