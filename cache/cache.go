// Package cache provides the ProjectionCache capability set: per-key
// memoization of projection rows, with write-through on create/update and
// invalidation on delete/abort.
//
// The cache is not thread-safe across concurrent batches; a projector owns
// exactly one Cache instance for its whole lifetime, and Clear must be
// called on every non-commit exit from a batch so in-memory state can never
// diverge from a rolled-back store transaction.
package cache

import "context"

// Loader loads the value for key from the backing store when it is not
// already cached. A false, nil-error return means "does not exist".
type Loader[V any] func(ctx context.Context) (V, bool, error)

// Cache is the capability set the dispatcher needs: get-or-load, add,
// remove, clear. Declaring it this way lets callers inject their own
// implementation instead of hard-coding a map.
type Cache[K comparable, V any] interface {
	// GetOrLoad returns the cached value for key if present, otherwise
	// invokes load and, on a successful hit, memoizes the result.
	GetOrLoad(ctx context.Context, key K, load Loader[V]) (V, bool, error)

	// Add memoizes value under key, unconditionally.
	Add(key K, value V)

	// Remove evicts key, if present.
	Remove(key K)

	// Clear evicts every entry. Must be called on batch abort.
	Clear()
}
