package cache

import "context"

// Passthrough is the safe default Cache: every GetOrLoad invokes the
// loader, and Add/Remove/Clear are no-ops since there is no state to
// invalidate.
type Passthrough[K comparable, V any] struct{}

// NewPassthrough constructs a Passthrough cache.
func NewPassthrough[K comparable, V any]() Passthrough[K, V] {
	return Passthrough[K, V]{}
}

func (Passthrough[K, V]) GetOrLoad(ctx context.Context, _ K, load Loader[V]) (V, bool, error) {
	return load(ctx)
}

func (Passthrough[K, V]) Add(K, V) {}
func (Passthrough[K, V]) Remove(K) {}
func (Passthrough[K, V]) Clear()   {}

var _ Cache[string, any] = Passthrough[string, any]{}
