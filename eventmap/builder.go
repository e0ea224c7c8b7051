package eventmap

import (
	"context"
	"reflect"

	"github.com/cairnlabs/esprojector/projector"
)

// Builder accumulates event-kind registrations for a single projection type
// ⟨P, K⟩. Build finalizes it against dispatch shims. A Builder is not safe
// for concurrent registration; finish registering before calling Build.
type Builder[P any, K comparable] struct {
	entries map[reflect.Type]entry[P, K]
}

// NewBuilder constructs an empty Builder.
func NewBuilder[P any, K comparable]() *Builder[P, K] {
	return &Builder[P, K]{entries: make(map[reflect.Type]entry[P, K])}
}

// Build finalizes the map against the given dispatch shims. The returned
// EventMap is immutable and safe to share across goroutines.
func (b *Builder[P, K]) Build(shims Shims[P, K]) *EventMap[P, K] {
	return &EventMap[P, K]{entries: b.entries, shims: shims}
}

// Create registers a handler for event type E that creates a new P if one
// does not exist for the key, or, if shouldOverwrite says so, re-projects an
// existing one. keyOf extracts the projection key from the event.
func Create[P any, K comparable, E any](b *Builder[P, K], keyOf func(E) K,
	handle func(ctx context.Context, pctx *projector.Context, p P, e E) error,
	shouldOverwrite func(p P) bool,
) *Builder[P, K] {
	kind := kindOf[E]()
	b.entries[kind] = entry[P, K]{
		variant: variantCreate,
		invoke: func(ctx context.Context, pctx *projector.Context, shims Shims[P, K], body any) error {
			e := body.(E)
			key := keyOf(e)
			project := func(p P) error { return handle(ctx, pctx, p, e) }
			return shims.Create(ctx, key, pctx, project, shouldOverwrite)
		},
	}
	return b
}

// Update registers a handler for event type E that re-projects an existing
// P, or creates one first if createIfMissing reports true.
func Update[P any, K comparable, E any](b *Builder[P, K], keyOf func(E) K,
	handle func(ctx context.Context, pctx *projector.Context, p P, e E) error,
	createIfMissing func() bool,
) *Builder[P, K] {
	kind := kindOf[E]()
	b.entries[kind] = entry[P, K]{
		variant: variantUpdate,
		invoke: func(ctx context.Context, pctx *projector.Context, shims Shims[P, K], body any) error {
			e := body.(E)
			key := keyOf(e)
			project := func(p P) error { return handle(ctx, pctx, p, e) }
			return shims.Update(ctx, key, pctx, project, createIfMissing)
		},
	}
	return b
}

// Delete registers a handler for event type E that removes the projection
// for the key, if one exists.
func Delete[P any, K comparable, E any](b *Builder[P, K], keyOf func(E) K) *Builder[P, K] {
	kind := kindOf[E]()
	b.entries[kind] = entry[P, K]{
		variant: variantDelete,
		invoke: func(ctx context.Context, pctx *projector.Context, shims Shims[P, K], body any) error {
			e := body.(E)
			key := keyOf(e)
			_, err := shims.Delete(ctx, key, pctx)
			return err
		},
	}
	return b
}

// Custom registers a handler for event type E that owns its own store
// interactions entirely; run's error, if any, propagates as-is.
func Custom[P any, K comparable, E any](b *Builder[P, K],
	run func(ctx context.Context, pctx *projector.Context, e E) error,
) *Builder[P, K] {
	kind := kindOf[E]()
	b.entries[kind] = entry[P, K]{
		variant: variantCustom,
		invoke: func(ctx context.Context, pctx *projector.Context, shims Shims[P, K], body any) error {
			e := body.(E)
			return shims.Custom(ctx, pctx, func(ctx context.Context) error { return run(ctx, pctx, e) })
		},
	}
	return b
}

func kindOf[E any]() reflect.Type {
	var sample E
	return reflect.TypeOf(sample)
}
