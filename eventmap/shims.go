package eventmap

import (
	"context"

	"github.com/cairnlabs/esprojector/projector"
)

// CreateFunc is the dispatch shim backing a Create registration. It is
// invoked with the event's key, the load-or-create/overwrite policy baked
// into project/shouldOverwrite, which a dispatcher implements against its
// cache and Session.
type CreateFunc[P any, K comparable] func(ctx context.Context, key K, pctx *projector.Context, project func(P) error, shouldOverwrite func(P) bool) error

// UpdateFunc is the dispatch shim backing an Update registration.
type UpdateFunc[P any, K comparable] func(ctx context.Context, key K, pctx *projector.Context, project func(P) error, createIfMissing func() bool) error

// DeleteFunc is the dispatch shim backing a Delete registration. The bool
// result reports whether a projection existed to delete; it plays no part
// in EventMap.Handle's own "was a handler registered" return value.
type DeleteFunc[P any, K comparable] func(ctx context.Context, key K, pctx *projector.Context) (bool, error)

// CustomFunc is the dispatch shim backing a Custom registration. run
// encapsulates the user's own store interactions; the shim just awaits it.
type CustomFunc func(ctx context.Context, pctx *projector.Context, run func(context.Context) error) error

// Shims bundles the four dispatch shims an EventMap needs. A
// dispatch.Dispatcher's OnCreate/OnUpdate/OnDelete/OnCustom methods satisfy
// these signatures directly.
type Shims[P any, K comparable] struct {
	Create CreateFunc[P, K]
	Update UpdateFunc[P, K]
	Delete DeleteFunc[P, K]
	Custom CustomFunc
}
