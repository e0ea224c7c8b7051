package eventmap

import (
	"context"
	"reflect"

	"github.com/cairnlabs/esprojector/projector"
)

type variant int

const (
	variantCreate variant = iota
	variantUpdate
	variantDelete
	variantCustom
)

type entry[P any, K comparable] struct {
	variant variant
	invoke  func(ctx context.Context, pctx *projector.Context, shims Shims[P, K], body any) error
}

// EventMap is the compiled, immutable routing table: event kind (reflect
// type of EventEnvelope.Body) to handler variant. It is built once by a
// Builder and is safe to share, read-only, for the lifetime of a projector.
type EventMap[P any, K comparable] struct {
	entries map[reflect.Type]entry[P, K]
	shims   Shims[P, K]
}

// Handle looks up event's kind; if registered, invokes the configured
// handler variant against the shims the map was built with. Returns true
// iff a handler was registered for this kind — a no-op for an unregistered
// kind returns (false, nil).
func (m *EventMap[P, K]) Handle(ctx context.Context, pctx *projector.Context, event projector.EventEnvelope) (bool, error) {
	if event.Body == nil {
		return false, nil
	}
	e, ok := m.entries[reflect.TypeOf(event.Body)]
	if !ok {
		return false, nil
	}
	return true, e.invoke(ctx, pctx, m.shims, event.Body)
}
