package dispatch

import (
	"context"
	"reflect"

	"github.com/cairnlabs/esprojector/projector"
)

// AggregateTypeFilter is a fast membership test over event Go-type names,
// adapted from the teacher's ScopedProjection.AggregateTypes() idea: instead
// of reading an aggregate_type column off a persisted event row, it
// reflects the event body's type name directly, since this core has no
// event envelope column to read from.
type AggregateTypeFilter struct {
	allowed map[string]bool
}

// NewAggregateTypeFilter builds a filter admitting only events whose Go
// type name (as produced by projector.TypeName) appears in types.
func NewAggregateTypeFilter(types ...string) *AggregateTypeFilter {
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}
	return &AggregateTypeFilter{allowed: allowed}
}

// Allows reports whether event's body type is in the filter's allowed set.
func (f *AggregateTypeFilter) Allows(event projector.EventEnvelope) bool {
	if event.Body == nil {
		return false
	}
	return f.allowed[reflect.TypeOf(event.Body).String()]
}

// ScopedChild wraps an EventProjector so it only runs for event kinds
// admitted by Filter, letting a dispatcher be scoped to a subset of a
// multi-tenant projector fleet's events without touching its EventMap.
type ScopedChild struct {
	Filter *AggregateTypeFilter
	Inner  EventProjector
}

// NewScopedChild wraps inner behind filter.
func NewScopedChild(filter *AggregateTypeFilter, inner EventProjector) *ScopedChild {
	return &ScopedChild{Filter: filter, Inner: inner}
}

// ProjectEvent is a no-op for events the filter rejects; admitted events
// are forwarded to Inner unchanged.
func (s *ScopedChild) ProjectEvent(ctx context.Context, pctx *projector.Context, event projector.EventEnvelope) error {
	if !s.Filter.Allows(event) {
		return nil
	}
	return s.Inner.ProjectEvent(ctx, pctx, event)
}

var _ EventProjector = (*ScopedChild)(nil)
