package dispatch

import (
	"context"
	"errors"

	"github.com/cairnlabs/esprojector/projector"
)

// EventProjector is the capability a Child needs from whatever it wraps.
// *Dispatcher[P, K] satisfies it for any P, K, which is how dispatchers for
// unrelated projection types nest inside one another.
type EventProjector interface {
	ProjectEvent(ctx context.Context, pctx *projector.Context, event projector.EventEnvelope) error
}

// Child adapts an EventProjector so it can run as another dispatcher's
// child, before the parent, within the same store transaction. Failures are
// tagged with this child's identity as they pass through.
type Child struct {
	ID    string
	Inner EventProjector
}

// NewChild wraps inner under id.
func NewChild(id string, inner EventProjector) *Child {
	return &Child{ID: id, Inner: inner}
}

// ProjectEvent rejects a nil event body or nil context, then delegates to
// Inner. A *projector.ProjectionFailure with an empty ChildProjectorID is
// annotated with this child's id and rethrown; any other error is wrapped in
// a fresh ProjectionFailure tagged the same way.
func (c *Child) ProjectEvent(ctx context.Context, pctx *projector.Context, event projector.EventEnvelope) error {
	if event.Body == nil {
		return &projector.ConfigurationError{Msg: "child projector " + c.ID + ": event must not be nil"}
	}
	if pctx == nil {
		return &projector.ConfigurationError{Msg: "child projector " + c.ID + ": context must not be nil"}
	}

	err := c.Inner.ProjectEvent(ctx, pctx, event)
	if err == nil {
		return nil
	}

	var pf *projector.ProjectionFailure
	if errors.As(err, &pf) {
		if pf.ChildProjectorID == "" {
			pf.ChildProjectorID = c.ID
		}
		return pf
	}

	return &projector.ProjectionFailure{
		ChildProjectorID: c.ID,
		TransactionID:    pctx.TransactionID,
		Event:            &event,
		Cause:            err,
	}
}

var _ EventProjector = (*Child)(nil)
