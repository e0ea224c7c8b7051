package dispatch

import (
	"context"
	"testing"

	"github.com/cairnlabs/esprojector/projector"
)

func TestScopedChild_SkipsUnlistedEventKinds(t *testing.T) {
	var calls int
	inner := eventProjectorFunc(func(ctx context.Context, pctx *projector.Context, event projector.EventEnvelope) error {
		calls++
		return nil
	})

	filter := NewAggregateTypeFilter(projector.TypeName[created]())
	scoped := NewScopedChild(filter, inner)

	if err := scoped.ProjectEvent(context.Background(), &projector.Context{}, projector.EventEnvelope{Body: renamed{}}); err != nil {
		t.Fatalf("ProjectEvent: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected unlisted event kind to be skipped, got %d calls", calls)
	}

	if err := scoped.ProjectEvent(context.Background(), &projector.Context{}, projector.EventEnvelope{Body: created{}}); err != nil {
		t.Fatalf("ProjectEvent: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected admitted event kind to reach inner, got %d calls", calls)
	}
}
