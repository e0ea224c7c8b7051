package eventmap

import (
	"context"
	"errors"
	"testing"

	"github.com/cairnlabs/esprojector/projector"
)

type widget struct {
	ID   string
	Name string
}

type created struct {
	ID   string
	Name string
}

type renamed struct {
	ID      string
	NewName string
}

type deleted struct {
	ID string
}

type pinged struct {
	ID string
}

func keyOfCreated(e created) string { return e.ID }
func keyOfRenamed(e renamed) string { return e.ID }
func keyOfDeleted(e deleted) string { return e.ID }

// fakeShims records every call made against it for assertions.
type fakeShims struct {
	createCalls int
	updateCalls int
	deleteCalls int
	customCalls int
	store       map[string]*widget
}

func newFakeShims() *fakeShims {
	return &fakeShims{store: make(map[string]*widget)}
}

func (f *fakeShims) asShims() Shims[*widget, string] {
	return Shims[*widget, string]{
		Create: func(ctx context.Context, key string, pctx *projector.Context, project func(*widget) error, shouldOverwrite func(*widget) bool) error {
			f.createCalls++
			existing, ok := f.store[key]
			if !ok {
				w := &widget{ID: key}
				if err := project(w); err != nil {
					return err
				}
				f.store[key] = w
				return nil
			}
			if shouldOverwrite(existing) {
				return project(existing)
			}
			return nil
		},
		Update: func(ctx context.Context, key string, pctx *projector.Context, project func(*widget) error, createIfMissing func() bool) error {
			f.updateCalls++
			existing, ok := f.store[key]
			if !ok {
				if !createIfMissing() {
					return nil
				}
				w := &widget{ID: key}
				if err := project(w); err != nil {
					return err
				}
				f.store[key] = w
				return nil
			}
			return project(existing)
		},
		Delete: func(ctx context.Context, key string, pctx *projector.Context) (bool, error) {
			f.deleteCalls++
			_, ok := f.store[key]
			delete(f.store, key)
			return ok, nil
		},
		Custom: func(ctx context.Context, pctx *projector.Context, run func(context.Context) error) error {
			f.customCalls++
			return run(ctx)
		},
	}
}

func buildMap(shims Shims[*widget, string]) *EventMap[*widget, string] {
	b := NewBuilder[*widget, string]()
	Create(b, keyOfCreated, func(ctx context.Context, pctx *projector.Context, w *widget, e created) error {
		w.Name = e.Name
		return nil
	}, func(*widget) bool { return false })
	Update(b, keyOfRenamed, func(ctx context.Context, pctx *projector.Context, w *widget, e renamed) error {
		w.Name = e.NewName
		return nil
	}, func() bool { return false })
	Delete[*widget, string](b, keyOfDeleted)
	Custom[*widget, string](b, func(ctx context.Context, pctx *projector.Context, e pinged) error {
		return nil
	})
	return b.Build(shims)
}

func TestHandle_UnregisteredKindReturnsFalse(t *testing.T) {
	fs := newFakeShims()
	m := buildMap(fs.asShims())

	type unknown struct{}
	handled, err := m.Handle(context.Background(), &projector.Context{}, projector.EventEnvelope{Body: unknown{}})
	if err != nil || handled {
		t.Fatalf("expected (false, nil) for unregistered kind, got (%v, %v)", handled, err)
	}
}

func TestHandle_NilBodyReturnsFalse(t *testing.T) {
	fs := newFakeShims()
	m := buildMap(fs.asShims())

	handled, err := m.Handle(context.Background(), &projector.Context{}, projector.EventEnvelope{Body: nil})
	if err != nil || handled {
		t.Fatalf("expected (false, nil) for nil body, got (%v, %v)", handled, err)
	}
}

func TestHandle_CreateThenUpdateThenDelete(t *testing.T) {
	fs := newFakeShims()
	m := buildMap(fs.asShims())
	ctx := context.Background()
	pctx := &projector.Context{}

	handled, err := m.Handle(ctx, pctx, projector.EventEnvelope{Body: created{ID: "A", Name: "foo"}})
	if err != nil || !handled {
		t.Fatalf("create: want handled, got handled=%v err=%v", handled, err)
	}
	if fs.store["A"].Name != "foo" {
		t.Fatalf("expected widget created with name foo, got %+v", fs.store["A"])
	}

	handled, err = m.Handle(ctx, pctx, projector.EventEnvelope{Body: renamed{ID: "A", NewName: "bar"}})
	if err != nil || !handled {
		t.Fatalf("update: want handled, got handled=%v err=%v", handled, err)
	}
	if fs.store["A"].Name != "bar" {
		t.Fatalf("expected widget renamed to bar, got %+v", fs.store["A"])
	}

	handled, err = m.Handle(ctx, pctx, projector.EventEnvelope{Body: deleted{ID: "A"}})
	if err != nil || !handled {
		t.Fatalf("delete: want handled, got handled=%v err=%v", handled, err)
	}
	if _, ok := fs.store["A"]; ok {
		t.Fatal("expected widget to be deleted")
	}
}

func TestHandle_Custom(t *testing.T) {
	fs := newFakeShims()
	m := buildMap(fs.asShims())

	handled, err := m.Handle(context.Background(), &projector.Context{}, projector.EventEnvelope{Body: pinged{ID: "A"}})
	if err != nil || !handled {
		t.Fatalf("want handled, got handled=%v err=%v", handled, err)
	}
	if fs.customCalls != 1 {
		t.Errorf("expected custom shim invoked once, got %d", fs.customCalls)
	}
}

func TestHandle_PropagatesHandlerError(t *testing.T) {
	fs := newFakeShims()
	b := NewBuilder[*widget, string]()
	wantErr := errors.New("boom")
	Create(b, keyOfCreated, func(ctx context.Context, pctx *projector.Context, w *widget, e created) error {
		return wantErr
	}, func(*widget) bool { return false })
	m := b.Build(fs.asShims())

	_, err := m.Handle(context.Background(), &projector.Context{}, projector.EventEnvelope{Body: created{ID: "A"}})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped boom error, got %v", err)
	}
}
