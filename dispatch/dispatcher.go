package dispatch

import (
	"context"

	"github.com/cairnlabs/esprojector/cache"
	"github.com/cairnlabs/esprojector/eventmap"
	"github.com/cairnlabs/esprojector/projector"
)

// Factory default-constructs a new projection value.
type Factory[P any] func() P

// IdentitySetter assigns key to a freshly constructed projection. It is
// called exactly once, at creation, before any handler sees the instance.
type IdentitySetter[P any, K comparable] func(p P, key K)

// Filter decides whether an existing projection is eligible for mutation.
// The default accepts everything.
type Filter[P any] func(p P) bool

// Config configures a Dispatcher. NewProjection and SetIdentity are
// required; Cache, Filter, and Kind have defaults.
type Config[P any, K comparable] struct {
	// Kind tags this dispatcher's rows within a shared Session. Defaults to
	// the reflected type name of P.
	Kind string

	NewProjection Factory[P]
	SetIdentity   IdentitySetter[P, K]

	// Cache defaults to cache.Passthrough (no memoization).
	Cache cache.Cache[K, P]

	// Filter defaults to accept-all.
	Filter Filter[P]

	// Children run, in declared order, before this dispatcher's own map
	// handles each event.
	Children []*Child
}

// Dispatcher is the MapDispatcher (C3): per-event glue that loads-or-creates
// a projection via its cache and Session, applies the matching handler, and
// enforces the filter/overwrite policy. It implements EventProjector, so it
// can itself be wrapped in a Child to nest inside another Dispatcher.
type Dispatcher[P any, K comparable] struct {
	kind          string
	newProjection Factory[P]
	setIdentity   IdentitySetter[P, K]
	projCache     cache.Cache[K, P]
	filter        Filter[P]
	children      []*Child

	eventMap *eventmap.EventMap[P, K]
}

// New validates cfg and constructs a Dispatcher. The returned Dispatcher has
// no EventMap yet; call SetEventMap once one has been built against
// d.Shims().
func New[P any, K comparable](cfg Config[P, K]) (*Dispatcher[P, K], error) {
	if cfg.NewProjection == nil {
		return nil, &projector.ConfigurationError{Msg: "NewProjection factory must not be nil"}
	}
	if cfg.SetIdentity == nil {
		return nil, &projector.ConfigurationError{Msg: "SetIdentity must not be nil"}
	}

	kind := cfg.Kind
	if kind == "" {
		kind = projector.TypeName[P]()
	}

	projCache := cfg.Cache
	if projCache == nil {
		projCache = cache.NewPassthrough[K, P]()
	}

	filter := cfg.Filter
	if filter == nil {
		filter = func(P) bool { return true }
	}

	return &Dispatcher[P, K]{
		kind:          kind,
		newProjection: cfg.NewProjection,
		setIdentity:   cfg.SetIdentity,
		projCache:     projCache,
		filter:        filter,
		children:      cfg.Children,
	}, nil
}

// Shims returns this dispatcher's OnCreate/OnUpdate/OnDelete/OnCustom
// methods as an eventmap.Shims value, ready to pass to Builder.Build.
func (d *Dispatcher[P, K]) Shims() eventmap.Shims[P, K] {
	return eventmap.Shims[P, K]{
		Create: d.OnCreate,
		Update: d.OnUpdate,
		Delete: d.OnDelete,
		Custom: d.OnCustom,
	}
}

// SetEventMap installs the compiled EventMap this dispatcher routes events
// through. Must be called before ProjectEvent.
func (d *Dispatcher[P, K]) SetEventMap(m *eventmap.EventMap[P, K]) {
	d.eventMap = m
}

// Cache exposes the configured cache so BatchDriver can Clear it on abort.
func (d *Dispatcher[P, K]) Cache() cache.Cache[K, P] {
	return d.projCache
}

func (d *Dispatcher[P, K]) typed(pctx *projector.Context) projector.Typed[K, P] {
	return projector.NewTyped[K, P](pctx.Session, d.kind)
}

func (d *Dispatcher[P, K]) loadOrCache(ctx context.Context, key K, pctx *projector.Context) (P, bool, error) {
	return d.projCache.GetOrLoad(ctx, key, func(ctx context.Context) (P, bool, error) {
		return d.typed(pctx).Load(ctx, key)
	})
}

// OnCreate implements eventmap.CreateFunc[P, K].
func (d *Dispatcher[P, K]) OnCreate(ctx context.Context, key K, pctx *projector.Context, project func(P) error, shouldOverwrite func(P) bool) error {
	existing, found, err := d.loadOrCache(ctx, key, pctx)
	if err != nil {
		return err
	}

	if !found {
		p := d.newProjection()
		d.setIdentity(p, key)
		if err := project(p); err != nil {
			return err
		}
		if err := d.typed(pctx).Insert(ctx, key, p); err != nil {
			return err
		}
		d.projCache.Add(key, p)
		return nil
	}

	if shouldOverwrite(existing) {
		if err := d.typed(pctx).Reattach(ctx, key, existing); err != nil {
			return err
		}
		return project(existing)
	}

	return nil
}

// OnUpdate implements eventmap.UpdateFunc[P, K].
func (d *Dispatcher[P, K]) OnUpdate(ctx context.Context, key K, pctx *projector.Context, project func(P) error, createIfMissing func() bool) error {
	existing, found, err := d.loadOrCache(ctx, key, pctx)
	if err != nil {
		return err
	}

	if !found {
		if !createIfMissing() {
			return nil
		}
		p := d.newProjection()
		d.setIdentity(p, key)
		if err := project(p); err != nil {
			return err
		}
		if err := d.typed(pctx).Insert(ctx, key, p); err != nil {
			return err
		}
		d.projCache.Add(key, p)
		return nil
	}

	if d.filter(existing) {
		if err := d.typed(pctx).Reattach(ctx, key, existing); err != nil {
			return err
		}
		return project(existing)
	}

	return nil
}

// OnDelete implements eventmap.DeleteFunc[P, K].
func (d *Dispatcher[P, K]) OnDelete(ctx context.Context, key K, pctx *projector.Context) (bool, error) {
	existing, found, err := d.loadOrCache(ctx, key, pctx)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	if err := d.typed(pctx).Delete(ctx, key); err != nil {
		return false, err
	}
	_ = existing
	d.projCache.Remove(key)
	return true, nil
}

// OnCustom implements eventmap.CustomFunc: the handler owns its own store
// interactions entirely.
func (d *Dispatcher[P, K]) OnCustom(ctx context.Context, _ *projector.Context, run func(context.Context) error) error {
	return run(ctx)
}

// ProjectEvent runs this dispatcher's children, in declared order, then its
// own EventMap against event. A child failure propagates without this
// dispatcher's own map ever seeing the event.
func (d *Dispatcher[P, K]) ProjectEvent(ctx context.Context, pctx *projector.Context, event projector.EventEnvelope) error {
	for _, child := range d.children {
		if err := child.ProjectEvent(ctx, pctx, event); err != nil {
			return err
		}
	}

	if d.eventMap == nil {
		return nil
	}
	handled, err := d.eventMap.Handle(ctx, pctx, event)
	if err != nil {
		return err
	}
	pctx.MarkHandled(handled)
	return nil
}
