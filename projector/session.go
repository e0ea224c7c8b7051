package projector

import "context"

// Session is the store-session abstraction a projector runs against for the
// lifetime of a single batch. It is exclusively owned by the running batch;
// no two suspended calls may share one.
//
// Go has no generic interface methods, so Session is kind-tagged and
// type-erased: every projection type the caller registers supplies its own
// "kind" string (conventionally the projection's type name) and Session
// implementations dispatch on it internally. Typed[K, V] recovers static
// typing for dispatcher code built on top of a Session.
type Session interface {
	// Load returns the value stored under kind/key, or (zero, false, nil) if
	// absent.
	Load(ctx context.Context, kind string, key any) (value any, ok bool, err error)

	// Insert marks value for insertion at Flush, under kind/key.
	Insert(ctx context.Context, kind string, key any, value any) error

	// Delete marks the value under kind/key for deletion at Flush.
	Delete(ctx context.Context, kind string, key any) error

	// Reattach declares value a tracked, clean entity in this session under
	// kind/key, without reloading it from the backing store.
	Reattach(ctx context.Context, kind string, key any, value any) error

	// FindState returns the projector state row for id, or (nil, false, nil)
	// if it does not exist yet.
	FindState(ctx context.Context, id string) (*State, bool, error)

	// AddState upserts the projector state row.
	AddState(ctx context.Context, state *State) error

	// Flush pushes any pending writes to the backing store without ending
	// the transaction.
	Flush(ctx context.Context) error

	// BeginTransaction opens the underlying store transaction this session
	// will run within.
	BeginTransaction(ctx context.Context) error

	// Commit commits the underlying store transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the underlying store transaction. Safe to call
	// after Commit has already failed; implementations must tolerate being
	// called on an already-finished transaction.
	Rollback(ctx context.Context) error
}

// SessionFactory produces a fresh Session per batch. Construction may
// suspend (e.g. acquiring a pooled connection).
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}

// Typed is a small generic façade recovering static typing over a
// type-erased Session for a single projection type. Dispatchers construct
// one per batch/projection-kind pair; it adds no behavior of its own.
type Typed[K comparable, V any] struct {
	Session Session
	Kind    string
}

// NewTyped wraps session for kind.
func NewTyped[K comparable, V any](session Session, kind string) Typed[K, V] {
	return Typed[K, V]{Session: session, Kind: kind}
}

// Load returns the value stored under key, or (zero, false, nil) if absent,
// or an error if the stored value is present under that key but is not a V
// (a programmer error: kind collision between two distinct Typed façades).
func (t Typed[K, V]) Load(ctx context.Context, key K) (V, bool, error) {
	var zero V
	raw, ok, err := t.Session.Load(ctx, t.Kind, key)
	if err != nil || !ok {
		return zero, ok, err
	}
	v, cast := raw.(V)
	if !cast {
		return zero, false, &ConfigurationError{Msg: "session returned a value of the wrong type for kind " + t.Kind}
	}
	return v, true, nil
}

func (t Typed[K, V]) Insert(ctx context.Context, key K, value V) error {
	return t.Session.Insert(ctx, t.Kind, key, value)
}

func (t Typed[K, V]) Delete(ctx context.Context, key K) error {
	return t.Session.Delete(ctx, t.Kind, key)
}

func (t Typed[K, V]) Reattach(ctx context.Context, key K, value V) error {
	return t.Session.Reattach(ctx, t.Kind, key, value)
}
