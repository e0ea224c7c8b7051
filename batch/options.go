package batch

import (
	"context"

	"github.com/cairnlabs/esprojector/projector"
)

// PersistBehavior controls when projectBatch writes the checkpoint row for
// a batch that is not the last of its page.
type PersistBehavior int

const (
	// EveryBatch persists after every batch, page-final or not.
	EveryBatch PersistBehavior = iota
	// DirtyBatch persists only if some event in the batch was handled.
	DirtyBatch
	// LastBatchOfPage persists only for the page's final batch.
	LastBatchOfPage
)

func (b PersistBehavior) String() string {
	switch b {
	case EveryBatch:
		return "EveryBatch"
	case DirtyBatch:
		return "DirtyBatch"
	case LastBatchOfPage:
		return "LastBatchOfPage"
	default:
		return "Unknown"
	}
}

// EnrichFunc is called within the open store transaction, after the
// checkpoint row has been built but before it is written, so callers can
// stash extra columns onto State.Extra.
type EnrichFunc func(ctx context.Context, state *projector.State, last projector.Transaction) error

// Options configures a Driver. All fields have usable defaults; see
// DefaultOptions.
type Options[P any, K comparable] struct {
	// BatchSize is the number of transactions grouped per store transaction.
	// Must be >= 1.
	BatchSize int

	// StateKey identifies this projector's checkpoint row. Must be
	// non-empty.
	StateKey string

	PersistStateBehavior PersistBehavior
	EnrichState          EnrichFunc
	ExceptionPolicy      projector.ExceptionPolicy
	Logger               projector.Logger
}

// DefaultOptions returns the spec-mandated defaults: batch size 1, state
// key the reflected type name of P, EveryBatch persistence, a no-op enrich
// hook, AlwaysAbort policy, and a NoOpLogger.
func DefaultOptions[P any, K comparable]() Options[P, K] {
	return Options[P, K]{
		BatchSize:            1,
		StateKey:             projector.TypeName[P](),
		PersistStateBehavior: EveryBatch,
		EnrichState:          func(context.Context, *projector.State, projector.Transaction) error { return nil },
		ExceptionPolicy:      projector.AlwaysAbort,
		Logger:               projector.NoOpLogger{},
	}
}

// Option mutates an Options value. The With... functions construct them;
// New and NewOptions apply them.
type Option[P any, K comparable] func(*Options[P, K])

// NewOptions starts from DefaultOptions and applies opts in order.
func NewOptions[P any, K comparable](opts ...Option[P, K]) Options[P, K] {
	o := DefaultOptions[P, K]()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithBatchSize[P any, K comparable](n int) Option[P, K] {
	return func(o *Options[P, K]) { o.BatchSize = n }
}

func WithStateKey[P any, K comparable](key string) Option[P, K] {
	return func(o *Options[P, K]) { o.StateKey = key }
}

func WithPersistStateBehavior[P any, K comparable](b PersistBehavior) Option[P, K] {
	return func(o *Options[P, K]) { o.PersistStateBehavior = b }
}

func WithEnrichState[P any, K comparable](fn EnrichFunc) Option[P, K] {
	return func(o *Options[P, K]) { o.EnrichState = fn }
}

func WithExceptionPolicy[P any, K comparable](p projector.ExceptionPolicy) Option[P, K] {
	return func(o *Options[P, K]) { o.ExceptionPolicy = p }
}

func WithLogger[P any, K comparable](l projector.Logger) Option[P, K] {
	return func(o *Options[P, K]) { o.Logger = l }
}
