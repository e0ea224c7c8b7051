package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cairnlabs/esprojector/cache"
	"github.com/cairnlabs/esprojector/projector"
)

// Projector is the capability a Driver needs from whatever applies events
// within a batch: project one event, and expose the cache to clear on
// abort. *dispatch.Dispatcher[P, K] satisfies this for any P, K.
type Projector[P any, K comparable] interface {
	ProjectEvent(ctx context.Context, pctx *projector.Context, event projector.EventEnvelope) error
	Cache() cache.Cache[K, P]
}

// Driver is the BatchDriver (C5): it filters an incoming transaction list
// against the last persisted checkpoint, splits what remains into batches,
// and runs each one through the RetryController (C6).
type Driver[P any, K comparable] struct {
	projector_ Projector[P, K]
	factory    projector.SessionFactory
	opts       Options[P, K]
}

// New validates opts and constructs a Driver over proj and factory.
func New[P any, K comparable](proj Projector[P, K], factory projector.SessionFactory, opts ...Option[P, K]) (*Driver[P, K], error) {
	if proj == nil {
		return nil, &projector.ConfigurationError{Msg: "projector must not be nil"}
	}
	if factory == nil {
		return nil, &projector.ConfigurationError{Msg: "session factory must not be nil"}
	}

	o := NewOptions[P, K](opts...)
	if o.BatchSize < 1 {
		return nil, &projector.ConfigurationError{Msg: "batch size must be >= 1"}
	}
	if o.StateKey == "" {
		return nil, &projector.ConfigurationError{Msg: "state key must not be empty"}
	}
	if o.EnrichState == nil {
		return nil, &projector.ConfigurationError{Msg: "enrich state hook must not be nil"}
	}
	if o.ExceptionPolicy == nil {
		return nil, &projector.ConfigurationError{Msg: "exception policy must not be nil"}
	}
	if o.Logger == nil {
		o.Logger = projector.NoOpLogger{}
	}

	return &Driver[P, K]{projector_: proj, factory: factory, opts: o}, nil
}

// Options returns the effective, resolved options this Driver runs with.
func (d *Driver[P, K]) Options() Options[P, K] {
	return d.opts
}

// Handle reads the last persisted checkpoint from a throwaway session,
// keeps only transactions past it, splits the remainder into batches of at
// most BatchSize, and runs each through the retry controller in order.
// Cancellation observed between batches stops further work without error;
// cancellation observed mid-batch propagates as an error.
func (d *Driver[P, K]) Handle(ctx context.Context, transactions []projector.Transaction) error {
	last, err := d.lastCheckpoint(ctx)
	if err != nil {
		return err
	}

	pending := filterByCheckpoint(transactions, last)
	batches := splitBatches(pending, d.opts.BatchSize)

	for i, b := range batches {
		if ctx.Err() != nil {
			d.opts.Logger.Info(ctx, "stopping before next batch: context canceled")
			return nil
		}

		isLastOfPage := i == len(batches)-1
		if err := d.runWithRetry(ctx, b, isLastOfPage); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver[P, K]) lastCheckpoint(ctx context.Context) (*projector.State, error) {
	session, err := d.factory.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint-read session: %w", err)
	}
	state, ok, err := session.FindState(ctx, d.opts.StateKey)
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint %q: %w", d.opts.StateKey, err)
	}
	if !ok {
		return nil, nil
	}
	return state, nil
}

func filterByCheckpoint(transactions []projector.Transaction, last *projector.State) []projector.Transaction {
	if last == nil {
		return transactions
	}
	out := make([]projector.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.Checkpoint > last.Checkpoint {
			out = append(out, tx)
		}
	}
	return out
}

func splitBatches(transactions []projector.Transaction, size int) [][]projector.Transaction {
	if len(transactions) == 0 {
		return nil
	}
	batches := make([][]projector.Transaction, 0, (len(transactions)+size-1)/size)
	for i := 0; i < len(transactions); i += size {
		end := i + size
		if end > len(transactions) {
			end = len(transactions)
		}
		batches = append(batches, transactions[i:end])
	}
	return batches
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// projectBatch opens a fresh session and transaction, projects every event
// of every transaction in batch in order, decides whether to persist the
// checkpoint, flushes, and commits. On any failure it clears the cache,
// rolls back, and returns a tagged, propagation-ready error.
func (d *Driver[P, K]) projectBatch(ctx context.Context, batch []projector.Transaction, isLastOfPage bool) error {
	var session projector.Session

	fail := func(cause error) error {
		d.projector_.Cache().Clear()
		if session != nil {
			_ = session.Rollback(ctx)
		}

		if isCancellation(cause) {
			return cause
		}

		if pf, ok := projector.AsProjectionFailure(cause); ok {
			if pf.ProjectorID == "" {
				pf.ProjectorID = d.opts.StateKey
			}
			if pf.Batch == nil {
				pf.Batch = batch
			}
			return pf
		}

		return &projector.ProjectionFailure{
			ProjectorID: d.opts.StateKey,
			Batch:       batch,
			Cause:       cause,
		}
	}

	s, err := d.factory.NewSession(ctx)
	if err != nil {
		return fail(fmt.Errorf("opening batch session: %w", err))
	}
	session = s
	if err := session.BeginTransaction(ctx); err != nil {
		return fail(fmt.Errorf("beginning batch transaction: %w", err))
	}

	dirty := false
	var last projector.Transaction

	for _, tx := range batch {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		pctx := &projector.Context{
			TransactionID:      tx.ID,
			StreamID:           tx.StreamID,
			Checkpoint:         tx.Checkpoint,
			TimestampUTC:       tx.TimestampUTC,
			TransactionHeaders: tx.Headers,
			Session:            session,
		}

		for _, event := range tx.Events {
			pctx.EventHeaders = event.Headers
			if err := d.projector_.ProjectEvent(ctx, pctx, event); err != nil {
				failed := event
				if pf, ok := projector.AsProjectionFailure(err); ok {
					if pf.TransactionID == "" {
						pf.TransactionID = tx.ID
					}
					if pf.Event == nil {
						pf.Event = &failed
					}
				} else if !isCancellation(err) {
					err = &projector.ProjectionFailure{TransactionID: tx.ID, Event: &failed, Cause: err}
				}
				return fail(err)
			}
		}

		dirty = dirty || pctx.WasHandled()
		last = tx
	}

	if d.shouldPersist(isLastOfPage, dirty) {
		state := &projector.State{
			ID:            d.opts.StateKey,
			Checkpoint:    last.Checkpoint,
			LastUpdateUTC: time.Now().UTC(),
		}
		if err := d.opts.EnrichState(ctx, state, last); err != nil {
			return fail(err)
		}
		if err := session.AddState(ctx, state); err != nil {
			return fail(err)
		}
	}

	if err := session.Flush(ctx); err != nil {
		return fail(err)
	}
	if err := session.Commit(ctx); err != nil {
		return fail(err)
	}
	return nil
}

func (d *Driver[P, K]) shouldPersist(isLastOfPage, dirty bool) bool {
	if isLastOfPage {
		return true
	}
	switch d.opts.PersistStateBehavior {
	case EveryBatch:
		return true
	case DirtyBatch:
		return dirty
	default: // LastBatchOfPage
		return false
	}
}
