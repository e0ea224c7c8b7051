// Package projector provides the core types shared by an event-sourcing
// projector: transactions and events flowing in, the context threaded through
// handlers, the projector's own checkpoint state, and the error taxonomy that
// the dispatch/batch/retry packages build on.
//
// # Overview
//
// This package defines the fundamental vocabulary:
//   - Transaction, EventEnvelope: the immutable input stream
//   - Context: per-transaction state carried through handlers, including the
//     sticky "was handled" flag
//   - State: the projector's own checkpoint row
//   - Session, SessionFactory: the store abstraction handlers are projected
//     against
//   - ProjectionFailure, ConfigurationError, ErrRetryInconsistency: the error
//     taxonomy
//   - Logger: an optional, zero-overhead-when-disabled observability hook
//
// # Design Philosophy
//
// Transaction control and store access are external collaborators. This
// package only describes the shapes; the dispatch, batch, and checkpoint
// packages supply behavior, and callers supply a concrete Session backed by
// their own database.
//
// Generic methods do not exist in Go, so Session is deliberately type-erased
// (kind string + any key/value) with Typed[K, V] as a thin generic façade
// recovering static typing at the call site. See the dispatch and batch
// packages for the typed dispatcher/driver built on top of it.
package projector
