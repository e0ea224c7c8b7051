// Package checkpoint ships ready-made, fixed-schema persistence for a
// projector's checkpoint row against a real SQL backend, bridged into a
// projector.Session via SessionDecorator. The BatchDriver itself only ever
// calls Session.FindState/AddState (spec §6); Store and its backend
// adapters are a convenience for callers who would rather point at a table
// than hand-write a Session.
//
// Grounded on the teacher's transaction-agnostic DBTX interface
// (es/dbtx.go) and its per-backend GetCheckpoint/UpdateCheckpoint methods
// (es/adapters/{postgres,mysql,sqlite}/store.go).
package checkpoint

import (
	"context"
	"database/sql"

	"github.com/cairnlabs/esprojector/projector"
)

// DBTX is a minimal interface over database operations, implemented by both
// *sql.DB and *sql.Tx, so a Store can run against either a bare connection
// (the throwaway checkpoint-read session) or an open transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// Store reads and writes a projector's checkpoint row against a fixed
// schema: a state key, a 64-bit checkpoint, and a last-update timestamp.
type Store interface {
	// Read returns the checkpoint row for stateKey, or (nil, false, nil) if
	// it does not exist yet.
	Read(ctx context.Context, tx DBTX, stateKey string) (*projector.State, bool, error)

	// Write upserts the checkpoint row.
	Write(ctx context.Context, tx DBTX, state *projector.State) error
}

// Provider returns the DBTX a SessionDecorator should run its next Store
// call against: *sql.DB outside a transaction, the live *sql.Tx inside one.
type Provider func() DBTX

// SessionDecorator wraps a projector.Session, routing FindState/AddState
// through a Store backed by a real table instead of the wrapped Session's
// own state handling, while every other method passes through unchanged.
type SessionDecorator struct {
	projector.Session
	Store Store
	DBTX  Provider
}

// Wrap constructs a SessionDecorator over session.
func Wrap(session projector.Session, store Store, dbtx Provider) *SessionDecorator {
	return &SessionDecorator{Session: session, Store: store, DBTX: dbtx}
}

func (d *SessionDecorator) FindState(ctx context.Context, id string) (*projector.State, bool, error) {
	return d.Store.Read(ctx, d.DBTX(), id)
}

func (d *SessionDecorator) AddState(ctx context.Context, state *projector.State) error {
	return d.Store.Write(ctx, d.DBTX(), state)
}

var _ projector.Session = (*SessionDecorator)(nil)
