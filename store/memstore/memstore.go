// Package memstore is an in-memory projector.Session implementation for
// tests. It is not meant for production use: a
// single sync.Mutex serializes every transaction, which is fine because the
// core itself never runs two batches concurrently against one projector
// (spec §5), but would be a bottleneck for anything else.
//
// Grounded on the teacher's DBTX philosophy of being transaction-agnostic
// and on the generic in-memory store in the AntoineToussaint-timeoff example
// repo (generic/store/memory.go), which snapshots state for rollback rather
// than tracking an undo log.
package memstore

import (
	"context"
	"sync"

	"github.com/cairnlabs/esprojector/projector"
)

type tableSet struct {
	rows   map[string]map[any]any
	states map[string]*projector.State
}

func newTableSet() tableSet {
	return tableSet{
		rows:   make(map[string]map[any]any),
		states: make(map[string]*projector.State),
	}
}

func cloneTableSet(t tableSet) tableSet {
	out := newTableSet()
	for kind, rows := range t.rows {
		m := make(map[any]any, len(rows))
		for k, v := range rows {
			m[k] = v
		}
		out.rows[kind] = m
	}
	for id, st := range t.states {
		cp := *st
		out.states[id] = &cp
	}
	return out
}

// Store holds committed state shared by every Session a Factory produces.
type Store struct {
	mu        sync.Mutex // guards committed
	txMu      sync.Mutex // held by a session from BeginTransaction until Commit or Rollback
	committed tableSet
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{committed: newTableSet()}
}

// Factory returns a projector.SessionFactory over s.
func (s *Store) Factory() projector.SessionFactory {
	return &factory{store: s}
}

// Snapshot returns the committed value under kind/key, mainly for test
// assertions against committed state. The value itself is returned, not a
// copy.
func (s *Store) Snapshot(kind string, key any) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.committed.rows[kind]
	if rows == nil {
		return nil, false
	}
	v, ok := rows[key]
	return v, ok
}

// State returns a defensive copy of the committed state row for id.
func (s *Store) State(id string) (projector.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.committed.states[id]
	if !ok {
		return projector.State{}, false
	}
	return *st, true
}

// Len reports how many rows are committed under kind. Useful for asserting
// the at-most-one-create-per-key invariant.
func (s *Store) Len(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.committed.rows[kind])
}

type factory struct {
	store *Store
}

func (f *factory) NewSession(context.Context) (projector.Session, error) {
	f.store.mu.Lock()
	staged := cloneTableSet(f.store.committed)
	f.store.mu.Unlock()
	return &session{store: f.store, staged: staged}, nil
}

// session is a single store transaction's view: it stages writes against a
// cloned copy of committed state, and only replaces committed on Commit.
//
// The clone is taken eagerly in NewSession so a throwaway session that never
// calls BeginTransaction (the initial, read-only checkpoint lookup) still
// sees committed state. BeginTransaction takes the store's transaction lock,
// held until Commit or Rollback, and re-clones committed state, so writes
// serialize against other transactions without blocking plain reads.
type session struct {
	store  *Store
	staged tableSet
	locked bool
	done   bool
}

func (s *session) BeginTransaction(context.Context) error {
	s.store.txMu.Lock()
	s.locked = true
	s.store.mu.Lock()
	s.staged = cloneTableSet(s.store.committed)
	s.store.mu.Unlock()
	return nil
}

func (s *session) Load(_ context.Context, kind string, key any) (any, bool, error) {
	rows := s.staged.rows[kind]
	if rows == nil {
		return nil, false, nil
	}
	v, ok := rows[key]
	return v, ok, nil
}

func (s *session) Insert(_ context.Context, kind string, key, value any) error {
	if s.staged.rows[kind] == nil {
		s.staged.rows[kind] = make(map[any]any)
	}
	s.staged.rows[kind][key] = value
	return nil
}

func (s *session) Delete(_ context.Context, kind string, key any) error {
	if s.staged.rows[kind] != nil {
		delete(s.staged.rows[kind], key)
	}
	return nil
}

func (s *session) Reattach(_ context.Context, kind string, key, value any) error {
	if s.staged.rows[kind] == nil {
		s.staged.rows[kind] = make(map[any]any)
	}
	s.staged.rows[kind][key] = value
	return nil
}

func (s *session) FindState(_ context.Context, id string) (*projector.State, bool, error) {
	st, ok := s.staged.states[id]
	return st, ok, nil
}

func (s *session) AddState(_ context.Context, state *projector.State) error {
	cp := *state
	s.staged.states[state.ID] = &cp
	return nil
}

func (s *session) Flush(context.Context) error {
	return nil
}

func (s *session) Commit(context.Context) error {
	if s.done {
		return nil
	}
	s.store.mu.Lock()
	s.store.committed = s.staged
	s.store.mu.Unlock()
	s.finish()
	return nil
}

func (s *session) Rollback(context.Context) error {
	if s.done {
		return nil
	}
	s.finish()
	return nil
}

func (s *session) finish() {
	s.done = true
	if s.locked {
		s.store.txMu.Unlock()
		s.locked = false
	}
}

var _ projector.SessionFactory = (*factory)(nil)
var _ projector.Session = (*session)(nil)
