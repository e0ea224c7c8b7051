// Package memstore is an in-memory checkpoint.Store for tests: it ignores
// the DBTX argument entirely, since there is no real connection behind it.
package memstore

import (
	"context"
	"sync"

	"github.com/cairnlabs/esprojector/checkpoint"
	"github.com/cairnlabs/esprojector/projector"
)

// Store is an in-memory checkpoint.Store.
type Store struct {
	mu   sync.Mutex
	rows map[string]*projector.State
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{rows: make(map[string]*projector.State)}
}

// Read implements checkpoint.Store.
func (s *Store) Read(_ context.Context, _ checkpoint.DBTX, stateKey string) (*projector.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.rows[stateKey]
	if !ok {
		return nil, false, nil
	}
	cp := *st
	return &cp, true, nil
}

// Write implements checkpoint.Store.
func (s *Store) Write(_ context.Context, _ checkpoint.DBTX, state *projector.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *state
	s.rows[state.ID] = &cp
	return nil
}

var _ checkpoint.Store = (*Store)(nil)
