// Package postgres is a PostgreSQL-backed checkpoint.Store.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/cairnlabs/esprojector/checkpoint"
	"github.com/cairnlabs/esprojector/projector"
)

// StoreConfig contains configuration for the Postgres checkpoint store.
// Configuration is immutable after construction.
type StoreConfig struct {
	// Logger is an optional logger for observability. Defaults to a no-op.
	Logger projector.Logger

	// Table is the name of the checkpoint table.
	Table string
}

// DefaultStoreConfig returns the default configuration.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Logger: projector.NoOpLogger{},
		Table:  "projector_checkpoints",
	}
}

// StoreOption is a functional option for configuring a Store.
type StoreOption func(*StoreConfig)

func WithLogger(logger projector.Logger) StoreOption {
	return func(c *StoreConfig) { c.Logger = logger }
}

func WithTable(table string) StoreOption {
	return func(c *StoreConfig) { c.Table = table }
}

// NewStoreConfig starts from DefaultStoreConfig and applies opts.
func NewStoreConfig(opts ...StoreOption) StoreConfig {
	config := DefaultStoreConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

// Store is a PostgreSQL-backed checkpoint.Store.
type Store struct {
	config StoreConfig
}

// NewStore constructs a Store against the given configuration.
func NewStore(config StoreConfig) *Store {
	return &Store{config: config}
}

// Read implements checkpoint.Store.
func (s *Store) Read(ctx context.Context, tx checkpoint.DBTX, stateKey string) (*projector.State, bool, error) {
	query := fmt.Sprintf(`
		SELECT checkpoint, last_update_utc
		FROM %s
		WHERE state_key = $1
	`, s.config.Table)

	var state projector.State
	state.ID = stateKey
	err := tx.QueryRowContext(ctx, query, stateKey).Scan(&state.Checkpoint, &state.LastUpdateUTC)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading checkpoint %q: %w", stateKey, err)
	}
	return &state, true, nil
}

// Write implements checkpoint.Store.
func (s *Store) Write(ctx context.Context, tx checkpoint.DBTX, state *projector.State) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (state_key, checkpoint, last_update_utc)
		VALUES ($1, $2, $3)
		ON CONFLICT (state_key) DO UPDATE SET
			checkpoint = EXCLUDED.checkpoint,
			last_update_utc = EXCLUDED.last_update_utc
	`, s.config.Table)

	lastUpdate := state.LastUpdateUTC
	if lastUpdate.IsZero() {
		lastUpdate = time.Now().UTC()
	}

	_, err := tx.ExecContext(ctx, query, state.ID, state.Checkpoint, lastUpdate)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("writing checkpoint %q: concurrent writer won the upsert race: %w", state.ID, err)
		}
		return fmt.Errorf("writing checkpoint %q: %w", state.ID, err)
	}

	s.config.Logger.Debug(ctx, "checkpoint written", "state_key", state.ID, "checkpoint", state.Checkpoint)
	return nil
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation. Exported for testing purposes.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" // unique_violation
	}
	return false
}

var _ checkpoint.Store = (*Store)(nil)
