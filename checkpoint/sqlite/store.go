// Package sqlite is a SQLite-backed checkpoint.Store, driven by the pure-Go
// modernc.org/sqlite driver so the whole module stays cgo-free.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cairnlabs/esprojector/checkpoint"
	"github.com/cairnlabs/esprojector/projector"
)

const timeFormat = "2006-01-02 15:04:05.999999"

// StoreConfig contains configuration for the SQLite checkpoint store.
type StoreConfig struct {
	Logger projector.Logger
	Table  string
}

func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Logger: projector.NoOpLogger{},
		Table:  "projector_checkpoints",
	}
}

type StoreOption func(*StoreConfig)

func WithLogger(logger projector.Logger) StoreOption {
	return func(c *StoreConfig) { c.Logger = logger }
}

func WithTable(table string) StoreOption {
	return func(c *StoreConfig) { c.Table = table }
}

func NewStoreConfig(opts ...StoreOption) StoreConfig {
	config := DefaultStoreConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

// Store is a SQLite-backed checkpoint.Store.
type Store struct {
	config StoreConfig
}

func NewStore(config StoreConfig) *Store {
	return &Store{config: config}
}

// Read implements checkpoint.Store.
func (s *Store) Read(ctx context.Context, tx checkpoint.DBTX, stateKey string) (*projector.State, bool, error) {
	query := fmt.Sprintf(`
		SELECT checkpoint, last_update_utc
		FROM %s
		WHERE state_key = ?
	`, s.config.Table)

	var (
		state      projector.State
		lastUpdate string
	)
	state.ID = stateKey
	err := tx.QueryRowContext(ctx, query, stateKey).Scan(&state.Checkpoint, &lastUpdate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading checkpoint %q: %w", stateKey, err)
	}

	state.LastUpdateUTC, err = time.Parse(timeFormat, lastUpdate)
	if err != nil {
		return nil, false, fmt.Errorf("parsing checkpoint timestamp %q: %w", lastUpdate, err)
	}
	return &state, true, nil
}

// Write implements checkpoint.Store.
func (s *Store) Write(ctx context.Context, tx checkpoint.DBTX, state *projector.State) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (state_key, checkpoint, last_update_utc)
		VALUES (?, ?, ?)
		ON CONFLICT (state_key) DO UPDATE SET
			checkpoint = excluded.checkpoint,
			last_update_utc = excluded.last_update_utc
	`, s.config.Table)

	lastUpdate := state.LastUpdateUTC
	if lastUpdate.IsZero() {
		lastUpdate = time.Now().UTC()
	}

	_, err := tx.ExecContext(ctx, query, state.ID, state.Checkpoint, lastUpdate.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("writing checkpoint %q: %w", state.ID, err)
	}

	s.config.Logger.Debug(ctx, "checkpoint written", "state_key", state.ID, "checkpoint", state.Checkpoint)
	return nil
}

// IsUniqueViolation reports whether err is a SQLite unique-constraint
// violation. Exported for testing purposes.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed")
}

var _ checkpoint.Store = (*Store)(nil)
