// Package mysql is a MySQL-backed checkpoint.Store.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/cairnlabs/esprojector/checkpoint"
	"github.com/cairnlabs/esprojector/projector"
)

// StoreConfig contains configuration for the MySQL checkpoint store.
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

// Store is a MySQL-backed checkpoint.Store.
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
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			checkpoint = VALUES(checkpoint),
			last_update_utc = VALUES(last_update_utc)
	`, s.config.Table)

	lastUpdate := state.LastUpdateUTC
	if lastUpdate.IsZero() {
		lastUpdate = time.Now().UTC()
	}

	_, err := tx.ExecContext(ctx, query, state.ID, state.Checkpoint, lastUpdate)
	if err != nil {
		return fmt.Errorf("writing checkpoint %q: %w", state.ID, err)
	}

	s.config.Logger.Debug(ctx, "checkpoint written", "state_key", state.ID, "checkpoint", state.Checkpoint)
	return nil
}

// IsDuplicateEntry reports whether err is a MySQL duplicate-key error.
// Exported for testing purposes.
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062 // ER_DUP_ENTRY
	}
	return false
}

var _ checkpoint.Store = (*Store)(nil)
