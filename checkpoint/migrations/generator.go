// Package migrations generates the SQL migration for a projector's
// checkpoint table, one file per backend adapter in the sibling
// checkpoint/{postgres,mysql,sqlite} packages.
//
// Adapted from the teacher's es/migrations generator, scoped down from its
// full events/aggregate_heads/checkpoints schema to just the single
// checkpoint table this module's checkpoint.Store adapters read and write.
package migrations

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config configures migration generation.
type Config struct {
	// OutputFolder is the directory the migration file is written into.
	OutputFolder string

	// OutputFilename is the name of the migration file. Defaults to a
	// timestamp-based name if left empty.
	OutputFilename string

	// Table is the name of the checkpoint table.
	Table string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		OutputFolder: "migrations",
		Table:        "projector_checkpoints",
	}
}

func (c Config) filename(adapter string) string {
	if c.OutputFilename != "" {
		return c.OutputFilename
	}
	return fmt.Sprintf("%s_init_%s_checkpoints.sql", time.Now().Format("20060102150405"), adapter)
}

func write(config *Config, adapter, sql string) error {
	if err := os.MkdirAll(config.OutputFolder, 0o755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}
	path := filepath.Join(config.OutputFolder, config.filename(adapter))
	if err := os.WriteFile(path, []byte(sql), 0o600); err != nil {
		return fmt.Errorf("failed to write migration file: %w", err)
	}
	return nil
}

// GeneratePostgres writes a PostgreSQL migration creating config.Table.
func GeneratePostgres(config *Config) error {
	return write(config, "postgres", fmt.Sprintf(`-- Projector checkpoint table
-- Generated: %s

CREATE TABLE IF NOT EXISTS %s (
    state_key TEXT PRIMARY KEY,
    checkpoint BIGINT NOT NULL,
    last_update_utc TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`, time.Now().Format(time.RFC3339), config.Table))
}

// GenerateMySQL writes a MySQL migration creating config.Table.
func GenerateMySQL(config *Config) error {
	return write(config, "mysql", fmt.Sprintf(`-- Projector checkpoint table
-- Generated: %s

CREATE TABLE IF NOT EXISTS %s (
    state_key VARCHAR(191) PRIMARY KEY,
    checkpoint BIGINT NOT NULL,
    last_update_utc DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
);
`, time.Now().Format(time.RFC3339), config.Table))
}

// GenerateSQLite writes a SQLite migration creating config.Table.
func GenerateSQLite(config *Config) error {
	return write(config, "sqlite", fmt.Sprintf(`-- Projector checkpoint table
-- Generated: %s

CREATE TABLE IF NOT EXISTS %s (
    state_key TEXT PRIMARY KEY,
    checkpoint INTEGER NOT NULL,
    last_update_utc TEXT NOT NULL DEFAULT (datetime('now'))
);
`, time.Now().Format(time.RFC3339), config.Table))
}
