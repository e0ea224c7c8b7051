package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cairnlabs/esprojector/checkpoint/migrations"
	"github.com/cairnlabs/esprojector/checkpoint/sqlite"
	"github.com/cairnlabs/esprojector/projector"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checkpoints.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening sqlite db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTable(t *testing.T, db *sql.DB, table string) {
	t.Helper()
	_, err := db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			state_key TEXT PRIMARY KEY,
			checkpoint INTEGER NOT NULL,
			last_update_utc TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`, table))
	if err != nil {
		t.Fatalf("creating checkpoint table: %v", err)
	}
}

func TestStore_WriteThenReadRoundTrips(t *testing.T) {
	db := openTestDB(t)
	setupTable(t, db, "checkpoints")

	store := sqlite.NewStore(sqlite.NewStoreConfig(sqlite.WithTable("checkpoints")))
	ctx := context.Background()

	state := &projector.State{ID: "widget-summary", Checkpoint: 42, LastUpdateUTC: time.Now().UTC()}
	if err := store.Write(ctx, db, state); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, ok, err := store.Read(ctx, db, "widget-summary")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !ok {
		t.Fatal("expected checkpoint row to exist")
	}
	if got.Checkpoint != 42 {
		t.Errorf("Checkpoint = %d, want 42", got.Checkpoint)
	}
}

func TestStore_WriteUpsertsOnConflict(t *testing.T) {
	db := openTestDB(t)
	setupTable(t, db, "checkpoints")

	store := sqlite.NewStore(sqlite.NewStoreConfig(sqlite.WithTable("checkpoints")))
	ctx := context.Background()

	if err := store.Write(ctx, db, &projector.State{ID: "order-total", Checkpoint: 1, LastUpdateUTC: time.Now().UTC()}); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	if err := store.Write(ctx, db, &projector.State{ID: "order-total", Checkpoint: 2, LastUpdateUTC: time.Now().UTC()}); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	got, ok, err := store.Read(ctx, db, "order-total")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !ok {
		t.Fatal("expected checkpoint row to exist")
	}
	if got.Checkpoint != 2 {
		t.Errorf("Checkpoint = %d, want 2 after upsert", got.Checkpoint)
	}
}

func TestStore_ReadMissingKeyReturnsNotOK(t *testing.T) {
	db := openTestDB(t)
	setupTable(t, db, "checkpoints")

	store := sqlite.NewStore(sqlite.NewStoreConfig(sqlite.WithTable("checkpoints")))

	_, ok, err := store.Read(context.Background(), db, "does-not-exist")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing key")
	}
}

func TestGeneratedMigrationMatchesStoreSchema(t *testing.T) {
	db := openTestDB(t)

	tmpDir := t.TempDir()
	config := migrations.Config{OutputFolder: tmpDir, OutputFilename: "migration.sql", Table: "generated_checkpoints"}
	if err := migrations.GenerateSQLite(&config); err != nil {
		t.Fatalf("GenerateSQLite: %v", err)
	}

	sqlBytes := readMigration(t, tmpDir, config.OutputFilename)
	if _, err := db.Exec(sqlBytes); err != nil {
		t.Fatalf("applying generated migration: %v", err)
	}

	store := sqlite.NewStore(sqlite.NewStoreConfig(sqlite.WithTable(config.Table)))
	if err := store.Write(context.Background(), db, &projector.State{ID: "k", Checkpoint: 1, LastUpdateUTC: time.Now().UTC()}); err != nil {
		t.Fatalf("Write against generated schema: %v", err)
	}
}

func readMigration(t *testing.T, dir, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading generated migration: %v", err)
	}
	return string(b)
}
