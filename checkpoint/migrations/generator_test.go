package migrations

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGeneratePostgres(t *testing.T) {
	tmpDir := t.TempDir()
	config := Config{OutputFolder: tmpDir, OutputFilename: "test_migration.sql", Table: "widget_checkpoints"}

	if err := GeneratePostgres(&config); err != nil {
		t.Fatalf("GeneratePostgres: %v", err)
	}

	sql := readFile(t, tmpDir, config.OutputFilename)
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS widget_checkpoints",
		"state_key TEXT PRIMARY KEY",
		"checkpoint BIGINT NOT NULL",
		"last_update_utc TIMESTAMPTZ NOT NULL",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("generated SQL missing %q", want)
		}
	}
}

func TestGenerateMySQL(t *testing.T) {
	tmpDir := t.TempDir()
	config := Config{OutputFolder: tmpDir, OutputFilename: "test_migration.sql", Table: "widget_checkpoints"}

	if err := GenerateMySQL(&config); err != nil {
		t.Fatalf("GenerateMySQL: %v", err)
	}

	sql := readFile(t, tmpDir, config.OutputFilename)
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS widget_checkpoints",
		"state_key VARCHAR(191) PRIMARY KEY",
		"checkpoint BIGINT NOT NULL",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("generated SQL missing %q", want)
		}
	}
}

func TestGenerateSQLite(t *testing.T) {
	tmpDir := t.TempDir()
	config := Config{OutputFolder: tmpDir, OutputFilename: "test_migration.sql", Table: "widget_checkpoints"}

	if err := GenerateSQLite(&config); err != nil {
		t.Fatalf("GenerateSQLite: %v", err)
	}

	sql := readFile(t, tmpDir, config.OutputFilename)
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS widget_checkpoints",
		"state_key TEXT PRIMARY KEY",
		"checkpoint INTEGER NOT NULL",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("generated SQL missing %q", want)
		}
	}
}

func TestDefaultFilenameIsTimestampBased(t *testing.T) {
	tmpDir := t.TempDir()
	config := DefaultConfig()
	config.OutputFolder = tmpDir

	if err := GenerateSQLite(&config); err != nil {
		t.Fatalf("GenerateSQLite: %v", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one generated file, got %d", len(entries))
	}
	if !strings.HasSuffix(entries[0].Name(), "_init_sqlite_checkpoints.sql") {
		t.Errorf("unexpected generated filename: %s", entries[0].Name())
	}
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(content)
}
