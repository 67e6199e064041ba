package sqlitemigrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "migrate-test.db")
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestApplyMigrationsRunsEachFileOnce(t *testing.T) {
	t.Parallel()

	migrationFS := fstest.MapFS{
		"0001_init.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
CREATE TABLE items (id TEXT PRIMARY KEY, label TEXT NOT NULL);
-- +migrate Down
DROP TABLE items;
`)},
		"0002_seed.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
INSERT INTO items (id, label) VALUES ('a', 'first');
`)},
	}

	sqlDB := openTestDB(t)
	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	// Second run must be a no-op; the seed insert would fail on conflict.
	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}

	var count int
	if err := sqlDB.QueryRow("SELECT COUNT(1) FROM items").Scan(&count); err != nil {
		t.Fatalf("count items: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one seeded row, got %d", count)
	}
}

func TestApplyMigrationsRequiresDB(t *testing.T) {
	t.Parallel()

	if err := ApplyMigrations(nil, fstest.MapFS{}); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestExtractUpMigration(t *testing.T) {
	t.Parallel()

	content := "-- +migrate Up\nCREATE TABLE a (x);\n-- +migrate Down\nDROP TABLE a;\n"
	up := ExtractUpMigration(content)
	if up != "\nCREATE TABLE a (x);\n" {
		t.Fatalf("unexpected up section %q", up)
	}
	if got := ExtractUpMigration("CREATE TABLE b (y);"); got != "CREATE TABLE b (y);" {
		t.Fatalf("expected passthrough without markers, got %q", got)
	}
}

func TestIsAlreadyExistsError(t *testing.T) {
	t.Parallel()

	sqlDB := openTestDB(t)
	if _, err := sqlDB.Exec("CREATE TABLE dup (id TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	_, err := sqlDB.Exec("CREATE TABLE dup (id TEXT)")
	if err == nil {
		t.Fatal("expected duplicate table error")
	}
	if !IsAlreadyExistsError(err) {
		t.Fatalf("expected already-exists classification for %v", err)
	}
}
