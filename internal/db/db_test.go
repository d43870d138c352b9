package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/j-veylop/netmeter/internal/models"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}

	// Verify file exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("Nested directories were not created")
	}
}

func TestSchema_TablesExist(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	tables := []string{
		"usage_snapshots",
		"profile_status",
	}

	for _, table := range tables {
		var name string
		err := db.QueryRowContext(context.Background(), "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s does not exist: %v", table, err)
		}
	}
}

func TestNew_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	if err := first.InsertSnapshot(&models.UsageSnapshot{Username: "alice", Status: "Active"}); err != nil {
		t.Fatalf("InsertSnapshot() failed: %v", err)
	}
	_ = first.Close()

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer second.Close()

	version, err := second.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() failed: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("SchemaVersion() = %d, want %d", version, len(migrations))
	}

	snapshots, err := second.GetRecentSnapshots(10)
	if err != nil {
		t.Fatalf("GetRecentSnapshots() failed: %v", err)
	}
	if len(snapshots) != 1 {
		t.Errorf("expected snapshot to survive reopen, got %d", len(snapshots))
	}
}

func TestMigrate_TrimsZoneSuffix(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	_, err := db.ExecContext(context.Background(),
		`INSERT INTO usage_snapshots (timestamp, username, status) VALUES ('2025-01-02 03:04:05 +0000 UTC', 'bob', 'Active')`)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := db.ExecContext(context.Background(), "PRAGMA user_version = 0"); err != nil {
		t.Fatalf("reset version failed: %v", err)
	}

	if err := db.migrate(); err != nil {
		t.Fatalf("migrate() failed: %v", err)
	}

	var ts string
	if err := db.QueryRowContext(context.Background(), "SELECT timestamp FROM usage_snapshots").Scan(&ts); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if ts != "2025-01-02 03:04:05" {
		t.Errorf("timestamp = %q, want trimmed", ts)
	}
}

func TestVacuum(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	if err := db.Vacuum(); err != nil {
		t.Errorf("Vacuum failed: %v", err)
	}
}

func TestClose(t *testing.T) {
	db := newTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	// Verify database is closed by trying to query
	_, err := db.QueryContext(context.Background(), "SELECT 1")
	if err == nil {
		t.Error("Expected error querying closed database")
	}
}

// Helper to create a test database
func newTestDB(t *testing.T) *DB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	return db
}
