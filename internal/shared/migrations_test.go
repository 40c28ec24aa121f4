package shared

import (
	"testing"
)

func TestRunMigrations(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Re-running must be a no-op.
	if err := RunMigrations(db); err != nil {
		t.Fatalf("second run should be idempotent: %v", err)
	}

	tables := []string{"videos", "channels", "video_topics", "categories", "topics", "enrichment_lock", "videos_sequence", "channels_sequence"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("expected table %s to exist: %v", table, err)
		}
	}

	// Sequence tables start seeded at zero.
	var value int
	if err := db.QueryRow("SELECT value FROM videos_sequence WHERE id = 1").Scan(&value); err != nil {
		t.Fatalf("expected seeded sequence row: %v", err)
	}
	if value != 0 {
		t.Errorf("expected sequence to start at 0, got %d", value)
	}
}

func TestRollbackMigration(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	if err := RollbackMigration(db); err != nil {
		t.Fatalf("failed to rollback: %v", err)
	}

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'videos'").Scan(&name)
	if err == nil {
		t.Error("expected videos table to be dropped after rollback")
	}

	if err := RollbackMigration(db); err == nil {
		t.Error("expected error when nothing is left to rollback")
	}
}

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("failed to load migrations: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected at least one migration")
	}

	for i, migration := range migrations {
		if migration.Up == "" || migration.Down == "" {
			t.Errorf("migration %d is incomplete", migration.Version)
		}
		if i > 0 && migrations[i-1].Version >= migration.Version {
			t.Error("migrations must be sorted by version")
		}
	}
}

func TestStripSQLComments(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"SELECT 1", "SELECT 1"},
		{"-- just a comment", ""},
		{"SELECT 1 -- trailing", "SELECT 1"},
		{"  \n\t", ""},
		{"-- header\nCREATE TABLE t (id)", "CREATE TABLE t (id)"},
	}

	for _, tt := range tests {
		if got := stripSQLComments(tt.input); got != tt.want {
			t.Errorf("stripSQLComments(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
