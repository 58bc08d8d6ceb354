package database

import (
	"context"
	"os"
	"testing"
)

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_integration.db"
	defer os.Remove(dbPath)

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Tables created by the migrations
	tables := []string{"profiles", "blobs", "test_results", "practice_results"}
	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		if err := db.QueryRowContext(ctx, query, table).Scan(&name); err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}
}

// TestBlobUpsert tests the dialect upsert against a real database
func TestBlobUpsert(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_blobs.db"
	defer os.Remove(dbPath)

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	if _, err := db.Exec(db.Dialect.UpsertBlob(), "settings:1", []byte(`{"language":"en"}`)); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}
	if _, err := db.Exec(db.Dialect.UpsertBlob(), "settings:1", []byte(`{"language":"ar"}`)); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	var value []byte
	if err := db.QueryRow("SELECT value FROM blobs WHERE key = ?", "settings:1").Scan(&value); err != nil {
		t.Fatalf("Failed to read blob back: %v", err)
	}
	if string(value) != `{"language":"ar"}` {
		t.Errorf("Expected overwritten value, got %s", value)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM blobs").Scan(&count); err != nil {
		t.Fatalf("Failed to count blobs: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 blob row after upsert, got %d", count)
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_transactions.db"
	defer os.Remove(dbPath)

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	// Committed insert is visible
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	_, err = tx.ExecContext(ctx, "INSERT INTO profiles (name, handle, pin_hash, level) VALUES (?, ?, ?, ?)",
		"Test Kid", "brave-falcon", "hash", "level_2")
	if err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in transaction: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles WHERE handle = ?", "brave-falcon").Scan(&count); err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 profile, got %d", count)
	}

	// Rolled back insert is not
	tx2, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to begin second transaction: %v", err)
	}
	_, err = tx2.ExecContext(ctx, "INSERT INTO profiles (name, handle, pin_hash, level) VALUES (?, ?, ?, ?)",
		"Other Kid", "sunny-otter", "hash", "level_1")
	if err != nil {
		tx2.Rollback()
		t.Fatalf("Failed to insert in second transaction: %v", err)
	}
	if err := tx2.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles WHERE handle = ?", "sunny-otter").Scan(&count); err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 profiles after rollback, got %d", count)
	}
}
