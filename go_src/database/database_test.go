package database

import (
	"os"
	"path/filepath"
	"testing"

	"gotradier/go_src/configuration"
)

// Helper to get a basic config for testing.
func getTestConfig(dbPath string) *configuration.Config {
	return &configuration.Config{
		Database: configuration.Database{DBName: dbPath},
	}
}

// setupTestDB opens an in-memory DB closed at the end of the test.
func setupTestDB(t *testing.T) *TradingDB {
	t.Helper()
	tdb, err := NewTradingDB(nil, true)
	if err != nil {
		t.Fatalf("Failed to create in-memory test DB: %v", err)
	}
	t.Cleanup(func() { tdb.Close() })
	return tdb
}

func TestNewTradingDB_InMemory(t *testing.T) {
	tdb, err := NewTradingDB(nil, true)
	if err != nil {
		t.Fatalf("NewTradingDB in-memory failed: %v", err)
	}
	if !tdb.InMemory() || tdb.Path() != ":memory:" {
		t.Errorf("Expected in-memory DB, got path %s", tdb.Path())
	}
	if err := tdb.DB().Ping(); err != nil {
		t.Errorf("Ping failed for in-memory database: %v", err)
	}
	if err := tdb.Close(); err != nil {
		t.Errorf("Close failed for in-memory database: %v", err)
	}
}

func TestNewTradingDB_MemoryName(t *testing.T) {
	tdb, err := NewTradingDB(getTestConfig(":memory:"), false)
	if err != nil {
		t.Fatalf("NewTradingDB failed for :memory: name: %v", err)
	}
	defer tdb.Close()
	if !tdb.InMemory() {
		t.Error("DBName ':memory:' should open an in-memory database")
	}
}

func TestNewTradingDB_File(t *testing.T) {
	tempDir := t.TempDir()
	dbFilePath := filepath.Join(tempDir, "nested", "snapshots.duckdb")

	tdb, err := NewTradingDB(getTestConfig(dbFilePath), false)
	if err != nil {
		t.Fatalf("NewTradingDB with file failed: %v", err)
	}
	if tdb.InMemory() {
		t.Error("File database reported as in-memory")
	}
	if tdb.Path() != dbFilePath {
		t.Errorf("Expected dbPath to be %s, got %s", dbFilePath, tdb.Path())
	}
	if err := tdb.Close(); err != nil {
		t.Errorf("Close failed for file database: %v", err)
	}
	if _, err := os.Stat(dbFilePath); os.IsNotExist(err) {
		t.Errorf("Database file %s was not created", dbFilePath)
	}
}

func TestNewTradingDB_NoConfig(t *testing.T) {
	_, err := NewTradingDB(nil, false)
	if err == nil {
		t.Fatal("NewTradingDB should fail if config is nil for a file database")
	}
	expectedErrorMsg := "database path (DBName) not provided in configuration"
	if err.Error() != expectedErrorMsg {
		t.Errorf("Expected error '%s', got '%s'", expectedErrorMsg, err.Error())
	}
}

func TestTradingDB_Settings(t *testing.T) {
	tdb := setupTestDB(t)

	var threads string
	if err := tdb.DB().QueryRow("SELECT current_setting('threads');").Scan(&threads); err != nil {
		t.Fatalf("Could not read threads setting: %v", err)
	}
	if threads != duckDBThreads {
		t.Errorf("Expected threads '%s', got '%s'", duckDBThreads, threads)
	}
}
