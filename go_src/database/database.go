package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"gotradier/go_src/configuration"

	_ "github.com/marcboeker/go-duckdb" // DuckDB driver
)

const (
	duckDBMemoryLimit = "512MB"
	duckDBThreads     = "2"
	memoryDSN         = ":memory:"
)

// TradingDB manages the DuckDB connection holding balance history.
type TradingDB struct {
	db     *sql.DB
	dbPath string
}

// NewTradingDB opens the database named by config.Database.DBName,
// creating its directory when needed. An in-memory database is used when
// useInMemory is set, or when the name is ":memory:".
func NewTradingDB(config *configuration.Config, useInMemory bool) (*TradingDB, error) {
	dbPath := memoryDSN
	if !useInMemory {
		if config == nil || config.Database.DBName == "" {
			return nil, fmt.Errorf("database path (DBName) not provided in configuration")
		}
		dbPath = config.Database.DBName
	}

	connStr := dbPath
	if dbPath != memoryDSN {
		dbDir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory '%s': %w", dbDir, err)
		}
		connStr = dbPath + "?access_mode=READ_WRITE"
	}

	db, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB database at %s: %w", dbPath, err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DuckDB database at %s: %w", dbPath, err)
	}

	for _, stmt := range []string{
		fmt.Sprintf("SET memory_limit='%s';", duckDBMemoryLimit),
		fmt.Sprintf("SET threads=%s;", duckDBThreads),
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply initial config '%s': %w", stmt, err)
		}
	}

	return &TradingDB{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (tdb *TradingDB) Close() error {
	if tdb.db != nil {
		return tdb.db.Close()
	}
	return nil
}

// DB returns the underlying sql.DB object for direct use if needed.
func (tdb *TradingDB) DB() *sql.DB {
	return tdb.db
}

// Path returns the database file, or ":memory:".
func (tdb *TradingDB) Path() string {
	return tdb.dbPath
}

// InMemory reports whether nothing is persisted to disk.
func (tdb *TradingDB) InMemory() bool {
	return tdb.dbPath == memoryDSN
}
