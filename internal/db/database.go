package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

// InitDatabase initializes SQLite database and creates tables
func InitDatabase(dbPath string) error {
	database, err := Open(dbPath)
	if err != nil {
		return err
	}
	DB = database
	log.Printf("Database initialized at: %s", dbPath)
	return nil
}

// Open opens the SQLite database at dbPath and creates its tables
func Open(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	database, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return database, nil
}

// createTables creates all necessary tables
func createTables(database *sql.DB) error {
	createStorageTable := `
	CREATE TABLE IF NOT EXISTS session_storage (
		session_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (session_id, key)
	);`

	if _, err := database.Exec(createStorageTable); err != nil {
		return fmt.Errorf("failed to create session_storage table: %w", err)
	}

	// Index on updated_at for expiring stale sessions
	createIndex := `CREATE INDEX IF NOT EXISTS idx_session_updated ON session_storage(updated_at);`
	if _, err := database.Exec(createIndex); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
