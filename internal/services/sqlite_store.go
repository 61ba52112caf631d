package services

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"slidedeck/internal/models"
)

// SQLiteBackend persists session values in the session_storage table
type SQLiteBackend struct {
	database *sql.DB
}

// NewSQLiteBackend creates a new backend on an initialized database
func NewSQLiteBackend(database *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{
		database: database,
	}
}

// Load returns the value stored under key for a session
func (b *SQLiteBackend) Load(sessionID, key string) (string, bool, error) {
	query := `SELECT value FROM session_storage WHERE session_id = ? AND key = ?`

	var value string
	err := b.database.QueryRow(query, sessionID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query session value: %w", err)
	}
	return value, true, nil
}

// Save inserts or replaces the value stored under key for a session
func (b *SQLiteBackend) Save(sessionID, key, value string) error {
	query := `INSERT INTO session_storage (session_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := b.database.Exec(query, sessionID, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert session value: %w", err)
	}
	return nil
}

// Entries returns all values of a session ordered by key
func (b *SQLiteBackend) Entries(sessionID string) ([]*models.StorageEntry, error) {
	query := `SELECT session_id, key, value, updated_at
		FROM session_storage WHERE session_id = ? ORDER BY key`

	rows, err := b.database.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query session values: %w", err)
	}
	defer rows.Close()

	var entries []*models.StorageEntry
	for rows.Next() {
		var entry models.StorageEntry
		if err := rows.Scan(&entry.SessionID, &entry.Key, &entry.Value, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session value: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// PruneBefore deletes values not written since cutoff
func (b *SQLiteBackend) PruneBefore(cutoff time.Time) (int64, error) {
	result, err := b.database.Exec(`DELETE FROM session_storage WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune session values: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		log.Printf("Pruned %d stale session values", rowsAffected)
	}
	return rowsAffected, nil
}
