package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"slidedeck/internal/models"
)

// FileBackend persists session values to a JSON file
type FileBackend struct {
	mu       sync.RWMutex
	filePath string
	data     *models.StorageFile
}

// NewFileBackend creates a new file backend and loads existing data
func NewFileBackend(dataPath string) (*FileBackend, error) {
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	backend := &FileBackend{
		filePath: filepath.Join(dataPath, "storage-sessions.json"),
		data: &models.StorageFile{
			Sessions: make(map[string]map[string]string),
		},
	}

	if err := backend.load(); err != nil {
		return nil, fmt.Errorf("failed to load storage: %w", err)
	}

	return backend, nil
}

// load reads the storage file or keeps the empty structure if it doesn't exist
func (b *FileBackend) load() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := os.Stat(b.filePath); os.IsNotExist(err) {
		log.Printf("Storage file not found, creating empty structure: %s", b.filePath)
		return nil
	}

	data, err := os.ReadFile(b.filePath)
	if err != nil {
		return fmt.Errorf("failed to read storage file: %w", err)
	}

	var file models.StorageFile
	if err := json.Unmarshal(data, &file); err != nil {
		// Use empty structure instead of failing
		log.Printf("Failed to parse %s, using empty structure: %v", b.filePath, err)
		return nil
	}
	if file.Sessions == nil {
		file.Sessions = make(map[string]map[string]string)
	}

	b.data = &file
	log.Printf("Loaded %d sessions from %s", len(b.data.Sessions), b.filePath)
	return nil
}

// save atomically writes the storage file (temp file → rename)
// Must be called with lock held
func (b *FileBackend) save() error {
	data, err := json.MarshalIndent(b.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	tempPath := b.filePath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open temp file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, b.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load returns the value stored under key for a session
func (b *FileBackend) Load(sessionID, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.data.Sessions[sessionID][key]
	return value, ok, nil
}

// Save stores the value and rewrites the file
func (b *FileBackend) Save(sessionID, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	values, exists := b.data.Sessions[sessionID]
	if !exists {
		values = make(map[string]string)
		b.data.Sessions[sessionID] = values
	}
	previous, had := values[key]
	if had && previous == value {
		return nil
	}
	values[key] = value

	if err := b.save(); err != nil {
		// Keep memory in line with the file
		if had {
			values[key] = previous
		} else {
			delete(values, key)
		}
		if !exists {
			delete(b.data.Sessions, sessionID)
		}
		return fmt.Errorf("failed to save after updating %s: %w", key, err)
	}
	return nil
}
