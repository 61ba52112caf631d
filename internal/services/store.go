package services

import (
	"fmt"
	"sync"
)

// Backend persists session values
type Backend interface {
	Load(sessionID, key string) (string, bool, error)
	Save(sessionID, key, value string) error
}

type watchKey struct {
	sessionID string
	key       string
}

// Store is session-scoped key/value storage with change notification.
// Every page of a session watching a key is told about each write to it.
type Store struct {
	backend Backend

	mu       sync.Mutex
	watchers map[watchKey]map[int]func(string)
	nextID   int
}

// NewStore creates a store persisting to backend
func NewStore(backend Backend) *Store {
	return &Store{
		backend:  backend,
		watchers: make(map[watchKey]map[int]func(string)),
	}
}

// NewMemoryStore creates a store that keeps values in memory only
func NewMemoryStore() *Store {
	return NewStore(NewMemoryBackend())
}

// Get returns the value stored under key for a session
func (s *Store) Get(sessionID, key string) (string, bool, error) {
	value, ok, err := s.backend.Load(sessionID, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return value, ok, nil
}

// Set stores value under key for a session and notifies its watchers
func (s *Store) Set(sessionID, key, value string) error {
	if err := s.backend.Save(sessionID, key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}

	s.mu.Lock()
	fns := make([]func(string), 0, len(s.watchers[watchKey{sessionID, key}]))
	for _, fn := range s.watchers[watchKey{sessionID, key}] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
	return nil
}

// Watch registers fn for changes of key in a session
func (s *Store) Watch(sessionID, key string, fn func(value string)) (cancel func()) {
	wk := watchKey{sessionID, key}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	if s.watchers[wk] == nil {
		s.watchers[wk] = make(map[int]func(string))
	}
	s.watchers[wk][id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.watchers[wk], id)
			if len(s.watchers[wk]) == 0 {
				delete(s.watchers, wk)
			}
		})
	}
}

// WatcherCount returns the number of watchers of key in a session
func (s *Store) WatcherCount(sessionID, key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watchers[watchKey{sessionID, key}])
}

// MemoryBackend keeps session values in memory
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[watchKey]string
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[watchKey]string)}
}

// Load returns the stored value
func (m *MemoryBackend) Load(sessionID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[watchKey{sessionID, key}]
	return value, ok, nil
}

// Save stores the value
func (m *MemoryBackend) Save(sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[watchKey{sessionID, key}] = value
	return nil
}
