package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"slidedeck/internal/models"
	"slidedeck/internal/ui"
)

// DefaultConnectTimeout is how long a rendered page waits for its websocket
const DefaultConnectTimeout = 30 * time.Second

var (
	ErrPageNotFound     = errors.New("page not found")
	ErrAlreadyConnected = errors.New("page already connected")
)

type pageEntry struct {
	page      *ui.Page
	created   time.Time
	connected bool
}

// WebSocketService tracks the live pages of all browser connections
type WebSocketService struct {
	mu             sync.RWMutex
	pages          map[string]*pageEntry
	connectTimeout time.Duration
	now            func() time.Time
}

// NewWebSocketService creates a new page registry
func NewWebSocketService() *WebSocketService {
	return &WebSocketService{
		pages:          make(map[string]*pageEntry),
		connectTimeout: DefaultConnectTimeout,
		now:            time.Now,
	}
}

// SetConnectTimeout changes how long unconnected pages are kept
func (s *WebSocketService) SetConnectTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectTimeout = d
}

// Register adds a freshly rendered page
func (s *WebSocketService) Register(page *ui.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[page.ID] = &pageEntry{page: page, created: s.now()}
}

// Connect claims a registered page for a websocket connection
func (s *WebSocketService) Connect(id string) (*ui.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.pages[id]
	if !exists {
		return nil, ErrPageNotFound
	}
	if entry.connected {
		return nil, ErrAlreadyConnected
	}
	entry.connected = true
	return entry.page, nil
}

// Disconnect removes a page and closes it
func (s *WebSocketService) Disconnect(id string) {
	s.mu.Lock()
	entry, exists := s.pages[id]
	delete(s.pages, id)
	s.mu.Unlock()

	if exists {
		entry.page.Close()
	}
}

// Pages returns the connected pages of a session with the given role
func (s *WebSocketService) Pages(sessionID, role string) []*ui.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pages []*ui.Page
	for _, entry := range s.pages {
		if entry.connected && entry.page.SessionID == sessionID && entry.page.Role == role {
			pages = append(pages, entry.page)
		}
	}
	return pages
}

// Count returns the number of registered pages
func (s *WebSocketService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// Broadcast queues msg on every connected page
func (s *WebSocketService) Broadcast(msg models.ServerMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.pages {
		if entry.connected {
			entry.page.Send(msg)
		}
	}
}

// Prune removes pages that were rendered but never connected in time
func (s *WebSocketService) Prune() int {
	s.mu.Lock()
	cutoff := s.now().Add(-s.connectTimeout)
	var stale []*ui.Page
	for id, entry := range s.pages {
		if !entry.connected && entry.created.Before(cutoff) {
			stale = append(stale, entry.page)
			delete(s.pages, id)
		}
	}
	s.mu.Unlock()

	for _, page := range stale {
		page.Close()
	}
	return len(stale)
}

// Run prunes stale pages until ctx is done
func (s *WebSocketService) Run(ctx context.Context) error {
	s.mu.RLock()
	every := s.connectTimeout / 2
	s.mu.RUnlock()

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Prune(); n > 0 {
				log.Printf("Pruned %d pages that never connected", n)
			}
		}
	}
}
