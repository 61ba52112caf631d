package ui

import "log"

// Store is the session-scoped key/value storage shared by all pages of a
// browser session. Watch callbacks may run on any goroutine.
type Store interface {
	Get(sessionID, key string) (string, bool, error)
	Set(sessionID, key, value string) error
	Watch(sessionID, key string, fn func(value string)) (cancel func())
}

// SessionStorage is a page's view of its session's store
type SessionStorage struct {
	page *Page
}

// Get returns the value stored under key for the page's session
func (s SessionStorage) Get(key string) (string, bool) {
	p := s.page
	if p.store == nil {
		return "", false
	}
	value, ok, err := p.store.Get(p.SessionID, key)
	if err != nil {
		log.Printf("Failed to read storage key %s for session %s: %v", key, p.SessionID, err)
		return "", false
	}
	return value, ok
}

// Set stores value under key for the page's session
func (s SessionStorage) Set(key, value string) {
	p := s.page
	if p.store == nil {
		return
	}
	if err := p.store.Set(p.SessionID, key, value); err != nil {
		log.Printf("Failed to write storage key %s for session %s: %v", key, p.SessionID, err)
	}
}

// Watch calls fn on the page's event loop whenever key changes in the
// session. The watch ends when the page closes.
func (s SessionStorage) Watch(key string, fn func(value string)) {
	p := s.page
	if p.store == nil {
		return
	}
	cancel := p.store.Watch(p.SessionID, key, func(value string) {
		p.Post(func() { fn(value) })
	})
	p.OnClose(cancel)
}
