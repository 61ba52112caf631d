// Package assets loads the deck stylesheet and keeps it current
package assets

import (
	"fmt"
	"os"
	"sync"
)

// Stylesheet holds the CSS text injected into every page head
type Stylesheet struct {
	path string

	mu   sync.RWMutex
	text string
}

// LoadStylesheet reads the stylesheet at path. An empty path yields an
// empty stylesheet.
func LoadStylesheet(path string) (*Stylesheet, error) {
	s := &Stylesheet{path: path}
	if path == "" {
		return s, nil
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file the stylesheet is read from
func (s *Stylesheet) Path() string {
	return s.path
}

// Text returns the current CSS
func (s *Stylesheet) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text
}

// Reload re-reads the stylesheet file
func (s *Stylesheet) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read stylesheet: %w", err)
	}
	s.mu.Lock()
	s.text = string(data)
	s.mu.Unlock()
	return nil
}
