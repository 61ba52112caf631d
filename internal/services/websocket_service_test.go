package services

import (
	"errors"
	"testing"
	"time"

	"slidedeck/internal/models"
	"slidedeck/internal/ui"
)

func TestWebSocketServiceConnect(t *testing.T) {
	s := NewWebSocketService()
	page := ui.NewPage("p1", "s1", nil)
	page.Role = "deck"
	s.Register(page)

	if _, err := s.Connect("missing"); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("Connect(missing) error = %v, want ErrPageNotFound", err)
	}
	if len(s.Pages("s1", "deck")) != 0 {
		t.Error("unconnected page listed")
	}

	got, err := s.Connect("p1")
	if err != nil || got != page {
		t.Fatalf("Connect() = %v, %v", got, err)
	}
	if _, err := s.Connect("p1"); !errors.Is(err, ErrAlreadyConnected) {
		t.Errorf("second Connect() error = %v, want ErrAlreadyConnected", err)
	}

	if n := len(s.Pages("s1", "deck")); n != 1 {
		t.Errorf("Pages(s1, deck) = %d pages, want 1", n)
	}
	if n := len(s.Pages("s1", "notes")); n != 0 {
		t.Errorf("Pages(s1, notes) = %d pages, want 0", n)
	}
	if n := len(s.Pages("s2", "deck")); n != 0 {
		t.Errorf("Pages(s2, deck) = %d pages, want 0", n)
	}

	closed := false
	page.OnClose(func() { closed = true })
	s.Disconnect("p1")
	if !closed {
		t.Error("Disconnect() did not close the page")
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d after disconnect", s.Count())
	}
}

func TestWebSocketServicePrune(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewWebSocketService()
	s.now = func() time.Time { return now }
	s.SetConnectTimeout(10 * time.Second)

	stale := ui.NewPage("stale", "s1", nil)
	s.Register(stale)
	live := ui.NewPage("live", "s1", nil)
	s.Register(live)
	if _, err := s.Connect("live"); err != nil {
		t.Fatal(err)
	}

	now = now.Add(5 * time.Second)
	if n := s.Prune(); n != 0 {
		t.Errorf("Prune() before timeout = %d", n)
	}
	now = now.Add(10 * time.Second)
	if n := s.Prune(); n != 1 {
		t.Errorf("Prune() after timeout = %d, want 1", n)
	}
	if _, err := s.Connect("stale"); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("stale page still registered: %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}
}

func TestWebSocketServiceBroadcast(t *testing.T) {
	s := NewWebSocketService()
	connected := ui.NewPage("connected", "s1", nil)
	pending := ui.NewPage("pending", "s1", nil)
	s.Register(connected)
	s.Register(pending)
	if _, err := s.Connect("connected"); err != nil {
		t.Fatal(err)
	}

	s.Broadcast(models.ServerMessage{Type: models.MessageStyle, CSS: "body {}"})

	msgs := connected.RunPending()
	if len(msgs) != 1 || msgs[0].Type != models.MessageStyle || msgs[0].CSS != "body {}" {
		t.Errorf("connected page messages = %+v", msgs)
	}
	if msgs := pending.RunPending(); len(msgs) != 0 {
		t.Errorf("pending page received %+v", msgs)
	}
}
