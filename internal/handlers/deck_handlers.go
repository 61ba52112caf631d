package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"slidedeck/internal/deck"
	"slidedeck/internal/models"
	"slidedeck/internal/services"
)

const stateTimeout = 2 * time.Second

// DeckHandler exposes navigation of a session's open decks, e.g. for
// presenter remotes
type DeckHandler struct {
	wsService   *services.WebSocketService
	pageHandler *PageHandler
}

// NewDeckHandler creates a new deck handler
func NewDeckHandler(wsService *services.WebSocketService, pageHandler *PageHandler) *DeckHandler {
	return &DeckHandler{
		wsService:   wsService,
		pageHandler: pageHandler,
	}
}

// NavigateRequest represents a remote navigation request
type NavigateRequest struct {
	Session string `json:"session,omitempty"` // Optional: defaults to the session cookie
}

// NavigateResponse represents the response to a navigation request
type NavigateResponse struct {
	Success bool `json:"success"`
	Pages   int  `json:"pages"` // Number of deck pages the navigation was sent to
}

// StateResponse represents the navigation state of a session's deck
type StateResponse struct {
	Success bool              `json:"success"`
	State   *models.DeckState `json:"state,omitempty"`
}

// Advance moves every open deck of the session forward
// POST /api/deck/advance
func (h *DeckHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, (*deck.Deck).Advance)
}

// Retreat moves every open deck of the session back
// POST /api/deck/retreat
func (h *DeckHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, (*deck.Deck).Retreat)
}

func (h *DeckHandler) navigate(w http.ResponseWriter, r *http.Request, move func(*deck.Deck) bool) {
	var req NavigateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
	}
	sessionID := h.sessionID(r, req.Session)
	if sessionID == "" {
		http.Error(w, "session is required", http.StatusBadRequest)
		return
	}

	sent := 0
	for _, page := range h.wsService.Pages(sessionID, deck.RoleDeck) {
		d, ok := h.pageHandler.decks.get(page.ID)
		if !ok {
			continue
		}
		page.Post(func() { move(d) })
		sent++
	}

	writeJSON(w, NavigateResponse{Success: sent > 0, Pages: sent})
}

// GetState returns the navigation state of one open deck of the session
// GET /api/deck/state?session=...
func (h *DeckHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(r, r.URL.Query().Get("session"))
	if sessionID == "" {
		http.Error(w, "session is required", http.StatusBadRequest)
		return
	}

	for _, page := range h.wsService.Pages(sessionID, deck.RoleDeck) {
		d, ok := h.pageHandler.decks.get(page.ID)
		if !ok {
			continue
		}
		states := make(chan models.DeckState, 1)
		page.Post(func() { states <- d.State() })
		select {
		case state := <-states:
			writeJSON(w, StateResponse{Success: true, State: &state})
			return
		case <-time.After(stateTimeout):
		case <-r.Context().Done():
			return
		}
	}

	writeJSON(w, StateResponse{Success: false})
}

func (h *DeckHandler) sessionID(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if cookie, err := r.Cookie(h.pageHandler.cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
