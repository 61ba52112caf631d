package handlers

import (
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"slidedeck/internal/assets"
	"slidedeck/internal/deck"
	"slidedeck/internal/services"
	"slidedeck/internal/ui"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://fonts.googleapis.com/icon?family=Material+Icons">
<link rel="stylesheet" href="/static/deck.css">
<style id="deck-style">{{.CSS}}</style>
{{range .Head}}{{.}}
{{end}}</head>
<body>
{{.Body}}
<script>window.slidedeck = {page: {{.PageID}}};</script>
<script src="/static/client.js"></script>
</body>
</html>
`))

type pageView struct {
	Title  string
	CSS    template.CSS
	Head   []template.HTML
	Body   template.HTML
	PageID string
}

// deckRegistry maps live deck pages to their decks
type deckRegistry struct {
	mu    sync.RWMutex
	decks map[string]*deck.Deck
}

func (r *deckRegistry) add(pageID string, d *deck.Deck) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decks[pageID] = d
}

func (r *deckRegistry) remove(pageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.decks, pageID)
}

func (r *deckRegistry) get(pageID string) (*deck.Deck, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decks[pageID]
	return d, ok
}

// PageHandler builds and renders the deck and notes pages
type PageHandler struct {
	wsService  *services.WebSocketService
	store      ui.Store
	definition deck.Definition
	stylesheet *assets.Stylesheet
	cookieName string
	decks      *deckRegistry
}

// NewPageHandler creates a new page handler
func NewPageHandler(wsService *services.WebSocketService, store ui.Store, definition deck.Definition, stylesheet *assets.Stylesheet, cookieName string) *PageHandler {
	return &PageHandler{
		wsService:  wsService,
		store:      store,
		definition: definition,
		stylesheet: stylesheet,
		cookieName: cookieName,
		decks:      &deckRegistry{decks: make(map[string]*deck.Deck)},
	}
}

// ServeDeck renders the main deck view
// GET /
func (h *PageHandler) ServeDeck(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(w, r)
	d, err := deck.Mount(page, h.definition)
	if err != nil {
		page.Close()
		log.Printf("Failed to build deck: %v", err)
		http.Error(w, "Failed to build deck", http.StatusInternalServerError)
		return
	}
	h.decks.add(page.ID, d)
	page.OnClose(func() { h.decks.remove(page.ID) })
	h.render(w, page)
}

// ServeNotes renders the speaker notes view
// GET /notes
func (h *PageHandler) ServeNotes(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(w, r)
	if _, err := deck.MountNotes(page, h.definition); err != nil {
		page.Close()
		log.Printf("Failed to build notes: %v", err)
		http.Error(w, "Failed to build notes", http.StatusInternalServerError)
		return
	}
	h.render(w, page)
}

func (h *PageHandler) newPage(w http.ResponseWriter, r *http.Request) *ui.Page {
	return ui.NewPage(uuid.NewString(), h.session(w, r), h.store)
}

// session returns the browser session id, issuing a cookie for new browsers
func (h *PageHandler) session(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			return cookie.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
	return id
}

func (h *PageHandler) render(w http.ResponseWriter, page *ui.Page) {
	body, err := page.Render()
	if err != nil {
		page.Close()
		log.Printf("Failed to render page: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	view := pageView{
		Title:  page.Title,
		Body:   template.HTML(body),
		PageID: page.ID,
	}
	if h.stylesheet != nil {
		view.CSS = template.CSS(h.stylesheet.Text())
	}
	for _, head := range page.Head() {
		view.Head = append(view.Head, template.HTML(head))
	}

	h.wsService.Register(page)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, view); err != nil {
		log.Printf("Failed to write page: %v", err)
	}
}
