package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"slidedeck/internal/deck"
	"slidedeck/internal/models"
	"slidedeck/internal/services"
	"slidedeck/internal/ui"
)

const cookieName = "test_session"

var pageIDPattern = regexp.MustCompile(`page: *"([0-9a-f-]+)"`)

type testServer struct {
	*httptest.Server
	ws    *services.WebSocketService
	store *services.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	def := deck.Definition{
		Title:     "Test Talk",
		TimeLimit: time.Minute,
		Slides: func(d *deck.Deck, p *ui.Page) {
			d.Slide(func() {
				p.Label("first slide")
				d.Note("first note")
			})
			d.Slide(func() {
				p.Label("second slide")
				d.Note("second note")
			})
		},
	}

	ws := services.NewWebSocketService()
	store := services.NewMemoryStore()
	pages := NewPageHandler(ws, store, def, nil, cookieName)
	router := SetupRoutes(pages, NewWebSocketHandler(ws, cookieName), NewStaticHandler(""), NewDeckHandler(ws, pages))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testServer{Server: server, ws: ws, store: store}
}

// open loads path and returns the page id and the session cookie
func (s *testServer) open(t *testing.T, path string, cookie *http.Cookie) (string, *http.Cookie, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	match := pageIDPattern.FindSubmatch(body)
	if match == nil {
		t.Fatalf("no page id in %s", body)
	}
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			cookie = c
		}
	}
	return string(match[1]), cookie, string(body)
}

func (s *testServer) dial(t *testing.T, pageID string, cookie *http.Cookie) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws?page=" + pageID
	header := http.Header{}
	if cookie != nil {
		header.Set("Cookie", cookie.String())
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUpdate(t *testing.T, conn *websocket.Conn) models.ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}
		var msg models.ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatal(err)
		}
		if msg.Type == models.MessageUpdate {
			return msg
		}
	}
}

func TestServeDeck(t *testing.T) {
	s := newTestServer(t)
	_, cookie, body := s.open(t, "/", nil)

	if cookie == nil || cookie.Value == "" {
		t.Fatal("no session cookie issued")
	}
	for _, want := range []string{"<title>Test Talk</title>", `class="slide"`, "first slide", "navigation"} {
		if !strings.Contains(body, want) {
			t.Errorf("deck page lacks %q", want)
		}
	}
	if s.ws.Count() != 1 {
		t.Errorf("registered pages = %d, want 1", s.ws.Count())
	}

	// The same browser keeps its session
	_, again, _ := s.open(t, "/", cookie)
	if again.Value != cookie.Value {
		t.Errorf("session changed from %s to %s", cookie.Value, again.Value)
	}
}

func TestServeNotes(t *testing.T) {
	s := newTestServer(t)
	_, _, body := s.open(t, "/notes", nil)
	for _, want := range []string{"Test Talk (notes)", "first note", "1:00", "Slide 1 / 2"} {
		if !strings.Contains(body, want) {
			t.Errorf("notes page lacks %q", want)
		}
	}
	if strings.Contains(body, "second note") {
		t.Error("notes page shows notes of another slide")
	}
}

func TestWebSocketNavigation(t *testing.T) {
	s := newTestServer(t)
	deckID, cookie, _ := s.open(t, "/", nil)
	notesID, _, _ := s.open(t, "/notes", cookie)

	deckConn := s.dial(t, deckID, cookie)
	notesConn := s.dial(t, notesID, cookie)

	event := models.ClientEvent{Type: models.EventKey, Key: "ArrowRight", Action: models.KeyDown}
	if err := deckConn.WriteJSON(event); err != nil {
		t.Fatal(err)
	}

	update := readUpdate(t, deckConn)
	if len(update.Updates) == 0 {
		t.Fatal("deck update carries no elements")
	}

	notes := readUpdate(t, notesConn)
	joined := ""
	for _, u := range notes.Updates {
		joined += u.HTML
	}
	if !strings.Contains(joined, "second note") {
		t.Errorf("notes update lacks the second slide's notes: %s", joined)
	}

	value, _, _ := s.store.Get(cookie.Value, deck.SlideKey)
	if value != "slide_2" {
		t.Errorf("stored slide = %q, want slide_2", value)
	}
}

func TestWebSocketRejectsOtherSession(t *testing.T) {
	s := newTestServer(t)
	deckID, _, _ := s.open(t, "/", nil)

	url := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws?page=" + deckID
	header := http.Header{}
	header.Set("Cookie", (&http.Cookie{Name: cookieName, Value: "someone-else"}).String())
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("Dial() succeeded with a foreign session")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
}

func TestWebSocketUnknownPage(t *testing.T) {
	s := newTestServer(t)
	url := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws?page=nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("Dial() succeeded for an unknown page")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %v, want 404", resp)
	}
}

func TestDeckAPI(t *testing.T) {
	s := newTestServer(t)
	deckID, cookie, _ := s.open(t, "/", nil)
	conn := s.dial(t, deckID, cookie)

	req, _ := http.NewRequest(http.MethodPost, s.URL+"/api/deck/advance", nil)
	req.AddCookie(cookie)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	var nav NavigateResponse
	if err := json.NewDecoder(resp.Body).Decode(&nav); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if !nav.Success || nav.Pages != 1 {
		t.Fatalf("advance response = %+v", nav)
	}
	readUpdate(t, conn)

	resp, err = http.Get(s.URL + "/api/deck/state?session=" + cookie.Value)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var state StateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if !state.Success || state.State == nil || state.State.Slide != 1 || state.State.Slides != 2 {
		t.Errorf("state response = %+v", state)
	}
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/static/client.js", "/static/deck.css"} {
		resp, err := http.Get(s.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d", path, resp.StatusCode)
		}
	}
	resp, err := http.Get(s.URL + "/fonts/missing.woff2")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /fonts without a fonts dir status = %d", resp.StatusCode)
	}
}
