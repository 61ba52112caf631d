package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"slidedeck/internal/models"
	"slidedeck/internal/services"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebSocketHandler connects browsers to their pages
type WebSocketHandler struct {
	wsService  *services.WebSocketService
	cookieName string
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(wsService *services.WebSocketService, cookieName string) *WebSocketHandler {
	return &WebSocketHandler{
		wsService:  wsService,
		cookieName: cookieName,
	}
}

// ServeWS upgrades the connection and runs the page until it closes
// GET /ws?page={pageId}
func (h *WebSocketHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	pageID := r.URL.Query().Get("page")
	if pageID == "" {
		http.Error(w, "page query parameter is required", http.StatusBadRequest)
		return
	}

	page, err := h.wsService.Connect(pageID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if cookie, err := r.Cookie(h.cookieName); err != nil || cookie.Value != page.SessionID {
		h.wsService.Disconnect(pageID)
		http.Error(w, "session mismatch", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.wsService.Disconnect(pageID)
		log.Printf("WebSocket upgrade failed for page %s: %v", pageID, err)
		return
	}
	defer conn.Close()
	defer h.wsService.Disconnect(pageID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go h.readPump(ctx, cancel, conn, page.Dispatch)
	go h.pingPump(ctx, conn)

	err = page.Run(ctx, func(msg models.ServerMessage) error {
		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(websocket.TextMessage, data)
	})
	if err != nil && !errors.Is(err, context.Canceled) && !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		log.Printf("Page %s stopped: %v", pageID, err)
	}
}

// readPump decodes browser events until the connection fails
func (h *WebSocketHandler) readPump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, dispatch func(models.ClientEvent)) {
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		var event models.ClientEvent
		if err := json.Unmarshal(data, &event); err != nil {
			log.Printf("Ignoring malformed client event: %v", err)
			continue
		}
		if ctx.Err() != nil {
			return
		}
		dispatch(event)
	}
}

// pingPump keeps the connection alive. WriteControl may run concurrently
// with the page's writes.
func (h *WebSocketHandler) pingPump(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
