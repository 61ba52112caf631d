package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// SetupRoutes wires all handlers into a router
func SetupRoutes(pageHandler *PageHandler, wsHandler *WebSocketHandler, staticHandler *StaticHandler, deckHandler *DeckHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(logMiddleware)

	router.HandleFunc("/", pageHandler.ServeDeck).Methods(http.MethodGet)
	router.HandleFunc("/notes", pageHandler.ServeNotes).Methods(http.MethodGet)
	router.HandleFunc("/ws", wsHandler.ServeWS)

	api := router.PathPrefix("/api/deck").Subrouter()
	api.HandleFunc("/state", deckHandler.GetState).Methods(http.MethodGet)
	api.HandleFunc("/advance", deckHandler.Advance).Methods(http.MethodPost)
	api.HandleFunc("/retreat", deckHandler.Retreat).Methods(http.MethodPost)

	router.PathPrefix("/static/").HandlerFunc(staticHandler.ServeStatic).Methods(http.MethodGet)
	router.PathPrefix("/fonts/").HandlerFunc(staticHandler.ServeFonts).Methods(http.MethodGet)

	return router
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if r.URL.Path != "/ws" {
			log.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Microsecond))
		}
	})
}
