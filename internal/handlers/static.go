package handlers

import (
	"embed"
	"io/fs"
	"log"
	"net/http"
	"os"
)

//go:embed web/*
var embeddedStatic embed.FS

// StaticHandler serves the client script, the base stylesheet and fonts
type StaticHandler struct {
	static http.Handler
	fonts  http.Handler
}

// NewStaticHandler creates a static handler. fontsDir may be empty.
func NewStaticHandler(fontsDir string) *StaticHandler {
	sub, err := fs.Sub(embeddedStatic, "web")
	if err != nil {
		// web/ is embedded at build time
		panic(err)
	}
	h := &StaticHandler{
		static: http.StripPrefix("/static/", http.FileServer(http.FS(sub))),
	}
	if fontsDir != "" {
		if info, err := os.Stat(fontsDir); err == nil && info.IsDir() {
			h.fonts = http.StripPrefix("/fonts/", http.FileServer(http.Dir(fontsDir)))
		} else {
			log.Printf("Fonts directory not found, /fonts disabled: %s", fontsDir)
		}
	}
	return h
}

// ServeStatic serves embedded assets
// GET /static/{file}
func (h *StaticHandler) ServeStatic(w http.ResponseWriter, r *http.Request) {
	h.static.ServeHTTP(w, r)
}

// ServeFonts serves the fonts directory
// GET /fonts/{file}
func (h *StaticHandler) ServeFonts(w http.ResponseWriter, r *http.Request) {
	if h.fonts == nil {
		http.NotFound(w, r)
		return
	}
	h.fonts.ServeHTTP(w, r)
}
