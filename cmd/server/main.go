package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"slidedeck/internal/assets"
	"slidedeck/internal/config"
	"slidedeck/internal/db"
	"slidedeck/internal/deck"
	"slidedeck/internal/handlers"
	"slidedeck/internal/models"
	"slidedeck/internal/services"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	addr := flag.String("addr", "", "listen address (overrides server.host/server.port)")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Build the deck once so misuse fails before serving
	talk := Talk(cfg.Deck.Title, cfg.Deck.TimeLimit)
	if err := deck.Validate(talk); err != nil {
		log.Fatalf("Invalid deck: %v", err)
	}

	// Initialize storage
	store, backend, err := openStore(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer db.Close()

	stylesheet, err := assets.LoadStylesheet(cfg.Assets.Stylesheet)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Stylesheet not found, using defaults: %s", cfg.Assets.Stylesheet)
		stylesheet, err = assets.LoadStylesheet("")
	}
	if err != nil {
		log.Fatalf("Failed to load stylesheet: %v", err)
	}

	// Initialize services
	wsService := services.NewWebSocketService()
	wsService.SetConnectTimeout(cfg.Session.ConnectTimeout)

	// Initialize handlers
	pageHandler := handlers.NewPageHandler(wsService, store, talk, stylesheet, cfg.Session.CookieName)
	wsHandler := handlers.NewWebSocketHandler(wsService, cfg.Session.CookieName)
	staticHandler := handlers.NewStaticHandler(cfg.Assets.FontsDir)
	deckHandler := handlers.NewDeckHandler(wsService, pageHandler)

	// Setup routes
	router := handlers.SetupRoutes(pageHandler, wsHandler, staticHandler, deckHandler)

	// Configure server
	listen := cfg.Addr()
	if *addr != "" {
		listen = *addr
	}
	server := &http.Server{
		Addr:              listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return wsService.Run(ctx)
	})

	if cfg.Assets.Watch && stylesheet.Path() != "" {
		watcher, err := assets.NewWatcher(stylesheet.Path(),
			assets.WithOnChange(func() {
				if err := stylesheet.Reload(); err != nil {
					log.Printf("Failed to reload stylesheet: %v", err)
					return
				}
				log.Printf("Stylesheet changed, pushing to %d pages", wsService.Count())
				wsService.Broadcast(models.ServerMessage{Type: models.MessageStyle, CSS: stylesheet.Text()})
			}),
			assets.WithOnError(func(err error) {
				log.Printf("Stylesheet watcher: %v", err)
			}),
		)
		if err != nil {
			log.Fatalf("Failed to watch stylesheet: %v", err)
		}
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	if backend != nil && cfg.Storage.MaxAge > 0 {
		g.Go(func() error {
			return pruneSessions(ctx, backend, cfg.Storage.MaxAge)
		})
	}

	g.Go(func() error {
		var err error
		if cfg.TLS.Enabled {
			server.TLSConfig = &tls.Config{
				MinVersion: getTLSVersion(cfg.TLS.MinVersion),
			}

			log.Printf("Starting HTTPS server on %s", listen)
			log.Printf("TLS Certificate: %s", cfg.TLS.CertFile)
			log.Printf("TLS Key: %s", cfg.TLS.KeyFile)
			log.Printf("TLS Min Version: %s", cfg.TLS.MinVersion)

			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			log.Printf("Starting HTTP server on %s", listen)
			log.Printf("Speaker notes at http://%s/notes", listen)

			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
	log.Println("Server stopped")
}

// openStore creates the session store for the configured backend. The
// SQLite backend is returned as well for pruning.
func openStore(cfg config.StorageConfig) (*services.Store, *services.SQLiteBackend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		if err := db.InitDatabase(cfg.DBPath); err != nil {
			return nil, nil, err
		}
		backend := services.NewSQLiteBackend(db.DB)
		return services.NewStore(backend), backend, nil
	case config.BackendFile:
		backend, err := services.NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return services.NewStore(backend), nil, nil
	default:
		return services.NewMemoryStore(), nil, nil
	}
}

// pruneSessions deletes idle session values every hour
func pruneSessions(ctx context.Context, backend *services.SQLiteBackend, maxAge time.Duration) error {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		if _, err := backend.PruneBefore(time.Now().Add(-maxAge)); err != nil {
			log.Printf("Failed to prune sessions: %v", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// getTLSVersion converts string version to tls.Version constant
func getTLSVersion(version string) uint16 {
	switch version {
	case "1.0":
		return tls.VersionTLS10
	case "1.1":
		return tls.VersionTLS11
	case "1.2":
		return tls.VersionTLS12
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}
