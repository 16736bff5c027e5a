// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/pactum/internal/api"
	"github.com/starford/pactum/internal/docservice"
	"github.com/starford/pactum/internal/extract"
	"github.com/starford/pactum/internal/index"
	"github.com/starford/pactum/internal/mcpserver"
	"github.com/starford/pactum/internal/parser"
	"github.com/starford/pactum/internal/sse"
	"github.com/starford/pactum/internal/storage"
)

// services holds the components shared by the HTTP and MCP servers.
type services struct {
	logger *slog.Logger
	store  *storage.FS
	db     *index.DB
	svc    *docservice.Service
}

func setup(app *application) (*services, error) {
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("library_path", cfg.Library.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Bool("force_ocr", cfg.Extract.ForceOCR),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := os.MkdirAll(cfg.Library.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create library dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Library.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	analyzer := docservice.NewAnalyzer(extract.New(cfg.Extract.Strategy()), parser.New())
	return &services{
		logger: logger,
		store:  store,
		db:     db,
		svc:    docservice.NewService(analyzer, store, db),
	}, nil
}

func (rt *services) initialSync(ctx context.Context, workers int) {
	res, err := index.Sync(ctx, rt.db, rt.store, rt.svc, rt.logger, workers)
	if err != nil {
		rt.logger.Warn("initial sync failed", slog.String("error", err.Error()))
		return
	}
	rt.logger.Info("Library synced",
		slog.Int("indexed", res.Indexed),
		slog.Int("removed", res.Removed),
		slog.Int("failed", res.Failed))
}

func healthHandler(ready func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status, body := http.StatusOK, map[string]string{"status": "ok"}
		if ready != nil {
			if err := ready(); err != nil {
				status, body = http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()}
			}
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

// Run starts the HTTP API, the library watcher and the SSE stream.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)

	rt, err := setup(app)
	if err != nil {
		return err
	}
	defer rt.db.Close()

	cfg := app.config
	logger := rt.logger

	rt.initialSync(ctx, cfg.Extract.Workers)

	broker := sse.NewBroker(cfg.Events.LibraryThrottle, cfg.Events.Heartbeat)
	defer broker.Close()

	apiRouter := api.NewRouter(rt.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", healthHandler(nil))
	r.Get("/health/ready", healthHandler(rt.svc.Ready))

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start library watcher; document changes go out over SSE.
	g.Go(func() error {
		err := index.Watch(gCtx, rt.db, rt.store, rt.svc, cfg.Library.Path, logger, func(kind, path string) {
			broker.PublishDocumentEvent(kind, path)
		})
		if err != nil {
			logger.Error("library watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Streaming clients hold their connections open; close them first.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP syncs the library and serves MCP tools on stdin/stdout.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))

	rt, err := setup(app)
	if err != nil {
		return err
	}
	defer rt.db.Close()

	rt.initialSync(ctx, app.config.Extract.Workers)

	rt.logger.Info("MCP server starting on stdio")
	if err := mcpserver.New(rt.svc).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
