// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
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

	"github.com/starford/notebook/internal/api"
	"github.com/starford/notebook/internal/dashboard"
	"github.com/starford/notebook/internal/mcpserver"
	"github.com/starford/notebook/internal/noteservice"
	"github.com/starford/notebook/internal/sse"
	"github.com/starford/notebook/internal/watcher"
	"github.com/starford/notebook/internal/web"
)

// Run starts the HTTP front-ends with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := NewLogger(os.Stdout, cfg.App.LogLevel)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("cache_dir", cfg.Store.CacheDir),
		slog.String("store_file", cfg.Store.File),
		slog.String("backend", cfg.Store.Backend),
		slog.String("log_level", cfg.App.LogLevel.String()))

	backend, err := OpenBackend(&cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open notebook: %w", err)
	}
	defer backend.Close()

	// SSE broker.
	broker := sse.NewBroker(cfg.Dashboard.Throttle)
	defer broker.Close()

	svc := noteservice.NewService(backend.Store, broker)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newRouter(svc, broker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Store.Watch && backend.File != nil {
		g.Go(func() error {
			if err := watcher.Watch(gCtx, backend.File, svc.Reload, logger); err != nil {
				logger.Warn("watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
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

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// newRouter mounts every HTTP front-end on one chi router.
func newRouter(svc *noteservice.Service, broker *sse.Broker) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", health)
	r.Get("/health/ready", health)

	r.Mount("/api", api.NewRouter(svc))
	r.Mount("/dashboard", dashboard.NewRouter(broker))
	r.Mount("/", web.NewRouter(svc))
	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// RunMCP serves the notebook over MCP on stdin/stdout until the client
// disconnects. Logs go to stderr since stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := NewLogger(os.Stderr, cfg.App.LogLevel)
	slog.SetDefault(logger)

	backend, err := OpenBackend(&cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open notebook: %w", err)
	}
	defer backend.Close()

	svc := noteservice.NewService(backend.Store, nil)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Store.Watch && backend.File != nil {
		go func() {
			if err := watcher.Watch(ctx, backend.File, svc.Reload, logger); err != nil {
				logger.Warn("watcher disabled", slog.String("error", err.Error()))
			}
		}()
	}

	logger.Info("MCP server starting", slog.String("version", app.version))
	return mcpserver.New(svc, app.version).ServeStdio()
}
