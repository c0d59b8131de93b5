// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/annal/internal/catalog"
	"github.com/starford/annal/internal/docservice"
	"github.com/starford/annal/internal/mcpserver"
	"github.com/starford/annal/internal/preview"
	"github.com/starford/annal/internal/site"
	"github.com/starford/annal/internal/sse"
	"github.com/starford/annal/internal/watch"
)

// Run builds the site once and then continues in the selected mode.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{mode: ModeBuild, version: "dev"}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	switch app.mode {
	case ModeBuild, ModeServe, ModeMCP:
	default:
		return fmt.Errorf("unknown mode %q", app.mode)
	}

	cfg := app.config

	// stdout belongs to the MCP transport in mcp mode.
	var out io.Writer = os.Stdout
	if app.mode == ModeMCP {
		out = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("mode", app.mode),
		slog.String("data_dir", cfg.Source.DataDir),
		slog.String("public_dir", cfg.Source.PublicDir),
		slog.Any("extensions", cfg.Source.Extensions),
		slog.String("output_dir", cfg.Output.Dir),
		slog.Bool("overwrite", cfg.Output.Overwrite),
		slog.String("template_dir", cfg.Templates.Dir),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if dir := filepath.Dir(cfg.Catalog.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog dir: %w", err)
		}
	}
	db, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	defer db.Close()

	gen := site.NewGenerator(cfg.Generator(), logger)
	svc := docservice.NewService(gen, db, cfg.Site.Model(), logger)

	if _, err := svc.Build(ctx); err != nil {
		return fmt.Errorf("build: %w", err)
	}

	switch app.mode {
	case ModeMCP:
		logger.Info("MCP server starting on stdio")
		return mcpserver.New(svc, app.version).ServeStdio()
	case ModeServe:
		return serve(ctx, cfg, svc, logger)
	}
	return nil
}

func serve(ctx context.Context, cfg *Config, svc *docservice.Service, logger *slog.Logger) error {
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	r := newServeRouter(cfg, svc, broker)

	httpServer := &http.Server{
		Addr:              cfg.Preview.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Rebuild on source or template changes.
	g.Go(func() error {
		roots := []string{cfg.Source.DataDir, cfg.Templates.Dir}
		ignore := []string{
			cfg.Output.Dir,
			cfg.Catalog.Path,
			cfg.Catalog.Path + "-wal",
			cfg.Catalog.Path + "-shm",
			cfg.Catalog.Path + "-journal",
		}
		return watch.Watch(gCtx, roots, watch.Options{
			Debounce: cfg.Preview.WatchDebounce,
			Ignore:   ignore,
		}, logger, func(paths []string) {
			logger.Info("Sources changed, rebuilding", slog.Int("paths", len(paths)))
			rebuild(gCtx, svc, broker, logger)
		})
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.Preview.HTTP.Address()))
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

		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// newServeRouter mounts health checks, the preview API and the generated site.
func newServeRouter(cfg *Config, svc *docservice.Service, broker *sse.Broker) http.Handler {
	apiRouter := preview.NewRouter(svc, cfg.Preview.Auth.AuthEnabled(), cfg.Preview.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if status, ok := svc.LastBuild(); !ok || !status.OK() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"build failed"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	// Everything else is the generated site.
	r.Handle("/*", http.FileServer(http.Dir(cfg.Output.Dir)))
	return r
}

// rebuild runs one generation and reports the outcome to SSE clients. A
// failed rebuild keeps the previous output and catalog.
func rebuild(ctx context.Context, svc *docservice.Service, broker *sse.Broker, logger *slog.Logger) {
	start := time.Now()
	res, err := svc.Build(ctx)
	if err != nil {
		logger.Error("Rebuild failed", slog.String("error", err.Error()))
		status, _ := svc.LastBuild()
		broker.PublishBuild(sse.Build{
			RunID:      status.RunID,
			DurationMS: time.Since(start).Milliseconds(),
			Error:      err.Error(),
		})
		return
	}
	broker.PublishBuild(sse.Build{
		RunID:        res.RunID,
		Documents:    len(res.Documents),
		PagesWritten: res.Report.PagesWritten,
		DurationMS:   res.Duration.Milliseconds(),
	})
}
