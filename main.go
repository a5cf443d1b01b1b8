package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/s1natex/dayboard/internal/config"
	"github.com/s1natex/dayboard/internal/middleware"
	"github.com/s1natex/dayboard/internal/slot"
	"github.com/s1natex/dayboard/internal/tasks"
	"github.com/s1natex/dayboard/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.SlogLevel())
	slog.SetDefault(logger) // for third-party packages that use slog

	if err := run(cfg, logger); err != nil {
		logger.Error("server_error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, telemetry.TracingOptions{
		Exporter: cfg.TraceExporter,
		Endpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	s, err := slot.Open(ctx, slot.Options{
		Driver: cfg.StorageDriver,
		Path:   cfg.StoragePath,
		Key:    cfg.StorageKey,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	store := tasks.NewStore(s, tasks.NewIDGenerator(cfg.IDScheme), logger)
	if err := store.Hydrate(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: newRouter(cfg, store, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_listen",
			slog.String("addr", cfg.Addr),
			slog.String("storage", cfg.StorageDriver),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("server_shutdown")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

// newRouter wires health, metrics, the board page, the JSON API and the
// middleware stack.
func newRouter(cfg *config.Config, store *tasks.Store, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// RequestID first so the logger and tracer can read it
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.TracingMiddleware)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.MetricsMiddleware)
	// Recoverer inside the logger so panics are logged as 500s
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"X-Request-Id", "Trace-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimitMiddleware(middleware.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", middleware.MetricsHandler())

	tasks.RegisterBoardRoutes(r, store)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.AuthMiddleware(middleware.AuthConfig{
			Mode:        middleware.AuthMode(cfg.AuthMode),
			APIKey:      cfg.APIKey,
			BearerToken: cfg.BearerToken,
		}))
		tasks.RegisterRoutes(api, store)
	})

	return r
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}
