package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fiscalcode/internal/fiscalcode/handler"
	fcmetrics "fiscalcode/internal/fiscalcode/metrics"
	"fiscalcode/internal/fiscalcode/service"
	"fiscalcode/internal/platform/config"
	"fiscalcode/internal/platform/httpserver"
	"fiscalcode/internal/platform/logger"
	"fiscalcode/internal/platform/metrics"
	"fiscalcode/pkg/platform/httputil"
	"fiscalcode/pkg/platform/middleware/metadata"
	"fiscalcode/pkg/platform/middleware/requestid"
	"fiscalcode/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal service packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := buildRegistry(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize cadastral registry", "error", err)
		os.Exit(1)
	}
	defer reg.Close()

	svc, err := service.New(reg.resolver,
		service.WithLogger(log),
		service.WithMetrics(fcmetrics.New()),
		service.WithBatchConcurrency(cfg.Batch.Concurrency),
	)
	if err != nil {
		log.Error("failed to initialize fiscal code service", "error", err)
		os.Exit(1)
	}

	router := newRouter(handler.New(svc, log, cfg.Batch.MaxItems), reg, metrics.New())
	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("starting fiscal code server", "addr", cfg.Server.Addr, "registry", reg.backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

func newRouter(h *handler.Handler, reg *registry, m *metrics.Metrics) chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(m.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := reg.Health(r.Context()); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	h.Register(r)
	return r
}
