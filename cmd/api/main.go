package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/directauto/lead-intake/internal/api/router"
	"github.com/directauto/lead-intake/internal/classify"
	appconfig "github.com/directauto/lead-intake/internal/config"
	"github.com/directauto/lead-intake/internal/intake"
	"github.com/directauto/lead-intake/internal/notify"
	"github.com/directauto/lead-intake/internal/observability/metrics"
	"github.com/directauto/lead-intake/internal/storage"
	"github.com/directauto/lead-intake/pkg/logging"
)

func main() {
	// Load .env if present; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting lead-intake API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if !cfg.StorageConfigured() {
		logger.Warn("storage credentials missing; submissions will be rejected until SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are set")
	}

	ctx := context.Background()

	classifier, err := classify.FromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize classifier", "error", err)
		os.Exit(1)
	}
	if closer, ok := classifier.(io.Closer); ok {
		defer closer.Close()
	}

	notifier := notify.FromConfig(cfg, logger)
	store := storage.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, cfg.SupabaseTable, cfg.StorageTimeout, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	intakeMetrics := metrics.NewIntakeMetrics(registry)

	svc := intake.NewService(cfg, store, classifier, notifier, intakeMetrics, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		IntakeHandler:      intake.NewHTTPHandler(svc),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
