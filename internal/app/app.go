// Package app wires configuration, logging, middleware and HTTP routes
// into a runnable web service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"yieldpca/internal/config"
	"yieldpca/internal/infrastructure"
	"yieldpca/internal/middleware"
	transporthttp "yieldpca/internal/transport/http"
)

const (
	// AppName is the service name used in startup logging.
	AppName = "yieldpca"
	// Version is overridden at build time via -ldflags.
	Version = "dev"
)

// Application is the main service container.
type Application struct {
	Config *config.Config
	Router *chi.Mux
	Server *http.Server
	Logger *slog.Logger

	metrics  *middleware.RequestMetrics
	registry *prometheus.Registry
}

// NewApplication loads configuration and assembles the full service.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewApplicationWithConfig(cfg)
}

// NewApplicationWithConfig assembles the service around an existing
// configuration. Used by tests to inject settings directly.
func NewApplicationWithConfig(cfg *config.Config) (*Application, error) {
	logger := infrastructure.NewLogger(cfg.Logging)

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	a := &Application{
		Config:   cfg,
		Logger:   logger,
		metrics:  middleware.NewRequestMetrics(registry),
		registry: registry,
	}

	if err := a.setupRouter(); err != nil {
		return nil, err
	}

	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return a, nil
}

func (a *Application) setupRouter() error {
	analysisCfg, err := a.Config.ToAnalysisConfig()
	if err != nil {
		return fmt.Errorf("invalid analysis configuration: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(middleware.Recoverer(a.Logger))
	r.Use(a.metrics.Handler)

	r.Route("/api", func(r chi.Router) {
		transporthttp.NewAnalysisHandler(analysisCfg, a.Config.Paths.DataDir, a.Logger).RegisterRoutes(r)
		transporthttp.NewHealthHandler(Version).RegisterRoutes(r)
	})
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	a.Router = r
	return nil
}

// Start begins serving in the background. A listen failure cancels the
// supplied context so Run can unwind.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting http server",
		slog.String("address", a.Server.Addr))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
	return nil
}

// Stop gracefully shuts the server down.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run serves until interrupted, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
