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
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"camprice/internal/config"
	"camprice/internal/errors"
	"camprice/internal/infrastructure"
	customMiddleware "camprice/internal/middleware"
	"camprice/internal/pricing"
	"camprice/internal/reports"
	handlers "camprice/internal/transport/http"
)

const (
	VERSION = "1.0.0"
	AppName = "CamPrice Report Service"
)

// Application is the composed service: configuration, logger, the report
// pipeline and the HTTP server that fronts it.
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Metrics       *customMiddleware.HTTPMetrics
	Registry      *prometheus.Registry
	ReportService *reports.Service
}

// NewApplication loads configuration and wires every component.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.String("backend", cfg.Backend.BaseURL))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := customMiddleware.NewHTTPMetrics(registry)

	priceClient := pricing.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger)
	aggregator := reports.NewAggregator(logger, reports.NewCategorizer(), reports.UnimplementedChangeSource{})
	reportService := reports.NewService(priceClient, aggregator, logger)

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		Metrics:       metrics,
		Registry:      registry,
		ReportService: reportService,
	}

	app.Router = app.setupRouter()
	app.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.Router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return app, nil
}

// setupRouter builds the middleware chain and mounts every route group.
func (a *Application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(a.Metrics.Handler)
	r.Use(customMiddleware.Compress(5))
	r.Use(middleware.Heartbeat("/ping"))

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		limiter := customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	errorHandler := errors.NewErrorHandler(a.Logger, false)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	reportHandler := handlers.NewReportHandler(
		a.ReportService, a.Logger, errorHandler, a.Metrics, a.Config.Export.ReportTitle)
	healthHandler := handlers.NewHealthHandler(a.Logger, VERSION)

	r.Route("/api", func(r chi.Router) {
		// Export streams whole files; it gets the long write budget.
		r.With(customMiddleware.Timeout(a.Config.Server.ExportTimeout, a.Logger)).
			Mount("/reports", reportHandler.Routes())
		r.Mount("/health", healthHandler.Routes())
	})

	r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))

	return r
}

// Run starts the HTTP server and blocks until shutdown completes.
// SIGINT and SIGTERM trigger a graceful drain bounded by the configured
// shutdown timeout.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-sigCh:
		a.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.Info("context cancelled, shutting down")
	}

	return a.Shutdown()
}

// Shutdown drains in-flight requests and closes the log sink.
func (a *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		a.Logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.Logger.Info("server stopped")
	return infrastructure.CloseLogFile()
}
