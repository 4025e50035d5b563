package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/gearcatalog/internal/config"
	handler "github.com/utafrali/gearcatalog/internal/handler/http"
	"github.com/utafrali/gearcatalog/internal/service"
	"github.com/utafrali/gearcatalog/pkg/database"
	"github.com/utafrali/gearcatalog/pkg/health"
	"github.com/utafrali/gearcatalog/pkg/middleware"
	"github.com/utafrali/gearcatalog/pkg/tracing"
)

// ServiceName identifies the API in logs, traces and metrics.
const ServiceName = "catalog-api"

const version = "1.0"

// App wires together all dependencies and runs the catalog API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	redis          *redis.Client
	shutdownTracer func(context.Context) error
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.TracingConfig(ServiceName))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	repos, err := NewRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}
	storageClient := NewStorageClient(cfg, logger)

	catalogService := service.NewCatalogService(repos.Products, repos.Taxonomy, repos.CategoryMedia, storageClient, logger)
	resolver := service.NewMediaResolver(storageClient, logger)

	// Health checks.
	healthHandler := health.NewHandler(version)
	healthHandler.RegisterCritical("taxonomy", repos.Taxonomy.Check)

	// Redis only backs the batch job cache; the API reports it without
	// depending on it.
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisConfig())
		if err != nil {
			logger.Warn("redis unavailable, continuing without it", slog.String("error", err.Error()))
			redisClient = nil
		} else {
			healthHandler.RegisterNonCritical("redis", database.RedisChecker(redisClient))
		}
	}

	// HTTP router.
	router := handler.NewRouter(catalogService, resolver, healthHandler, handler.RouterConfig{
		APIKey:           cfg.APIKey,
		CategoriesMaxAge: cfg.CategoriesMaxAge,
		Metrics:          middleware.NewHTTPMetrics(prometheus.DefaultRegisterer, ServiceName),
	}, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		redis:          redisClient,
		shutdownTracer: shutdownTracer,
		httpServer:     httpServer,
	}, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.shutdownTracer(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
