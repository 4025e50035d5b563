package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/gearcatalog/internal/service"
	"github.com/utafrali/gearcatalog/pkg/health"
	"github.com/utafrali/gearcatalog/pkg/middleware"
)

const serviceName = "catalog"

// RouterConfig carries everything NewRouter needs besides the services.
type RouterConfig struct {
	APIKey           string
	CategoriesMaxAge time.Duration
	Metrics          *middleware.HTTPMetrics
	// CORS defaults to allow-all when nil.
	CORS *middleware.CORSConfig
}

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(
	catalogService *service.CatalogService,
	resolver *service.MediaResolver,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	if cfg.CORS != nil {
		corsCfg = *cfg.CORS
	}

	// Global middleware
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger, "/health", "/metrics"))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(middleware.Tracing(serviceName, "/health", "/metrics"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	productHandler := NewProductHandler(catalogService, resolver, logger)
	categoryHandler := NewCategoryHandler(catalogService, logger)

	r.Route("/v1", func(r chi.Router) {
		// The category tree is public.
		r.With(middleware.CacheControl(cfg.CategoriesMaxAge)).Get("/categories", categoryHandler.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKey(cfg.APIKey, logger))

			r.Get("/ping", Ping)
			r.Get("/products", productHandler.ListProducts)
			r.Get("/products/{id}", productHandler.GetProduct)
			r.Get("/facets", productHandler.Facets)

			r.Route("/category-media", func(r chi.Router) {
				r.Get("/", categoryHandler.ListCategoryMedia)
				r.Get("/lookup", categoryHandler.LookupCategoryMedia)
			})
		})
	})

	return r
}
