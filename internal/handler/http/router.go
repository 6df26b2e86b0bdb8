package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/promotion-service/pkg/health"
	"github.com/utafrali/promotion-service/pkg/middleware"
)

// RouterConfig holds the HTTP concerns configured at startup.
type RouterConfig struct {
	ServiceName    string
	CORS           middleware.CORSConfig
	RateLimitRPS   float64
	RateLimitBurst int
	CacheMaxAge    int
	PprofCIDRs     []string
	TokenValidator middleware.TokenValidator
}

// NewRouter creates a chi router with all promotion service routes registered.
// ctx bounds background work started by middleware.
func NewRouter(
	ctx context.Context,
	promotionService PromotionService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.RequestLogger(logger, "/health/live", "/health/ready", "/metrics"))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	h := NewPromotionHandler(promotionService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.AllowContentType("application/json"))
		if cfg.RateLimitRPS > 0 {
			r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
		}

		// Catalog reads are public and cacheable.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(cfg.CacheMaxAge))

			r.Get("/promotions", h.ListPromotions)
			r.Get("/promotions/{id}", h.GetPromotion)
			r.Get("/promotions/{id}/styles", h.GetPromotionStyles)
			r.Get("/products/{productId}/images", h.GetProductImages)
		})

		r.With(middleware.OptionalAuth(cfg.TokenValidator)).
			Get("/products/{productId}/promotions", h.GetProductPromotions)
		r.Post("/products/primary-image-types", h.PrimaryImageTypes)
		r.Post("/images/sort", h.SortImages)

		r.Route("/baskets/{basketId}", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.TokenValidator))

			r.Get("/active-promotions", h.GetActivePromotions)
			r.Get("/quantities", h.GetBasketQuantities)
		})
	})

	return r
}
