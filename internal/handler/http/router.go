package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dist-ecom/product-service/pkg/health"
	"github.com/dist-ecom/product-service/pkg/middleware"

	"github.com/dist-ecom/product-service/internal/auth"
	"github.com/dist-ecom/product-service/internal/service"
)

// NewRouter creates a chi router with all catalog routes registered.
// Reads are public; mutations require a valid bearer token.
func NewRouter(
	catalogService *service.CatalogService,
	verifier auth.MerchantVerifier,
	validateToken middleware.TokenValidator,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("product-service"))

	// Health check and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	productHandler := NewProductHandler(catalogService, verifier, logger)

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public reads.
		r.Get("/", productHandler.ListProducts)
		r.Get("/search", productHandler.SearchProducts)
		r.Get("/category/{category}", productHandler.ListByCategory)
		r.Get("/tags", productHandler.ListByTags)
		r.Get("/merchant/{merchantId}", productHandler.ListByMerchant)
		r.Get("/{id}", productHandler.GetProduct)

		// Mutations require authentication.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(validateToken))
			r.Use(middleware.RequestLogger(logger))

			r.Post("/", productHandler.CreateProduct)
			r.Patch("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)
		})
	})

	return r
}
