package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stationeryworks/stationery-backend/api/controllers"
	"github.com/stationeryworks/stationery-backend/api/middleware"
	"github.com/stationeryworks/stationery-backend/internal/cart"
	"github.com/stationeryworks/stationery-backend/internal/catalog"
	"github.com/stationeryworks/stationery-backend/internal/enquiry"
	"github.com/stationeryworks/stationery-backend/pkg/config"
	"github.com/stationeryworks/stationery-backend/pkg/db"
	"github.com/stationeryworks/stationery-backend/pkg/logger"
	"github.com/stationeryworks/stationery-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	catalogService catalog.Service,
	cartService cart.Service,
	enquiryService enquiry.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	touch := func(req *http.Request, sessionID string) {
		if redisClient == nil {
			return
		}
		if err := redisClient.TouchSession(req.Context(), sessionID, cfg.Session.TTL); err != nil {
			logg.Warn(req.Context(), "session touch failed")
		}
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, touch, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/categories", controllers.CategoryList(catalogService, logg))
		r.Get("/categories/{categoryId}/products", controllers.CategoryProducts(catalogService, logg))
		r.Get("/brands", controllers.BrandList(catalogService, logg))
		r.Get("/brands/{brandId}/products", controllers.BrandProducts(catalogService, logg))
		r.Get("/products", controllers.ProductList(catalogService, logg))
		r.Get("/products/search", controllers.ProductSearch(catalogService, logg))
		r.Post("/products/filter", controllers.ProductFilter(catalogService, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(catalogService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartView(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAdd(cartService, logg))
			r.Put("/items/{productId}/decrease", controllers.CartDecrease(cartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemove(cartService, logg))
		})

		r.With(middleware.EnquiryRateLimit(cfg.RateLimit, redisClient, logg)).
			Post("/enquiries", controllers.EnquiryCreate(enquiryService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminKey(cfg.Admin, logg))

		r.Get("/dashboard", controllers.AdminDashboard(enquiryService, logg))
		r.Route("/enquiries", func(r chi.Router) {
			r.Get("/", controllers.AdminEnquiryList(enquiryService, logg))
			r.Get("/{enquiryId}", controllers.AdminEnquiryDetail(enquiryService, logg))
			r.Put("/{enquiryId}/status", controllers.AdminEnquiryStatus(enquiryService, logg))
		})
	})

	return r
}
