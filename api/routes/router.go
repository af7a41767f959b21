package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kartosvlad459-art/inko-shop-bot/api/controllers"
	"github.com/kartosvlad459-art/inko-shop-bot/api/middleware"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/catalog"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/orders"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/reviews"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/redis"
)

// NewRouter wires the storefront HTTP surface: the public catalog feed, the
// admin order endpoints, health checks and metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	promRegistry *prometheus.Registry,
	catalogSvc *catalog.Service,
	reviewsSvc *reviews.Service,
	ordersSvc *orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Storefront.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(logg, dbP, redisP))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/categories", controllers.CatalogCategories(catalogSvc, logg))
			r.Get("/categories/{categoryID}/products", controllers.CatalogCategoryProducts(catalogSvc, logg))
			r.Get("/products/{productID}", controllers.CatalogProduct(catalogSvc, logg))
			r.Get("/search", controllers.CatalogSearch(catalogSvc, logg))
		})
		r.Get("/reviews", controllers.ApprovedReviews(reviewsSvc, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/auth/token", controllers.AdminToken(cfg, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.JWT, logg))
			r.Get("/orders", controllers.AdminOrders(ordersSvc, logg))
			r.Get("/orders/{orderNumber}", controllers.AdminOrder(ordersSvc, logg))
			r.Post("/orders/{orderNumber}/confirm", controllers.AdminConfirmOrder(ordersSvc, logg))
			r.Post("/orders/{orderNumber}/reject", controllers.AdminRejectOrder(ordersSvc, logg))
			r.Post("/orders/{orderNumber}/status", controllers.AdminSetOrderStatus(ordersSvc, logg))
		})
	})

	return r
}
