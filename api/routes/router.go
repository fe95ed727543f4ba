package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoreline-studio/shop-backend/api/controllers"
	webhookcontrollers "github.com/shoreline-studio/shop-backend/api/controllers/webhooks"
	"github.com/shoreline-studio/shop-backend/api/middleware"
	"github.com/shoreline-studio/shop-backend/internal/catalog"
	"github.com/shoreline-studio/shop-backend/internal/gallery"
	"github.com/shoreline-studio/shop-backend/internal/orders"
	"github.com/shoreline-studio/shop-backend/internal/sequence"
	"github.com/shoreline-studio/shop-backend/internal/siteconfig"
	stripewebhook "github.com/shoreline-studio/shop-backend/internal/webhooks/stripe"
	"github.com/shoreline-studio/shop-backend/pkg/config"
	"github.com/shoreline-studio/shop-backend/pkg/db"
	"github.com/shoreline-studio/shop-backend/pkg/logger"
	"github.com/shoreline-studio/shop-backend/pkg/redis"
	"github.com/shoreline-studio/shop-backend/pkg/stripe"
)

type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Stripe      *stripe.Client
	Webhooks    *stripewebhook.Service
	Guard       *stripewebhook.IdempotencyGuard
	Catalog     catalog.Repository
	Gallery     gallery.Repository
	SiteConfig  siteconfig.Repository
	Orders      orders.Repository
	Sequencer   *sequence.Sequencer
	PromGateway prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, p.Redis, logg))
	})

	if p.PromGateway != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.PromGateway, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(p.Webhooks, p.Stripe, p.Guard, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(p.Catalog, logg))
		r.Get("/products/{id}", controllers.GetProduct(p.Catalog, logg))
		r.Get("/categories", controllers.ListCategories(p.Catalog, logg))
		r.Get("/gallery", controllers.ListGallery(p.Gallery, logg))
		r.Get("/site-config", controllers.GetSiteConfig(p.SiteConfig, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminCapability(cfg.Admin.Token, logg))

		r.Get("/orders", controllers.AdminListOrders(p.Orders, logg))
		r.Get("/orders/{orderId}", controllers.AdminOrderDetail(p.Orders, logg))
		r.Post("/orders/backfill-display-ids", controllers.AdminBackfillDisplayIDs(p.Sequencer, logg))
		r.Put("/site-config/{key}", controllers.AdminSetSiteConfig(p.SiteConfig, logg))
	})

	return r
}
