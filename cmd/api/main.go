package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shoreline-studio/shop-backend/api/routes"
	"github.com/shoreline-studio/shop-backend/internal/catalog"
	"github.com/shoreline-studio/shop-backend/internal/customorders"
	"github.com/shoreline-studio/shop-backend/internal/gallery"
	"github.com/shoreline-studio/shop-backend/internal/inventory"
	"github.com/shoreline-studio/shop-backend/internal/notifications"
	"github.com/shoreline-studio/shop-backend/internal/orders"
	"github.com/shoreline-studio/shop-backend/internal/promotions"
	"github.com/shoreline-studio/shop-backend/internal/sequence"
	"github.com/shoreline-studio/shop-backend/internal/siteconfig"
	stripewebhook "github.com/shoreline-studio/shop-backend/internal/webhooks/stripe"
	"github.com/shoreline-studio/shop-backend/pkg/config"
	"github.com/shoreline-studio/shop-backend/pkg/db"
	"github.com/shoreline-studio/shop-backend/pkg/email"
	"github.com/shoreline-studio/shop-backend/pkg/logger"
	"github.com/shoreline-studio/shop-backend/pkg/metrics"
	"github.com/shoreline-studio/shop-backend/pkg/migrate"
	"github.com/shoreline-studio/shop-backend/pkg/redis"
	"github.com/shoreline-studio/shop-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()
	ordersRepo := orders.NewRepository(gdb)
	catalogRepo := catalog.NewRepository(gdb)
	galleryRepo := gallery.NewRepository(gdb)
	siteConfigRepo := siteconfig.NewRepository(gdb)
	customOrdersRepo := customorders.NewRepository(gdb)
	sequencer := sequence.NewSequencer(gdb)

	materializer, err := orders.NewMaterializer(ordersRepo, sequencer, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order materializer", err)
		os.Exit(1)
	}
	adjuster, err := inventory.NewAdjuster(gdb, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory adjuster", err)
		os.Exit(1)
	}
	promoService, err := promotions.NewService(promotions.NewRepository(gdb), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create promotions service", err)
		os.Exit(1)
	}
	reconciler, err := customorders.NewReconciler(customOrdersRepo, galleryRepo, materializer, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create commission reconciler", err)
		os.Exit(1)
	}

	// Notifications are optional: a missing sendgrid key disables email but
	// never blocks order processing.
	var notifySvc *notifications.Service
	if cfg.Sendgrid.APIKey != "" {
		sender, err := email.NewSendgridSender(cfg.Sendgrid)
		if err != nil {
			logg.Error(context.Background(), "failed to create sendgrid sender", err)
			os.Exit(1)
		}
		notifySvc, err = notifications.NewService(sender, cfg.Shop, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create notifications service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "sendgrid not configured, order emails disabled")
	}

	registry := prometheus.NewRegistry()
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	webhookParams := stripewebhook.ServiceParams{
		StripeClient: stripeClient,
		Orders:       materializer,
		Inventory:    adjuster,
		Promotions:   promoService,
		CustomOrders: reconciler,
		Metrics:      webhookMetrics,
		Logger:       logg,
	}
	// Assign only a live service: a typed-nil pointer behind the interface
	// would slip past the dispatcher's nil check.
	if notifySvc != nil {
		webhookParams.Notifications = notifySvc
	}
	webhookService, err := stripewebhook.NewService(webhookParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe webhook service", err)
		os.Exit(1)
	}
	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Stripe.WebhookEventTTL, "stripe-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook idempotency guard", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"stripe_env": stripeClient.Environment(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Stripe:      stripeClient,
			Webhooks:    webhookService,
			Guard:       webhookGuard,
			Catalog:     catalogRepo,
			Gallery:     galleryRepo,
			SiteConfig:  siteConfigRepo,
			Orders:      ordersRepo,
			Sequencer:   sequencer,
			PromGateway: registry,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	case <-stop:
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
