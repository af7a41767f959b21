package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kartosvlad459-art/inko-shop-bot/api/routes"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/catalog"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/notifications"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/orders"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/partners"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/promos"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/reviews"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/metrics"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/migrate"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
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

	var redisPinger redis.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisPinger = redisClient
	}

	promRegistry := prometheus.NewRegistry()
	shopMetrics := metrics.NewShopMetrics(promRegistry)

	conn := dbClient.DB()

	// The storefront never pushes chat messages; order decisions taken over
	// HTTP log their notification failures instead of reaching buyers.
	notifier, err := notifications.NewService(notifications.SenderFunc(
		func(ctx context.Context, msg notifications.Message) error { return nil },
	), logg, shopMetrics, cfg.Bot, cfg.App)
	exitOn(logg, "notifications service", err)

	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn))
	exitOn(logg, "catalog service", err)
	partnersSvc, err := partners.NewService(partners.NewRepository(conn), cfg.Promo)
	exitOn(logg, "partners service", err)
	promosSvc, err := promos.NewService(promos.NewRepository(conn), partnersSvc, cfg.Promo)
	exitOn(logg, "promos service", err)
	reviewsSvc, err := reviews.NewService(reviews.NewRepository(conn), promosSvc, notifier)
	exitOn(logg, "reviews service", err)
	ordersSvc, err := orders.NewService(
		dbClient,
		orders.NewRepository(conn),
		promos.NewRepository(conn),
		partners.NewRepository(conn),
		notifier,
		logg,
		shopMetrics,
		cfg.Bot,
	)
	exitOn(logg, "orders service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Storefront.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisPinger, promRegistry,
			catalogSvc, reviewsSvc, ordersSvc,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOn(logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
