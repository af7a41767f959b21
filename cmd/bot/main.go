package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kartosvlad459-art/inko-shop-bot/internal/bot"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/cart"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/catalog"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/checkout"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/favorites"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/notifications"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/orders"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/partners"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/promos"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/reviews"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/sessions"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/settings"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/users"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/metrics"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/migrate"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "bot"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "bot",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var state sessions.Store
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(ctx, "error closing redis", err)
			}
		}()
		state, err = sessions.NewRedisStore(redisClient, sessions.DefaultTTL)
		if err != nil {
			logg.Error(ctx, "failed to create redis session store", err)
			os.Exit(1)
		}
	} else {
		state = sessions.NewMemoryStore(sessions.DefaultTTL)
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		logg.Error(ctx, "failed to connect to telegram", err)
		os.Exit(1)
	}
	botAPI.Debug = cfg.Bot.Debug

	promRegistry := prometheus.NewRegistry()
	shopMetrics := metrics.NewShopMetrics(promRegistry)

	conn := dbClient.DB()

	notifier, err := notifications.NewService(bot.NewSender(botAPI), logg, shopMetrics, cfg.Bot, cfg.App)
	exitOn(ctx, logg, "notifications service", err)

	usersSvc, err := users.NewService(users.NewRepository(conn), cfg.Referral)
	exitOn(ctx, logg, "users service", err)
	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn))
	exitOn(ctx, logg, "catalog service", err)
	cartSvc, err := cart.NewService(cart.NewRepository(conn))
	exitOn(ctx, logg, "cart service", err)
	favoritesSvc, err := favorites.NewService(favorites.NewRepository(conn))
	exitOn(ctx, logg, "favorites service", err)
	partnersSvc, err := partners.NewService(partners.NewRepository(conn), cfg.Promo)
	exitOn(ctx, logg, "partners service", err)
	promosSvc, err := promos.NewService(promos.NewRepository(conn), partnersSvc, cfg.Promo)
	exitOn(ctx, logg, "promos service", err)
	settingsSvc, err := settings.NewService(conn)
	exitOn(ctx, logg, "settings service", err)
	reviewsSvc, err := reviews.NewService(reviews.NewRepository(conn), promosSvc, notifier)
	exitOn(ctx, logg, "reviews service", err)
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
	exitOn(ctx, logg, "orders service", err)
	checkoutSvc, err := checkout.NewService(
		dbClient,
		cart.NewRepository(conn),
		orders.NewRepository(conn),
		promosSvc,
		notifier,
		logg,
		shopMetrics,
	)
	exitOn(ctx, logg, "checkout service", err)

	shop, err := bot.New(botAPI, cfg.Bot, cfg.App, logg, state, bot.Services{
		Users:     usersSvc,
		Catalog:   catalogSvc,
		Cart:      cartSvc,
		Favorites: favoritesSvc,
		Promos:    promosSvc,
		Partners:  partnersSvc,
		Checkout:  checkoutSvc,
		Orders:    ordersSvc,
		Reviews:   reviewsSvc,
		Settings:  settingsSvc,
		Notifier:  notifier,
	})
	exitOn(ctx, logg, "bot", err)

	if cfg.Bot.MetricsPort != "" {
		go serveMetrics(ctx, logg, cfg.Bot.MetricsPort, promRegistry)
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := botAPI.GetUpdatesChan(updateCfg)

	runCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"username": botAPI.Self.UserName,
	})
	logg.Info(runCtx, "starting bot")

	if err := shop.Run(ctx, updates); err != nil && err != context.Canceled {
		logg.Error(runCtx, "bot stopped unexpectedly", err)
		os.Exit(1)
	}
}

func serveMetrics(ctx context.Context, logg *logger.Logger, port string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "metrics server stopped unexpectedly", err)
	}
}

func exitOn(ctx context.Context, logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to create "+what, err)
	os.Exit(1)
}
