package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/HYPERLOOPFIVER/lakes/api/middleware"
	"github.com/HYPERLOOPFIVER/lakes/api/routes"
	"github.com/HYPERLOOPFIVER/lakes/internal/cart"
	"github.com/HYPERLOOPFIVER/lakes/internal/catalog"
	checkoutsvc "github.com/HYPERLOOPFIVER/lakes/internal/checkout"
	"github.com/HYPERLOOPFIVER/lakes/internal/orders"
	"github.com/HYPERLOOPFIVER/lakes/internal/shops"
	"github.com/HYPERLOOPFIVER/lakes/internal/users"
	"github.com/HYPERLOOPFIVER/lakes/internal/wishlist"
	"github.com/HYPERLOOPFIVER/lakes/pkg/config"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/geocode"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
	"github.com/HYPERLOOPFIVER/lakes/pkg/metrics"
	"github.com/HYPERLOOPFIVER/lakes/pkg/outbox"
	"github.com/HYPERLOOPFIVER/lakes/pkg/pubsub"
	"github.com/HYPERLOOPFIVER/lakes/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, "no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.Firebase, logg)
	if err != nil {
		logg.Error(ctx, "init firestore", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "close firestore", err)
		}
	}()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "init redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "close redis", err)
		}
	}()

	psClient, err := pubsub.NewClient(ctx, cfg.Firebase, cfg.PubSub, logg)
	if err != nil {
		logg.Error(ctx, "init pubsub", err)
		os.Exit(1)
	}
	defer psClient.Close()

	deps, err := buildDeps(cfg, logg, dbClient, redisClient, psClient)
	if err != nil {
		logg.Error(ctx, "wire services", err)
		os.Exit(1)
	}

	port := cfg.App.Port
	if fromEnv := os.Getenv("PORT"); fromEnv != "" {
		port = fromEnv
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           routes.NewRouter(*deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "server shutdown", err)
		}
	}()

	logg.Info(logg.WithField(ctx, "port", port), "api listening")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "server stopped", err)
		os.Exit(1)
	}

	logg.Info(ctx, "shutting down gracefully")
}

func buildDeps(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, psClient *pubsub.Client) (*routes.Deps, error) {
	catalogRepo, err := catalog.NewRepository(dbClient)
	if err != nil {
		return nil, err
	}
	catalogSvc, err := catalog.NewService(catalogRepo, redisClient, cfg.Catalog, logg)
	if err != nil {
		return nil, err
	}

	cartRepo, err := cart.NewRepository(dbClient)
	if err != nil {
		return nil, err
	}
	cartSvc, err := cart.NewService(cartRepo, logg)
	if err != nil {
		return nil, err
	}

	wishlistRepo, err := wishlist.NewRepository(dbClient)
	if err != nil {
		return nil, err
	}
	wishlistSvc, err := wishlist.NewService(wishlistRepo, cartRepo)
	if err != nil {
		return nil, err
	}

	shopsRepo, err := shops.NewRepository(dbClient)
	if err != nil {
		return nil, err
	}
	shopsSvc, err := shops.NewService(shopsRepo, logg)
	if err != nil {
		return nil, err
	}

	usersRepo, err := users.NewRepository(dbClient)
	if err != nil {
		return nil, err
	}
	usersSvc, err := users.NewService(usersRepo, geocode.NewClient(), logg)
	if err != nil {
		return nil, err
	}

	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.Firestore()), logg)

	checkoutRepo, err := checkoutsvc.NewRepository(dbClient)
	if err != nil {
		return nil, err
	}
	checkoutSvc, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Carts:   cartRepo,
		Users:   usersRepo,
		Shops:   shopsSvc,
		Repo:    checkoutRepo,
		Outbox:  outboxSvc,
		Metrics: metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer),
		Config:  cfg.Checkout,
		Logger:  logg,
	})
	if err != nil {
		return nil, err
	}

	ordersRepo, err := orders.NewRepository(dbClient)
	if err != nil {
		return nil, err
	}
	ordersSvc, err := orders.NewService(ordersRepo, shopsSvc, outboxSvc, logg)
	if err != nil {
		return nil, err
	}

	// Firebase ID-token verification when credentials are configured,
	// dev JWTs otherwise.
	var verifier middleware.TokenVerifier
	if cfg.Firebase.ApplicationCredentials != "" {
		verifier = dbClient.Auth()
	}

	return &routes.Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		PubSub:   psClient,
		Verifier: verifier,
		Catalog:  catalogSvc,
		Cart:     cartSvc,
		Wishlist: wishlistSvc,
		Checkout: checkoutSvc,
		Orders:   ordersSvc,
		Users:    usersSvc,
	}, nil
}
