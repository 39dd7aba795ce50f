package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/HYPERLOOPFIVER/lakes/internal/notifications"
	"github.com/HYPERLOOPFIVER/lakes/internal/shops"
	"github.com/HYPERLOOPFIVER/lakes/pkg/config"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/email"
	"github.com/HYPERLOOPFIVER/lakes/pkg/instance"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
	"github.com/HYPERLOOPFIVER/lakes/pkg/outbox/idempotency"
	"github.com/HYPERLOOPFIVER/lakes/pkg/pubsub"
	"github.com/HYPERLOOPFIVER/lakes/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "notification-worker"})

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
		ServiceName: "notification-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(ctx, "worker_id", instance.GetID())

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

	sender, err := email.NewClient(cfg.Sendgrid, logg)
	if err != nil {
		logg.Error(ctx, "init sendgrid", err)
		os.Exit(1)
	}

	shopsRepo, err := shops.NewRepository(dbClient)
	if err != nil {
		logg.Error(ctx, "init shops repository", err)
		os.Exit(1)
	}
	shopsSvc, err := shops.NewService(shopsRepo, logg)
	if err != nil {
		logg.Error(ctx, "init shops service", err)
		os.Exit(1)
	}

	mailer, err := notifications.NewMailer(sender, shopsSvc, logg)
	if err != nil {
		logg.Error(ctx, "init mailer", err)
		os.Exit(1)
	}

	manager, err := idempotency.NewManager(redisClient, cfg.Eventing.OutboxIdempotencyTTL)
	if err != nil {
		logg.Error(ctx, "init idempotency manager", err)
		os.Exit(1)
	}

	consumer, err := notifications.NewConsumer(mailer, psClient.OrdersSubscription(), manager, logg)
	if err != nil {
		logg.Error(ctx, "init consumer", err)
		os.Exit(1)
	}

	logg.Info(ctx, "notification worker starting")

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "notification worker stopped", err)
		os.Exit(1)
	}

	logg.Info(ctx, "shutting down gracefully")
}
