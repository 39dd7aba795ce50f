package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/HYPERLOOPFIVER/lakes/pkg/config"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/instance"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
	"github.com/HYPERLOOPFIVER/lakes/pkg/outbox"
	"github.com/HYPERLOOPFIVER/lakes/pkg/pubsub"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "outbox-publisher"})

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
		ServiceName: "outbox-publisher",
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

	psClient, err := pubsub.NewClient(ctx, cfg.Firebase, cfg.PubSub, logg)
	if err != nil {
		logg.Error(ctx, "init pubsub", err)
		os.Exit(1)
	}
	defer psClient.Close()

	svc, err := NewService(ServiceParams{
		Config: cfg,
		Logger: logg,
		DB:     dbClient,
		PubSub: psClient,
		Repo:   outbox.NewRepository(dbClient.Firestore()),
	})
	if err != nil {
		logg.Error(ctx, "init outbox publisher", err)
		os.Exit(1)
	}

	logg.Info(ctx, "outbox publisher starting")

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "outbox publisher stopped", err)
		os.Exit(1)
	}

	logg.Info(ctx, "shutting down gracefully")
}
