package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/clinicpos/record-api/internal/config"
	"github.com/clinicpos/record-api/internal/notifier"
	"github.com/clinicpos/record-api/pkg/logger"
	redisbroker "github.com/clinicpos/record-api/pkg/messaging/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logger.New(&logger.Config{Level: level, Pretty: cfg.Log.Pretty})

	broker, err := redisbroker.NewBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, log)
	if err != nil {
		log.Fatal(err, "failed to connect to Redis broker")
	}
	defer broker.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	emailNotifier := notifier.NewEmailNotifier(broker, cfg.SMTP, log)
	if err := emailNotifier.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err, "notifier stopped")
	}

	log.Info("worker exited properly")
}
