package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JJ8s/Space-GYM/internal/config"
	"github.com/JJ8s/Space-GYM/internal/notify"
)

// The notifier is a standalone worker: it drains booking events off the
// exchange and delivers them, so the API never blocks on a slow channel.
func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)

	consumer := notify.NewConsumer(notify.ConsumerConfig{
		RabbitURL: cfg.RabbitURL,
		Exchange:  cfg.RabbitExchange,
		Queue:     cfg.NotifyQueue,
	}, notify.NewConsole(logger), logger)

	if err := consumer.Connect(); err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()
	logger.Info("Notifier connected", "exchange", cfg.RabbitExchange, "queue", cfg.NotifyQueue)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Run(ctx); err != nil {
		logger.Error("Notifier stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Notifier exited")
}
