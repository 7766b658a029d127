package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/JJ8s/Space-GYM/internal/config"
	"github.com/JJ8s/Space-GYM/internal/connect"
	"github.com/JJ8s/Space-GYM/internal/container"
	"github.com/JJ8s/Space-GYM/internal/models"
	"github.com/JJ8s/Space-GYM/internal/notify"
	"github.com/JJ8s/Space-GYM/internal/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg)
	logger.Info("Starting Space-GYM API server", "environment", cfg.Environment)

	cld, err := connect.CloudinaryCredentials(cfg)
	if err != nil {
		logger.Error("Failed to connect to Cloudinary", "error", err)
		os.Exit(1)
	}
	connect.Cld = cld

	supaClient, supaUrl, supaKey, err := connect.InitSupabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to Supabase", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to Supabase successfully")

	mongoClient, err := connect.MongoDBConnect(cfg)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to MongoDB successfully")

	// Indexes back the conflict guard and the idempotent check-in; refuse to
	// serve bookings without them.
	indexCtx, cancelIdx := context.WithTimeout(context.Background(), 30*time.Second)
	if err := models.MongodbNewRepo(mongoClient).EnsureBookingIndexes(indexCtx); err != nil {
		cancelIdx()
		logger.Error("Failed to ensure booking indexes", "error", err)
		os.Exit(1)
	}
	cancelIdx()

	// The broker is optional. Without it, booking events are logged and
	// dropped instead of published.
	var dispatcher notify.Dispatcher = notify.NoopDispatcher{Logger: logger}
	var amqpDispatcher *notify.AMQPDispatcher
	if rabbitConn, err := connect.RabbitConnect(cfg.RabbitURL); err != nil {
		logger.Warn("RabbitMQ unavailable, booking notifications disabled", "error", err)
	} else {
		amqpDispatcher, err = notify.NewAMQPDispatcher(rabbitConn, cfg.RabbitExchange, logger)
		if err != nil {
			logger.Warn("Failed to open AMQP channel, booking notifications disabled", "error", err)
		} else {
			dispatcher = amqpDispatcher
			logger.Info("Connected to RabbitMQ successfully", "exchange", cfg.RabbitExchange)
		}
	}

	// Initialize dependency container
	appContainer := container.NewContainer(cfg, logger, cld, supaClient, mongoClient, dispatcher, supaUrl, supaKey)

	// Setup routes
	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if amqpDispatcher != nil {
		if err := amqpDispatcher.Close(); err != nil {
			logger.Error("Error closing AMQP dispatcher", "error", err)
		}
	}
	connect.Disconnect()
	if err := connect.MongoDBDisconnect(); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}
