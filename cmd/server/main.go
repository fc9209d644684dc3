package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/movie-night/internal/api"
	"github.com/dom/movie-night/internal/config"
	"github.com/dom/movie-night/internal/events"
	"github.com/dom/movie-night/internal/logger"
	"github.com/dom/movie-night/internal/repository/postgres"
	"github.com/dom/movie-night/internal/repository/redis"
	"github.com/dom/movie-night/internal/service"
	"github.com/dom/movie-night/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	sugar, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer sugar.Sync()

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	deps := service.Dependencies{Logger: sugar}

	if cfg.RedisAddr != "" {
		client, err := redis.NewClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			sugar.Fatalw("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer client.Close()
		deps.TokenCache = redis.NewTokenCache(client, cfg.TokenCacheTTL)
		sugar.Infow("token cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.TokenCacheTTL)
	}

	if cfg.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			sugar.Fatalw("failed to connect to message broker", "error", err)
		}
		defer publisher.Close()
		deps.Publisher = publisher
		sugar.Infow("event publishing enabled", "exchange", cfg.AMQPExchange)
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub(sugar)
	go hub.Run()
	deps.Notifier = hub

	// Initialize services
	services := service.NewServices(repos, deps)

	// Initialize router
	router := api.NewRouter(services, hub, cfg, sugar)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		sugar.Infow("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Errorw("server forced to shutdown", "error", err)
	}
	hub.Stop()

	sugar.Info("server stopped")
}
