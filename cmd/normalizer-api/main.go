package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/maltedev/ekatra-normalizer/internal/api"
	"github.com/maltedev/ekatra-normalizer/internal/config"
	"github.com/maltedev/ekatra-normalizer/internal/engine"
	"github.com/maltedev/ekatra-normalizer/internal/events"
	"github.com/maltedev/ekatra-normalizer/internal/media"
	"github.com/maltedev/ekatra-normalizer/internal/metrics"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logging
	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var prober media.Prober = media.NoopProber{}
	if cfg.Media.ProbeEnabled {
		prober = media.NewHTTPProber(cfg.Media.ProbeTimeout, logger)
	}

	eng := engine.New(engine.Options{
		DefaultCurrency:     cfg.Transform.DefaultCurrency,
		SupportedCurrencies: cfg.Transform.SupportedCurrencies,
		SDKVersion:          cfg.Transform.SDKVersion,
		Prober:              prober,
		Logger:              logger,
		LogMapping:          cfg.Logging.Mapping,
		LogValidation:       cfg.Logging.Validation,
		BatchConcurrency:    cfg.Batch.Concurrency,
		BatchMaxItems:       cfg.Batch.MaxItems,
	})

	opts := api.Options{
		StrictMode: cfg.Server.StrictMode,
		Metrics:    metrics.NewRecorder(),
	}

	// Redis stream publishing
	if cfg.Publish.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		publisher := events.NewPublisher(redisClient, cfg.Publish.Stream, logger)
		defer publisher.Close()
		opts.Publisher = publisher
	}

	handlers := api.NewHandlers(eng, opts, logger)
	router := api.NewRouter(handlers, api.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server starting",
		"port", cfg.Server.Port,
		"default_currency", cfg.Transform.DefaultCurrency,
		"strict", cfg.Server.StrictMode,
		"publishing", cfg.Publish.Enabled,
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
