package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aryan0dhankhar/allocdesk/internal/devapi"
	"github.com/aryan0dhankhar/allocdesk/internal/handler"
	"github.com/aryan0dhankhar/allocdesk/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/allocdesk/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/allocdesk/internal/observability/tracing"
	"github.com/aryan0dhankhar/allocdesk/internal/reliability/retry"
	"github.com/aryan0dhankhar/allocdesk/pkg/config"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting allocdesk dev API", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, log, "allocdesk-devapi", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 3. The redis directory cache is shared with CLI processes; readiness
	// reports it when configured.
	ready := map[string]handler.Pinger{}
	if cfg.Cache.Backend == "redis" {
		redisClient, err := retry.Do(ctx, retry.DefaultConfig(), log, "connect redis", func(ctx context.Context) (*redis.Client, error) {
			return redis.NewClient(ctx, cfg.Cache.RedisURL, log)
		})
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		ready["redis"] = redisClient
	}

	if cfg.Server.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, using the development default")
	}

	// 4. Repositories, services and routes
	api, err := devapi.New(devapi.Options{
		JWTSecret:          cfg.Server.JWTSecret,
		CookieName:         cfg.API.SessionCookieName,
		SessionTTL:         cfg.Server.SessionTTL,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		ExpiryInterval:     cfg.Server.ExpiryInterval,
		Seed:               cfg.Server.SeedDemoData,
		DemoPassword:       cfg.Server.DemoPassword,
		Ready:              ready,
		Logger:             log,
	})
	if err != nil {
		log.Error("failed to build dev API", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer api.Close()

	// 5. Start expiry worker in background
	go api.Expiry.Start(ctx)

	// 6. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.Server.Port),
		slog.String("auth", "session cookie"),
		slog.Int("rate_limit", cfg.Server.RateLimitPerMinute),
		slog.Bool("demo_data", cfg.Server.SeedDemoData),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			sigChan <- syscall.SIGTERM
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}
	cancel() // stop expiry worker
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown failed", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}
