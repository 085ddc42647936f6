package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/quadra/internal/api/rest"
	"github.com/fortuna/quadra/internal/api/websocket"
	"github.com/fortuna/quadra/internal/archive"
	"github.com/fortuna/quadra/internal/cache"
	"github.com/fortuna/quadra/internal/config"
	"github.com/fortuna/quadra/internal/identity"
	"github.com/fortuna/quadra/internal/live"
	"github.com/fortuna/quadra/internal/publisher"
	"github.com/fortuna/quadra/internal/store"
	"github.com/fortuna/quadra/internal/store/repository"
)

const (
	serviceName    = "quadra"
	serviceVersion = "1.0.0"

	redisAttempts   = 30
	redisRetryDelay = 2 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("starting "+serviceName, "version", serviceVersion)

	if err := run(cfg, logger); err != nil {
		logger.Error(serviceName+" stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info(serviceName + " stopped")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("✓ connected to database")

	if err := db.RunMigrations(ctx); err != nil {
		return err
	}
	logger.Info("✓ database migrations applied")

	redisCache, err := cache.DialWithRetry(ctx, cfg.RedisURL, redisAttempts, redisRetryDelay, logger)
	if err != nil {
		return err
	}
	defer redisCache.Close()
	logger.Info("✓ connected to redis")

	auth, err := identity.NewJWTProvider(cfg.JWTSecret)
	if err != nil {
		return err
	}

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	gateway := repository.NewGateway(db)
	deps := live.Deps{
		Roster:      gateway,
		Gateway:     gateway,
		Snapshots:   cache.NewSessionStore(redisCache, cfg.SnapshotTTL),
		Publisher:   publisher.NewRedisStreamPublisher(redisCache.Client()),
		Broadcaster: hub,
		Logger:      logger,
	}

	if cfg.ArchiveEnabled() {
		s3Archive, err := archive.NewS3Archive(ctx, cfg.Archive)
		if err != nil {
			return err
		}
		deps.Archive = s3Archive
		logger.Info("✓ match archive enabled", "bucket", cfg.Archive.Bucket)
	}

	managerCfg := live.DefaultConfig()
	managerCfg.Session.PeriodLengthSeconds = cfg.PeriodLengthSeconds
	manager, err := live.NewManager(managerCfg, deps)
	if err != nil {
		return err
	}
	go manager.Run(ctx)
	logger.Info("✓ session clock loop started")

	health := func(ctx context.Context) error {
		if err := db.HealthCheck(); err != nil {
			return err
		}
		return redisCache.HealthCheck(ctx)
	}
	restServer := rest.NewServer(cfg.RESTPort, rest.NewHandler(manager, gateway, auth, health, logger), logger)
	go func() {
		if err := restServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("REST server error", "error", err)
		}
	}()
	logger.Info("✓ REST API server listening", "port", cfg.RESTPort)

	wsServer := websocket.NewServer(hub, manager, auth, logger)
	go func() {
		if err := wsServer.Start(cfg.WSPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("WebSocket server error", "error", err)
		}
	}()
	logger.Info("✓ WebSocket server listening", "port", cfg.WSPort)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down gracefully")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("REST API server shutdown error", "error", err)
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("WebSocket server shutdown error", "error", err)
	}
	return nil
}
