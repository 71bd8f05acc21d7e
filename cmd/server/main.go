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

	"github.com/caterbazar/caterbazar-console/config"
	"github.com/caterbazar/caterbazar-console/internal/app/controller"
	"github.com/caterbazar/caterbazar-console/internal/app/service"
	"github.com/caterbazar/caterbazar-console/internal/caterbazar"
	"github.com/caterbazar/caterbazar-console/internal/inflight"
	"github.com/caterbazar/caterbazar-console/internal/middleware"
	"github.com/caterbazar/caterbazar-console/internal/router"
	"github.com/caterbazar/caterbazar-console/internal/scheduler"
	"github.com/caterbazar/caterbazar-console/internal/session"
	"github.com/caterbazar/caterbazar-console/internal/storage"
	ws "github.com/caterbazar/caterbazar-console/internal/websocket"
	"github.com/caterbazar/caterbazar-console/pkg/logger"
	"github.com/caterbazar/caterbazar-console/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Service:     "caterbazar-console",
		EnableColor: !cfg.IsProduction(),
	})

	logger.Info("Starting Caterbazar console", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"upstream":    cfg.Upstream.BaseURL,
	})

	notifier := session.NewNotifier()

	client, err := caterbazar.NewClient(caterbazar.Config{
		BaseURL:   cfg.Upstream.BaseURL,
		Timeout:   cfg.Upstream.Timeout,
		UserAgent: "caterbazar-console",
	}, notifier)
	if err != nil {
		logger.Fatal("Failed to create upstream client", err)
	}

	// Review submit guard: Redis when configured so replicas share it
	var guard inflight.Guard = inflight.NewMemoryGuard()
	if cfg.Redis.Enabled() {
		rdb, err := redis.Init(cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		guard = inflight.NewRedisGuard(rdb, cfg.Console.ReviewSubmitLockTTL)
	}

	// Document links are optional; the interface stays nil without a bucket
	var signer storage.DocumentSigner
	if cfg.S3.Enabled() {
		signer = storage.NewS3Storage(context.Background(),
			cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.LinkExpiry)
	}

	registry := service.NewConsoleRegistry(
		service.NewConsoleFactory(client, client, service.ReviewDeps{Guard: guard, Signer: signer}),
		cfg.Console.SessionTTL,
		cfg.Console.MaxSessions,
	)

	// Session events reach the browser over the console's event socket
	hub := ws.NewHub()
	go hub.Run()
	unsubscribe := notifier.Subscribe(hub.HandleSessionExpired)
	registry.OnEvict(hub.CloseConsole)

	sweeper := scheduler.NewConsoleSweeper(registry, cfg.Console.SweepSchedule)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("Failed to start console sweeper", err)
	}

	// Setup router
	r := router.NewRouter(
		controller.NewAuthController(client),
		controller.NewVendorController(),
		controller.NewRegistrationController(),
		controller.NewEventsController(hub, cfg.CORS.AllowedOrigins),
		middleware.NewAuthMiddleware(notifier, registry),
		registry,
		cfg,
	)
	engine := r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown did not complete", err)
	}

	sweeper.Stop()
	unsubscribe()
	hub.Stop()

	logger.Info("Server stopped successfully")
}
