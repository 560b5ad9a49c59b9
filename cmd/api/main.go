// Package main is the entry point for the worker API.
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

	"github.com/Janeirohurley/worker-api/internal/config"
	"github.com/Janeirohurley/worker-api/internal/database"
	"github.com/Janeirohurley/worker-api/internal/handlers"
	"github.com/Janeirohurley/worker-api/internal/logger"
	"github.com/Janeirohurley/worker-api/internal/metrics"
	"github.com/Janeirohurley/worker-api/internal/repository"
	"github.com/Janeirohurley/worker-api/internal/routes"
	"github.com/Janeirohurley/worker-api/internal/service"
	"github.com/Janeirohurley/worker-api/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Worker API
// @version 1.0
// @description Worker registration and authentication service
// @host localhost:4000
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration; a missing JWT_SECRET stops the process here
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Dev: cfg.LogDev})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("service stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return err
	}
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	checks := map[string]handlers.Pinger{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}

	// Initialize Redis when configured
	emailLock := repository.NewNoopEmailLock()
	if cfg.RedisEnabled() {
		redisClient, err := redis.NewClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()

		emailLock = repository.NewRedisEmailLock(redisClient, cfg.RegistrationLockTTL)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	// Initialize repository
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	jwtService := service.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	if jwtService == nil {
		return errors.New("invalid JWT secret")
	}
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	authService := service.NewAuthService(userRepo, jwtService, hasher, emailLock, log)

	// Initialize handlers
	metricsCollector := metrics.New()
	authHandler := handlers.NewAuthHandler(authService, metricsCollector, log)
	healthHandler := handlers.NewHealthHandler(checks, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.Setup(router, routes.Options{
		AuthService:    authService,
		AuthHandler:    authHandler,
		HealthHandler:  healthHandler,
		Metrics:        metricsCollector,
		Logger:         log,
		AllowedOrigins: cfg.AllowedOrigins,
		SwaggerEnabled: cfg.SwaggerEnabled,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting worker API", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http server shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("goodbye")
	return nil
}
