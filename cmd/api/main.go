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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fahrezi93/hoax-detection/internal/adapter/http/handler"
	"github.com/fahrezi93/hoax-detection/internal/adapter/http/middleware"
	"github.com/fahrezi93/hoax-detection/internal/adapter/http/router"
	"github.com/fahrezi93/hoax-detection/internal/adapter/repository/gormrepo"
	"github.com/fahrezi93/hoax-detection/internal/app"
	"github.com/fahrezi93/hoax-detection/internal/infrastructure/cache"
	"github.com/fahrezi93/hoax-detection/internal/infrastructure/config"
	"github.com/fahrezi93/hoax-detection/internal/infrastructure/database"
	"github.com/fahrezi93/hoax-detection/internal/infrastructure/logger"
	"github.com/fahrezi93/hoax-detection/internal/infrastructure/metrics"
	"github.com/fahrezi93/hoax-detection/internal/infrastructure/scheduler"
	"github.com/fahrezi93/hoax-detection/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := database.Open(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database migrations completed")

	// Initialize Redis (optional, continue without it)
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		if !errors.Is(err, cache.ErrDisabled) {
			log.Warn("Failed to connect to Redis, continuing with in-process rate limits", zap.Error(err))
		}
		redisClient = nil
	} else {
		log.Info("Connected to Redis")
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Prediction pipeline
	pipeline, err := app.Build(context.Background(), cfg, log, m.ClassifierFailed)
	if err != nil {
		return fmt.Errorf("failed to build prediction pipeline: %w", err)
	}
	defer func() { _ = pipeline.Close() }()

	// Repositories and usecases
	predictionRepo := gormrepo.NewPredictionRepository(db)
	feedbackRepo := gormrepo.NewFeedbackRepository(db)

	predictionUC := usecase.NewPredictionUsecase(pipeline.PredictionDeps(predictionRepo, m, log))
	feedbackUC := usecase.NewFeedbackUsecase(feedbackRepo, log)
	retentionUC := usecase.NewRetentionUsecase(predictionRepo, feedbackRepo, m, log)

	// Retention job
	var retention *scheduler.RetentionJob
	if cfg.Retention.Days > 0 {
		retention, err = scheduler.NewRetentionJob(cfg.Retention.Schedule, func(ctx context.Context) error {
			_, err := retentionUC.Cleanup(ctx, cfg.Retention.Days)
			return err
		}, log)
		if err != nil {
			return fmt.Errorf("failed to schedule retention: %w", err)
		}
		retention.Start()
		log.Info("Retention cleanup scheduled",
			zap.String("schedule", cfg.Retention.Schedule),
			zap.Int("days", cfg.Retention.Days))
	}

	// Handlers
	healthHandler := handler.NewHealthHandler(db, redisClient, pipeline.Components())
	if pipeline.ML != nil {
		healthHandler.AddProbe("inference", pipeline.ML.Ready)
	}

	predictLimiters, apiLimiters := newLimiters(&cfg.RateLimit, redisClient)

	// Setup router
	r := router.Setup(router.Deps{
		Logger:          log,
		Health:          healthHandler,
		Predictions:     handler.NewPredictionHandler(predictionUC),
		Feedback:        handler.NewFeedbackHandler(feedbackUC),
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		PredictLimiters: predictLimiters,
		APILimiters:     apiLimiters,
		OnRateLimited:   m.Throttled,
		Gatherer:        reg,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if retention != nil {
		retention.Stop()
	}

	// Close database connection
	if sqlDB, err := db.DB(); err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}

	// Close Redis connection
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("Server exited")
	return nil
}

// newLimiters shares counters through redis when it is available
func newLimiters(cfg *config.RateLimitConfig, redisClient *redis.Client) (predict, api []middleware.Limiter) {
	if cfg.PredictPerMinute > 0 {
		if redisClient != nil {
			predict = append(predict, cache.NewRedisLimiter(redisClient, "predict", cfg.PredictPerMinute, time.Minute))
		} else {
			predict = append(predict, cache.NewMemoryLimiter(cfg.PredictPerMinute, time.Minute))
		}
	}
	for _, w := range []struct {
		name   string
		limit  int
		window time.Duration
	}{
		{"hourly", cfg.PerHour, time.Hour},
		{"daily", cfg.PerDay, 24 * time.Hour},
	} {
		if w.limit <= 0 {
			continue
		}
		if redisClient != nil {
			api = append(api, cache.NewRedisLimiter(redisClient, w.name, w.limit, w.window))
		} else {
			api = append(api, cache.NewMemoryLimiter(w.limit, w.window))
		}
	}
	return predict, api
}
