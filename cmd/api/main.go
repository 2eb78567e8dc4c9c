package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/api"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/config"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/database"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/embedding"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/face"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/liveness"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/matcher"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/repository"
	"github.com/saturnino-fabrica-de-software/facecheck/internal/service"
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
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting FaceCheck API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("provider", cfg.FaceProvider),
	)

	// Face provider, initialized on first use
	detector, err := face.NewDetector(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to configure face provider: %w", err)
	}

	livenessCfg, err := face.LivenessConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid liveness config: %w", err)
	}
	scorer, err := liveness.NewScorer(detector, livenessCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create liveness scorer: %w", err)
	}

	m, err := matcher.New(cfg.MatchThreshold)
	if err != nil {
		return fmt.Errorf("failed to create matcher: %w", err)
	}

	faceService := service.NewFaceService(
		embedding.NewExtractor(detector, logger),
		scorer,
		m,
		cfg.LivenessThreshold,
		logger,
	)

	deps := &api.Dependencies{
		Detector:    detector,
		FaceService: faceService,
		RateLimit: middleware.RateLimiterConfig{
			Max:    cfg.RateLimitMax,
			Window: cfg.RateLimitWindow,
		},
	}

	// Database is optional: enrollment routes need it
	if cfg.HasDatabase() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := database.NewPool(connectCtx, database.DefaultPoolConfig(cfg.DatabaseURL))
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if cfg.AutoMigrate {
			if err := database.Migrate(pool); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			logger.Info("database schema up to date")
		}

		deps.DB = pool
		deps.AuthService = service.NewAuthService(
			faceService,
			repository.NewEnrollmentRepository(pool),
			repository.NewAttemptRepository(pool),
		).WithIdentifyThreshold(cfg.IdentifyThreshold)

		logger.Info("database connected, enrollment enabled")
	} else {
		logger.Warn("DATABASE_URL not set, enrollment endpoints disabled")
	}

	// Setup router
	router := api.NewRouter(logger, deps)
	router.Setup()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	logger.Info("server stopped")

	return nil
}
