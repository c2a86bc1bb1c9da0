package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medspa-api/internal/config"
	analyticsHandler "github.com/jwalitptl/medspa-api/internal/handler/analytics"
	healthHandler "github.com/jwalitptl/medspa-api/internal/handler/health"
	patientHandler "github.com/jwalitptl/medspa-api/internal/handler/patient"
	providerHandler "github.com/jwalitptl/medspa-api/internal/handler/provider"
	"github.com/jwalitptl/medspa-api/internal/middleware"
	"github.com/jwalitptl/medspa-api/internal/repository"
	"github.com/jwalitptl/medspa-api/internal/repository/memory"
	"github.com/jwalitptl/medspa-api/internal/repository/postgres"
	"github.com/jwalitptl/medspa-api/internal/router"
	analyticsService "github.com/jwalitptl/medspa-api/internal/service/analytics"
	datasetService "github.com/jwalitptl/medspa-api/internal/service/dataset"
	patientService "github.com/jwalitptl/medspa-api/internal/service/patient"
	providerService "github.com/jwalitptl/medspa-api/internal/service/provider"
	"github.com/jwalitptl/medspa-api/internal/worker"
	"github.com/jwalitptl/medspa-api/pkg/logger"
	"github.com/jwalitptl/medspa-api/pkg/metrics"
)

var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})
	appLogger.SetGlobal()

	m := metrics.NewMetrics("medspa", prometheus.DefaultRegisterer)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize dataset repository
	repo, closeRepo, err := newDatasetRepository(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to initialize dataset repository")
	}
	defer closeRepo()

	// Initialize services
	datasetSvc := datasetService.NewService(repo, datasetService.Config{
		TTL:             cfg.Cache.DatasetTTL,
		CleanupInterval: cfg.Cache.CleanupInterval,
	}, m, appLogger.ZL())
	patientSvc := patientService.NewService(datasetSvc, m)
	providerSvc := providerService.NewService(datasetSvc, m)
	analyticsSvc := analyticsService.NewService(datasetSvc, m)

	// Setup router
	metricsPath := ""
	if cfg.Monitoring.PrometheusEnabled {
		metricsPath = cfg.Monitoring.MetricsPath
	}
	r := router.NewRouter(
		router.RouterConfig{
			Mode: cfg.Server.Mode,
			RateLimit: middleware.RateLimiterConfig{
				RPS:   cfg.RateLimit.RequestsPerSecond,
				Burst: cfg.RateLimit.Burst,
			},
			RateLimitOn: cfg.RateLimit.Enabled,
			CORSConfig: middleware.CORSConfig{
				AllowOrigins: cfg.CORS.AllowedOrigins,
				MaxAge:       12 * time.Hour,
			},
			CacheConfig: middleware.CacheConfig{
				MaxAge:               cfg.Cache.HTTPMaxAge,
				StaleWhileRevalidate: cfg.Cache.HTTPStaleWhileRevalidate,
				Private:              true,
				Vary:                 []string{"Origin"},
			},
			RequestTimeout: cfg.Server.RequestTimeout,
			MetricsPath:    metricsPath,
			Security:       middleware.DefaultSecurityConfig(),
			Compress:       true,
		},
		m,
		prometheus.DefaultGatherer,
		healthHandler.NewHandler(datasetSvc, version),
		patientHandler.NewHandler(patientSvc),
		providerHandler.NewHandler(providerSvc),
		analyticsHandler.NewHandler(analyticsSvc),
	)
	r.Setup()

	// Keep the snapshot warm
	if cfg.Cache.RefreshInterval > 0 {
		refresher := worker.NewSnapshotRefreshWorker(datasetSvc, cfg.Cache.RefreshInterval, appLogger.ZL())
		go refresher.Start(ctx)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("driver", cfg.Database.Driver).Str("version", version).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func newDatasetRepository(ctx context.Context, cfg config.DatabaseConfig) (repository.DatasetRepository, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewDatasetRepository(db), func() { db.Close() }, nil
	default:
		repo, err := memory.NewDatasetRepository(cfg.SeedDir)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}
}
