package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/bizlink/directory-backend/internal/adapters/cache"
	"github.com/bizlink/directory-backend/internal/adapters/database"
	"github.com/bizlink/directory-backend/internal/adapters/storage"
	"github.com/bizlink/directory-backend/internal/api/handlers"
	"github.com/bizlink/directory-backend/internal/api/middleware"
	"github.com/bizlink/directory-backend/internal/api/routes"
	"github.com/bizlink/directory-backend/internal/application/services"
	"github.com/bizlink/directory-backend/internal/domain/providers"
	"github.com/bizlink/directory-backend/internal/domain/repositories"
	"github.com/bizlink/directory-backend/internal/infrastructure/clients/postgres"
	"github.com/bizlink/directory-backend/internal/infrastructure/clients/redis"
	"github.com/bizlink/directory-backend/internal/infrastructure/observability"
	"github.com/bizlink/directory-backend/pkg/config"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry export is opt-in
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	logger.Info().Msg("PostgreSQL client initialized")

	// the directory works without Redis, just slower
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, running without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		logger.Info().Msg("Redis client initialized")
	}

	var businessRepo repositories.BusinessRepository = database.NewBusinessAdapter(pgClient)
	if cacheProvider != nil {
		businessRepo = database.NewCachedBusinessAdapter(businessRepo, cacheProvider, metrics)
		logger.Info().Msg("business repository wrapped with caching layer")
	}

	fileStore, err := storage.NewS3Store(ctx, &cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize S3 store")
	}

	businessService := services.NewBusinessService(businessRepo)
	searchService := services.NewSearchService(cfg.Search.DefaultPageSize)
	importService := services.NewImportService(businessService, businessRepo, metrics)

	businessHandler := handlers.NewBusinessHandler(businessService, searchService)
	importHandler := handlers.NewImportHandler(importService)
	uploadHandler := handlers.NewUploadHandler(fileStore, cfg.Storage.KeyPrefix)
	profileCardHandler := handlers.NewProfileCardHandler(businessService, cfg.Server.PublicBaseURL)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	if cfg.Auth.JWTSecret == "" {
		logger.Warn().Msg("AUTH_JWT_SECRET is not set; admin endpoints will reject all requests")
	}

	router := routes.NewRouter(
		businessHandler,
		importHandler,
		uploadHandler,
		profileCardHandler,
		cacheMiddleware,
		metrics,
		cfg.Auth.JWTSecret,
		cfg.Server.AllowedOrigins,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}
