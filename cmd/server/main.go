package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/siwes-platform/logbook-service/internal/cache"
	"github.com/siwes-platform/logbook-service/internal/config"
	"github.com/siwes-platform/logbook-service/internal/events"
	"github.com/siwes-platform/logbook-service/internal/handlers"
	"github.com/siwes-platform/logbook-service/internal/repositories/postgres"
	"github.com/siwes-platform/logbook-service/internal/services"
	"github.com/siwes-platform/logbook-service/internal/utils"
	"github.com/siwes-platform/logbook-service/internal/validator"
	"github.com/siwes-platform/logbook-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var slogger *slog.Logger
	if cfg.Environment == "production" {
		slogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	} else {
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	logger := utils.NewSlogLogger(slogger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		slogger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	cacheService := cache.NewNoopCache()
	if cfg.RedisURL != "" {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			slogger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, slogger)
	}

	var publisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: cfg.KafkaBrokers,
			TopicName:    cfg.KafkaTopic,
			Logger:       slogger,
		})
		if err != nil {
			slogger.Error("failed to create event publisher", "error", err)
			os.Exit(1)
		}
	} else {
		publisher = events.NewMockEventPublisher(slogger)
	}
	defer publisher.Close()

	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		slogger.Error("failed to create media directory", "error", err)
		os.Exit(1)
	}

	repo := postgres.NewRepository(db)
	serviceManager := services.NewServiceManager(
		repo,
		slogger,
		validator.New(),
		publisher,
		cacheService,
		services.TokenSettings{
			Secret:     cfg.JWTSecret,
			AccessTTL:  cfg.AccessTokenTTL,
			RefreshTTL: cfg.RefreshTokenTTL,
		},
	)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	handlerManager := handlers.NewHandlerManager(serviceManager, cfg.JWTSecret, cfg.MediaDir, logger)
	handlerManager.SetupRoutes(router)

	slogger.Info("starting logbook service", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		slogger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
