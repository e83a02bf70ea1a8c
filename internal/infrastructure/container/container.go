package container

import (
	"context"
	"fmt"

	"github.com/gdugdh24/sitter-presence-backend/internal/config"
	"github.com/gdugdh24/sitter-presence-backend/internal/delivery/http"
	"github.com/gdugdh24/sitter-presence-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/sitter-presence-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/sitter-presence-backend/internal/infrastructure/database"
	"github.com/gdugdh24/sitter-presence-backend/internal/infrastructure/server"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository/cache"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository/memory"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository/postgres"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository/rediscache"
	"github.com/gdugdh24/sitter-presence-backend/internal/usecase/auth"
	"github.com/gdugdh24/sitter-presence-backend/internal/usecase/availability"
	"github.com/gdugdh24/sitter-presence-backend/internal/usecase/geosearch"
	"github.com/gdugdh24/sitter-presence-backend/internal/usecase/presence"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server

	memoryStore *memory.EphemeralStore
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg}

	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	var store repository.EphemeralStore
	if cfg.Redis.Enabled() {
		redisClient, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		c.Redis = redisClient
		store = rediscache.NewEphemeralStore(redisClient, cfg.Redis.KeyPrefix)
	} else {
		logger.Warn().Msg("REDIS_HOST not set, presence is kept in process memory")
		c.memoryStore = memory.NewEphemeralStore()
		store = c.memoryStore
	}

	// Repositories
	presenceRepo := cache.NewPresenceCache(store, cfg.Presence.LocationTTL)
	availabilityRepo := cache.NewAvailabilityCache(store, cfg.Presence.AvailabilityTTL)
	weeklyCache := cache.NewWeeklyCache(store, cfg.Presence.AvailabilityTTL)
	fullDayRepo := cache.NewFullDayCache(store, cfg.Presence.FullDayTTL)
	userRepo := postgres.NewUserRepository(db)
	recurrenceRepo := postgres.NewRecurrenceRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Use cases
	tokenService := auth.NewTokenService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)

	availabilityUseCase := availability.NewAvailabilityUseCase(
		availabilityRepo,
		weeklyCache,
		recurrenceRepo,
		fullDayRepo,
		presenceRepo,
		userRepo,
		notificationRepo,
		availability.Config{
			Location:      cfg.Presence.Location(),
			FanoutTimeout: cfg.Presence.FanoutTimeout,
			Horizon:       cfg.Presence.AvailabilityTTL,
		},
		logger,
	)

	presenceUseCase := presence.NewPresenceUseCase(
		presenceRepo,
		availabilityRepo,
		userRepo,
		availabilityUseCase,
		logger,
	)

	geoSearchUseCase := geosearch.NewGeoSearchUseCase(
		presenceRepo,
		userRepo,
		geosearch.Config{
			DefaultRadiusKm:   cfg.Presence.DefaultRadiusKm,
			MinRadiusKm:       cfg.Presence.MinRadiusKm,
			MaxRadiusKm:       cfg.Presence.MaxRadiusKm,
			LookupConcurrency: cfg.Presence.LookupConcurrency,
		},
		logger,
	)

	// Handlers
	authHandler := handler.NewAuthHandler()
	presenceHandler := handler.NewPresenceHandler(presenceUseCase, geoSearchUseCase)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityUseCase)

	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := http.NewRouter(
		authHandler,
		presenceHandler,
		availabilityHandler,
		authMiddleware,
		cfg.CORS.AllowedOrigins,
		logger,
	)

	c.Server = server.NewServer(&cfg.Server, router.Setup(), logger)
	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.memoryStore != nil {
		c.memoryStore.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis: %w", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
