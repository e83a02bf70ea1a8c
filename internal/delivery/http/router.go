package http

import (
	"net/http"
	"time"

	"github.com/gdugdh24/sitter-presence-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/sitter-presence-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Router struct {
	authHandler         *handler.AuthHandler
	presenceHandler     *handler.PresenceHandler
	availabilityHandler *handler.AvailabilityHandler
	authMiddleware      *middleware.AuthMiddleware
	allowedOrigins      []string
	logger              zerolog.Logger
}

func NewRouter(
	authHandler *handler.AuthHandler,
	presenceHandler *handler.PresenceHandler,
	availabilityHandler *handler.AvailabilityHandler,
	authMiddleware *middleware.AuthMiddleware,
	allowedOrigins []string,
	logger zerolog.Logger,
) *Router {
	return &Router{
		authHandler:         authHandler,
		presenceHandler:     presenceHandler,
		availabilityHandler: availabilityHandler,
		authMiddleware:      authMiddleware,
		allowedOrigins:      allowedOrigins,
		logger:              logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	handler.RegisterValidatorTags()

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery())
	router.Use(middleware.Metrics())
	router.Use(cors.New(r.corsConfig()))

	router.NoRoute(func(c *gin.Context) {
		handler.Fail(c, http.StatusNotFound, handler.ErrCodeNotFound, "route not found")
	})
	router.NoMethod(func(c *gin.Context) {
		handler.Fail(c, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(r.authMiddleware.RequireAuth())
	{
		v1.GET("/auth/me", r.authHandler.Me)

		sitterOnly := r.authMiddleware.RequireRole(domain.RoleSitter)

		sitters := v1.Group("/sitters")
		{
			// Presence
			sitters.POST("/update-location", sitterOnly, r.presenceHandler.UpdateLocation)
			sitters.POST("/set-status", sitterOnly, r.presenceHandler.SetStatus)
			sitters.POST("/nearby-sitters", r.presenceHandler.NearbySitters)

			// Availability
			sitters.GET("/get-availability/:providerId", r.availabilityHandler.GetAvailability)
			sitters.POST("/save-availability", sitterOnly, r.availabilityHandler.SaveAvailability)
			sitters.GET("/get-weekly-availability/:providerId", r.availabilityHandler.GetWeeklyAvailability)
			sitters.POST("/save-weekly-availability", sitterOnly, r.availabilityHandler.SaveWeeklyAvailability)

			// Full day
			sitters.POST("/mark-full", sitterOnly, r.availabilityHandler.MarkFull)
			sitters.GET("/check-full/:providerId/:date", r.availabilityHandler.CheckFull)
		}
	}

	return router
}

func (r *Router) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(r.allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = r.allowedOrigins
	}
	return cfg
}
