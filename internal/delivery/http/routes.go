package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comparador-racao/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	limiter := NewIPRateLimiter(cfg.RateLimit.PerIP, cfg.RateLimit.Burst, time.Minute)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(limiter))
	{
		v1.GET("/products", handler.ListProducts)
		v1.GET("/products/:id", handler.GetProduct)
		v1.GET("/filters", handler.Filters)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handler.CreateSession)
			sessions.GET("/:sid", handler.GetSession)
			sessions.DELETE("/:sid", handler.EndSession)
			sessions.PUT("/:sid/filters", handler.SetSessionFilters)
			sessions.PATCH("/:sid/filters", handler.ToggleSessionFilter)
			sessions.DELETE("/:sid/filters", handler.ClearSessionFilters)
			sessions.PUT("/:sid/sort", handler.SetSessionSort)
			sessions.POST("/:sid/compare/:id", handler.ToggleCompare)
			sessions.GET("/:sid/compare", handler.GetComparison)
			sessions.DELETE("/:sid/compare", handler.ClearComparison)
		}
	}

	return router
}
