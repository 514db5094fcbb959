package http

import (
	"github.com/gin-gonic/gin"
	"github.com/voicecart/backend/config"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// ClientIP feeds the rate limiter, so forwarding headers count only when
	// they come from a configured proxy.
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Error("invalid trusted proxies, ignoring forwarding headers", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		transcripts := v1.Group("/transcripts")
		{
			transcripts.POST("/parse", handler.ParseTranscript)
			transcripts.POST("/parse/batch", handler.ParseBatch)
		}

		prices := v1.Group("/prices")
		{
			prices.GET("/format", handler.FormatPrice)
		}
	}

	return router
}
