package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/whitebox/cryptomonitor/internal/core/ports/services"
	"github.com/whitebox/cryptomonitor/internal/middleware"
	"github.com/whitebox/cryptomonitor/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	registerHomeRoutes(r, services.Connectivity)

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	// Favourite mutations require a bearer token only when a secret is
	// configured; everything else is public.
	requireAuth := passthrough()
	if cfg.JWTSecret != "" {
		requireAuth = middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)
	}

	registerAssetRoutes(v1, services.Sync, services.Connectivity, requireAuth)
	registerExchangeRateRoutes(v1, services.Sync, services.Connectivity)
}

func passthrough() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}
