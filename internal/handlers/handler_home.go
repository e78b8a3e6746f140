package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/whitebox/cryptomonitor/internal/core/ports/services"
)

// registerHomeRoutes registers the root status route.
func registerHomeRoutes(r *gin.Engine, connectivity portssvc.ConnectivitySvcFacade) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "cryptomonitor API v1",
			"network": connectivity.Status().String(),
		})
	})
}
