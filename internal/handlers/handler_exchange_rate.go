package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/whitebox/cryptomonitor/internal/core/domain"
	portssvc "github.com/whitebox/cryptomonitor/internal/core/ports/services"
	"github.com/whitebox/cryptomonitor/internal/dto"
)

// exchangeRateHandler handles HTTP requests for EUR exchange rates.
type exchangeRateHandler struct {
	engine       portssvc.SyncSvcFacade
	connectivity portssvc.ConnectivitySvcFacade
}

func newExchangeRateHandler(engine portssvc.SyncSvcFacade, connectivity portssvc.ConnectivitySvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{engine: engine, connectivity: connectivity}
}

func registerExchangeRateRoutes(rg *gin.RouterGroup, engine portssvc.SyncSvcFacade, connectivity portssvc.ConnectivitySvcFacade) {
	h := newExchangeRateHandler(engine, connectivity)
	rg.GET("/assets/:assetID/rate", h.getExchangeRate)
}

// getExchangeRate returns the quote-currency rate for a base asset, fresh
// when the remote fetch succeeded, cached with an error message when not.
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	assetID := c.Param("assetID")

	fetch := resolveFetch(c, h.connectivity)
	final := drain(h.engine.GetExchangeRate(c.Request.Context(), assetID, fetch))
	if final.Status == domain.StatusError && final.Data == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": final.Message})
		return
	}

	var rate *dto.ExchangeRateResponse
	if final.Data != nil {
		resp := dto.ToExchangeRateResponse(*final.Data)
		rate = &resp
	}
	c.JSON(http.StatusOK, dto.ExchangeRateDetailResponse{ExchangeRate: rate, Error: final.Message})
}
