package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/whitebox/cryptomonitor/internal/core/domain"
	portssvc "github.com/whitebox/cryptomonitor/internal/core/ports/services"
	"github.com/whitebox/cryptomonitor/internal/dto"
	"github.com/whitebox/cryptomonitor/internal/middleware"
)

// assetHandler handles HTTP requests for the asset catalog.
type assetHandler struct {
	engine       portssvc.SyncSvcFacade
	connectivity portssvc.ConnectivitySvcFacade
}

// newAssetHandler creates a new assetHandler.
func newAssetHandler(engine portssvc.SyncSvcFacade, connectivity portssvc.ConnectivitySvcFacade) *assetHandler {
	return &assetHandler{engine: engine, connectivity: connectivity}
}

// registerAssetRoutes registers catalog, favourites, search, and icon routes.
// requireAuth guards the mutating favourite endpoints.
func registerAssetRoutes(rg *gin.RouterGroup, engine portssvc.SyncSvcFacade, connectivity portssvc.ConnectivitySvcFacade, requireAuth gin.HandlerFunc) {
	h := newAssetHandler(engine, connectivity)

	assets := rg.Group("/assets")
	{
		assets.GET("", h.getAssets)
		assets.GET("/:assetID", h.getAsset)
	}

	rg.GET("/stream/assets", h.streamAssets)
	rg.GET("/search", h.searchAssets)
	rg.GET("/favourites", h.getFavouriteAssets)
	rg.POST("/favourites/:assetID", requireAuth, h.addFavourite)
	rg.DELETE("/favourites/:assetID", requireAuth, h.removeFavourite)
	rg.GET("/icons/:size", h.getAssetIcons)
}

// getAssets returns the asset catalog as the terminal view of one sync run:
// fresh data when the remote fetch succeeded, the cached catalog plus an
// error message when it did not.
func (h *assetHandler) getAssets(c *gin.Context) {
	fetch := resolveFetch(c, h.connectivity)

	final := drain(h.engine.GetAssets(c.Request.Context(), fetch))
	c.JSON(http.StatusOK, dto.AssetListResponse{
		Assets: dto.ToAssetResponseSlice(final.Data),
		Error:  final.Message,
	})
}

// streamAssets exposes the raw envelope sequence of one sync run as
// server-sent events, one event per envelope.
func (h *assetHandler) streamAssets(c *gin.Context) {
	fetch := resolveFetch(c, h.connectivity)

	c.Header("Cache-Control", "no-cache")
	ch := h.engine.GetAssets(c.Request.Context(), fetch)
	c.Stream(func(w io.Writer) bool {
		res, ok := <-ch
		if !ok {
			return false
		}
		c.SSEvent(string(res.Status), res)
		return true
	})
}

// getAsset returns a single asset by id.
func (h *assetHandler) getAsset(c *gin.Context) {
	assetID := c.Param("assetID")
	fetch := resolveFetch(c, h.connectivity)

	final := drain(h.engine.GetAsset(c.Request.Context(), assetID, fetch))
	if final.Status == domain.StatusError && final.Data == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": final.Message})
		return
	}

	var asset *dto.AssetResponse
	if final.Data != nil {
		resp := dto.ToAssetResponse(*final.Data)
		asset = &resp
	}
	c.JSON(http.StatusOK, dto.AssetDetailResponse{Asset: asset, Error: final.Message})
}

// searchAssets returns cached assets whose id contains the query substring.
func (h *assetHandler) searchAssets(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	final := drain(h.engine.SearchAssets(c.Request.Context(), query))
	c.JSON(http.StatusOK, dto.AssetListResponse{
		Assets: dto.ToAssetResponseSlice(final.Data),
		Error:  final.Message,
	})
}

// getFavouriteAssets returns the favourite subset of the cache.
func (h *assetHandler) getFavouriteAssets(c *gin.Context) {
	final := drain(h.engine.GetFavouriteAssets(c.Request.Context()))
	c.JSON(http.StatusOK, dto.AssetListResponse{
		Assets: dto.ToAssetResponseSlice(final.Data),
		Error:  final.Message,
	})
}

// addFavourite flags a cached asset as favourite.
func (h *assetHandler) addFavourite(c *gin.Context) {
	h.setFavourite(c, true)
}

// removeFavourite clears the favourite flag of a cached asset.
func (h *assetHandler) removeFavourite(c *gin.Context) {
	h.setFavourite(c, false)
}

func (h *assetHandler) setFavourite(c *gin.Context, favourite bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	assetID := c.Param("assetID")

	var ok bool
	if favourite {
		ok = h.engine.AddFavouriteAsset(c.Request.Context(), assetID)
	} else {
		ok = h.engine.RemoveFavouriteAsset(c.Request.Context(), assetID)
	}

	if !ok {
		logger.Warn("favourite mutation on unknown asset", slog.String("asset_id", assetID))
		c.JSON(http.StatusNotFound, gin.H{"error": "asset " + assetID + " is not in the cache"})
		return
	}
	c.JSON(http.StatusOK, dto.FavouriteResponse{AssetID: assetID, IsFavourite: favourite})
}

// iconSizeURI binds the icon size token path segment.
type iconSizeURI struct {
	Size string `uri:"size" binding:"required,sizetoken"`
}

// getAssetIcons resolves icon URLs for a size token and triggers the
// fill-once persistence fan-out.
func (h *assetHandler) getAssetIcons(c *gin.Context) {
	var uri iconSizeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be one of 32, 64, 128"})
		return
	}

	final := drain(h.engine.GetAssetIcons(c.Request.Context(), uri.Size))
	if final.Status == domain.StatusError {
		c.JSON(http.StatusBadGateway, dto.AssetIconListResponse{
			Icons: dto.ToAssetIconResponseSlice(final.Data),
			Error: final.Message,
		})
		return
	}
	c.JSON(http.StatusOK, dto.AssetIconListResponse{
		Icons: dto.ToAssetIconResponseSlice(final.Data),
	})
}

// resolveFetch resolves the refresh decision: an explicit ?refresh query
// wins, otherwise the reachability feed decides (unknown counts as
// reachable, so a fresh boot still tries the network).
func resolveFetch(c *gin.Context, connectivity portssvc.ConnectivitySvcFacade) bool {
	if v, ok := c.GetQuery("refresh"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return connectivity.Status() != domain.NetworkStatusDisconnected
}

// drain consumes an envelope stream and returns its terminal envelope.
func drain[T any](ch <-chan domain.Result[T]) domain.Result[T] {
	var final domain.Result[T]
	for res := range ch {
		final = res
	}
	return final
}
