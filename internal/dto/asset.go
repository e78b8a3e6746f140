package dto

import (
	"github.com/shopspring/decimal"

	"github.com/whitebox/cryptomonitor/internal/core/domain"
)

// AssetResponse is the API shape of a cached asset.
type AssetResponse struct {
	AssetID      string          `json:"assetId"`
	Name         string          `json:"name"`
	TypeIsCrypto int             `json:"typeIsCrypto"`
	IconURL      *string         `json:"iconUrl,omitempty"`
	IsFavourite  bool            `json:"isFavourite"`
	PriceUsd     decimal.Decimal `json:"priceUsd"`
}

// ToAssetResponse converts a domain Asset to its response shape.
func ToAssetResponse(d domain.Asset) AssetResponse {
	return AssetResponse{
		AssetID:      d.AssetID,
		Name:         d.Name,
		TypeIsCrypto: d.TypeIsCrypto,
		IconURL:      d.IconURL,
		IsFavourite:  d.IsFavourite,
		PriceUsd:     d.PriceUsd,
	}
}

// ToAssetResponseSlice converts a slice of domain Assets.
func ToAssetResponseSlice(ds []domain.Asset) []AssetResponse {
	out := make([]AssetResponse, len(ds))
	for i, d := range ds {
		out[i] = ToAssetResponse(d)
	}
	return out
}

// AssetListResponse carries a list result. Error is set when the sync ended
// in an Error envelope; Assets then holds the last-known-good cached data.
type AssetListResponse struct {
	Assets []AssetResponse `json:"assets"`
	Error  string          `json:"error,omitempty"`
}

// AssetDetailResponse carries a single-asset result.
type AssetDetailResponse struct {
	Asset *AssetResponse `json:"asset"`
	Error string         `json:"error,omitempty"`
}

// FavouriteResponse reports the outcome of a favourite mutation.
type FavouriteResponse struct {
	AssetID     string `json:"assetId"`
	IsFavourite bool   `json:"isFavourite"`
}

// AssetIconResponse is the API shape of a resolved icon.
type AssetIconResponse struct {
	AssetID string `json:"assetId"`
	URL     string `json:"url"`
}

// ToAssetIconResponseSlice converts a slice of domain AssetIcons.
func ToAssetIconResponseSlice(ds []domain.AssetIcon) []AssetIconResponse {
	out := make([]AssetIconResponse, len(ds))
	for i, d := range ds {
		out[i] = AssetIconResponse{AssetID: d.AssetID, URL: d.URL}
	}
	return out
}

// AssetIconListResponse carries an icon resolution result.
type AssetIconListResponse struct {
	Icons []AssetIconResponse `json:"icons"`
	Error string              `json:"error,omitempty"`
}
