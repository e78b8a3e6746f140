package domain

import "github.com/shopspring/decimal"

// Asset represents a tradable instrument tracked by the catalog.
// AssetID is the natural key ("BTC", "ETH", ...).
type Asset struct {
	AssetID      string          `json:"assetId"`
	Name         string          `json:"name"`
	TypeIsCrypto int             `json:"typeIsCrypto"` // 1 = cryptocurrency, 0 = fiat/other
	IconURL      *string         `json:"iconUrl,omitempty"`
	IsFavourite  bool            `json:"isFavourite"`
	PriceUsd     decimal.Decimal `json:"priceUsd"`
}

// IsCrypto reports whether the asset is a cryptocurrency (as opposed to a
// fiat or reference entry from the source feed).
func (a Asset) IsCrypto() bool {
	return a.TypeIsCrypto == 1
}

// AssetIcon is a transient (assetId, url) pair produced by the remote icon
// endpoint. It is never persisted on its own; it only patches Asset.IconURL.
type AssetIcon struct {
	AssetID string `json:"assetId"`
	URL     string `json:"url"`
}
