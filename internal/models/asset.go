package models

import "github.com/shopspring/decimal"

// Asset mirrors a row of the assets cache table.
type Asset struct {
	AssetID      string          `json:"assetId"`  // Primary key (natural key, e.g. "BTC")
	Name         string          `json:"name"`
	TypeIsCrypto int             `json:"typeIsCrypto"` // 1 = crypto, 0 = fiat/other
	IconURL      *string         `json:"iconUrl"`      // nil until an icon resolution fills it
	IsFavourite  bool            `json:"isFavourite"`
	PriceUsd     decimal.Decimal `json:"priceUsd"`
}
