package models

// ExchangeRate mirrors a row of the exchange_rates cache table.
// asset_id_base carries a unique index: one cached rate per base asset.
type ExchangeRate struct {
	AssetIDBase  string  `json:"assetIdBase"`
	AssetIDQuote string  `json:"assetIdQuote"`
	Rate         float64 `json:"rate"`
	Time         string  `json:"time"`
}
