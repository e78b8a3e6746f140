package domain

// ExchangeRate stores the conversion rate from a base asset to the system's
// fixed quote currency. The cache keeps at most one row per base asset; a
// fresh fetch replaces the prior row.
type ExchangeRate struct {
	AssetIDBase  string  `json:"assetIdBase"`
	AssetIDQuote string  `json:"assetIdQuote"`
	Rate         float64 `json:"rate"`
	Time         string  `json:"time"` // ISO-8601 timestamp as delivered by the source
}
