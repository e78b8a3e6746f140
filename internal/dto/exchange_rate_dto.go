package dto

import "github.com/whitebox/cryptomonitor/internal/core/domain"

// ExchangeRateResponse is the API shape of a cached exchange rate.
type ExchangeRateResponse struct {
	AssetIDBase  string  `json:"assetIdBase"`
	AssetIDQuote string  `json:"assetIdQuote"`
	Rate         float64 `json:"rate"`
	Time         string  `json:"time"`
}

// ToExchangeRateResponse converts a domain ExchangeRate to its response shape.
func ToExchangeRateResponse(d domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		AssetIDBase:  d.AssetIDBase,
		AssetIDQuote: d.AssetIDQuote,
		Rate:         d.Rate,
		Time:         d.Time,
	}
}

// ExchangeRateDetailResponse carries an exchange-rate result.
type ExchangeRateDetailResponse struct {
	ExchangeRate *ExchangeRateResponse `json:"exchangeRate"`
	Error        string                `json:"error,omitempty"`
}
