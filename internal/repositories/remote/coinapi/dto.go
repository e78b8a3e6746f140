package coinapi

import (
	"github.com/shopspring/decimal"

	"github.com/whitebox/cryptomonitor/internal/core/domain"
)

// assetDto is the wire shape of an asset record. The volume and history
// fields are delivered by the source but not used by the sync layer.
type assetDto struct {
	AssetID            string          `json:"asset_id"`
	Name               string          `json:"name"`
	TypeIsCrypto       int             `json:"type_is_crypto"`
	PriceUsd           decimal.Decimal `json:"price_usd"`
	IDIcon             string          `json:"id_icon"`
	DataStart          string          `json:"data_start"`
	DataEnd            string          `json:"data_end"`
	DataQuoteStart     string          `json:"data_quote_start"`
	DataQuoteEnd       string          `json:"data_quote_end"`
	DataOrderbookStart string          `json:"data_orderbook_start"`
	DataOrderbookEnd   string          `json:"data_orderbook_end"`
	DataTradeStart     string          `json:"data_trade_start"`
	DataTradeEnd       string          `json:"data_trade_end"`
	DataSymbolsCount   int             `json:"data_symbols_count"`
	Volume1HrsUsd      decimal.Decimal `json:"volume_1hrs_usd"`
	Volume1DayUsd      decimal.Decimal `json:"volume_1day_usd"`
	Volume1MthUsd      decimal.Decimal `json:"volume_1mth_usd"`
}

func (d assetDto) toDomain() domain.Asset {
	return domain.Asset{
		AssetID:      d.AssetID,
		Name:         d.Name,
		TypeIsCrypto: d.TypeIsCrypto,
		PriceUsd:     d.PriceUsd,
	}
}

type assetIconDto struct {
	AssetID string `json:"asset_id"`
	URL     string `json:"url"`
}

func (d assetIconDto) toDomain() domain.AssetIcon {
	return domain.AssetIcon{AssetID: d.AssetID, URL: d.URL}
}

type exchangeRateDto struct {
	AssetIDBase  string  `json:"asset_id_base"`
	AssetIDQuote string  `json:"asset_id_quote"`
	Rate         float64 `json:"rate"`
	Time         string  `json:"time"`
}

func (d exchangeRateDto) toDomain() domain.ExchangeRate {
	return domain.ExchangeRate{
		AssetIDBase:  d.AssetIDBase,
		AssetIDQuote: d.AssetIDQuote,
		Rate:         d.Rate,
		Time:         d.Time,
	}
}

// errorResponse is the structured error body the source attaches to non-2xx
// replies.
type errorResponse struct {
	Error string `json:"error"`
}
