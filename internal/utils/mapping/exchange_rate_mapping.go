package mapping

import (
	"github.com/whitebox/cryptomonitor/internal/core/domain"
	"github.com/whitebox/cryptomonitor/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		AssetIDBase:  d.AssetIDBase,
		AssetIDQuote: d.AssetIDQuote,
		Rate:         d.Rate,
		Time:         d.Time,
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		AssetIDBase:  m.AssetIDBase,
		AssetIDQuote: m.AssetIDQuote,
		Rate:         m.Rate,
		Time:         m.Time,
	}
}
