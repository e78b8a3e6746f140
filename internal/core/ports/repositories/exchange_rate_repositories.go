package repositories

import (
	"context"

	"github.com/whitebox/cryptomonitor/internal/core/domain"
)

// ExchangeRateRepository is the cache store contract for exchange rates.
// The cache holds at most one rate per base asset.
type ExchangeRateRepository interface {
	// FindExchangeRate returns the cached rate for the given base asset, or
	// apperrors.ErrNotFound.
	FindExchangeRate(ctx context.Context, assetIDBase string) (*domain.ExchangeRate, error)

	// SaveExchangeRate inserts or replaces the rate row for its base asset
	// (replace-on-conflict: the rate is always refreshed to the latest value).
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}
