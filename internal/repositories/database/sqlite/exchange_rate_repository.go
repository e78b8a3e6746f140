package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/whitebox/cryptomonitor/internal/apperrors"
	"github.com/whitebox/cryptomonitor/internal/core/domain"
	portsrepo "github.com/whitebox/cryptomonitor/internal/core/ports/repositories"
	"github.com/whitebox/cryptomonitor/internal/models"
	"github.com/whitebox/cryptomonitor/internal/utils/mapping"
)

// ExchangeRateRepository implements the ExchangeRateRepository port on SQLite.
type ExchangeRateRepository struct {
	db *sql.DB
}

// Ensure implementation matches interface
var _ portsrepo.ExchangeRateRepository = (*ExchangeRateRepository)(nil)

// FindExchangeRate retrieves the cached rate for a base asset.
func (r *ExchangeRateRepository) FindExchangeRate(ctx context.Context, assetIDBase string) (*domain.ExchangeRate, error) {
	const q = `SELECT asset_id_base, asset_id_quote, rate, time FROM exchange_rates WHERE asset_id_base = ?`

	var m models.ExchangeRate
	err := r.db.QueryRowContext(ctx, q, assetIDBase).Scan(
		&m.AssetIDBase, &m.AssetIDQuote, &m.Rate, &m.Time,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no exchange rate found for " + assetIDBase)
		}
		return nil, fmt.Errorf("finding exchange rate for %q: %w", assetIDBase, err)
	}

	rate := mapping.ToDomainExchangeRate(m)
	return &rate, nil
}

// SaveExchangeRate inserts or replaces the rate row for its base asset.
func (r *ExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)

	const q = `
		INSERT INTO exchange_rates (asset_id_base, asset_id_quote, rate, time)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(asset_id_base) DO UPDATE SET
			asset_id_quote = excluded.asset_id_quote,
			rate           = excluded.rate,
			time           = excluded.time`

	if _, err := r.db.ExecContext(ctx, q, m.AssetIDBase, m.AssetIDQuote, m.Rate, m.Time); err != nil {
		return fmt.Errorf("saving exchange rate for %q: %w", m.AssetIDBase, err)
	}
	return nil
}
