package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/whitebox/cryptomonitor/internal/apperrors"
	"github.com/whitebox/cryptomonitor/internal/core/domain"
	portsrepo "github.com/whitebox/cryptomonitor/internal/core/ports/repositories"
	"github.com/whitebox/cryptomonitor/internal/models"
	"github.com/whitebox/cryptomonitor/internal/utils/mapping"
)

// PgxExchangeRateRepository implements the ExchangeRateRepository port using
// pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// NewPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func NewPgxExchangeRateRepository(db *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ExchangeRateRepository = (*PgxExchangeRateRepository)(nil)

// FindExchangeRate retrieves the cached rate for a base asset.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, assetIDBase string) (*domain.ExchangeRate, error) {
	query := `
		SELECT asset_id_base, asset_id_quote, rate, time
		FROM exchange_rates
		WHERE asset_id_base = $1;
	`

	var m models.ExchangeRate
	err := r.Pool.QueryRow(ctx, query, assetIDBase).Scan(
		&m.AssetIDBase, &m.AssetIDQuote, &m.Rate, &m.Time,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no exchange rate found for " + assetIDBase)
		}
		return nil, apperrors.NewAppError(500, "failed to find exchange rate", err)
	}

	rate := mapping.ToDomainExchangeRate(m)
	return &rate, nil
}

// SaveExchangeRate inserts or replaces the rate row for its base asset. The
// rate is always refreshed to the latest value, unlike the ignore-on-conflict
// policy used for assets.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)

	query := `
		INSERT INTO exchange_rates (asset_id_base, asset_id_quote, rate, time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (asset_id_base) DO UPDATE SET
			asset_id_quote = EXCLUDED.asset_id_quote,
			rate = EXCLUDED.rate,
			time = EXCLUDED.time;
	`
	_, err := r.Pool.Exec(ctx, query, m.AssetIDBase, m.AssetIDQuote, m.Rate, m.Time)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save exchange rate for "+m.AssetIDBase, err)
	}
	return nil
}
