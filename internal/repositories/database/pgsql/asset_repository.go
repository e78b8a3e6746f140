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

// PgxAssetRepository implements the AssetRepository port using pgxpool.
type PgxAssetRepository struct {
	BaseRepository
}

// NewPgxAssetRepository creates a new PgxAssetRepository.
func NewPgxAssetRepository(db *pgxpool.Pool) *PgxAssetRepository {
	return &PgxAssetRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Ensure implementation matches interface
var _ portsrepo.AssetRepository = (*PgxAssetRepository)(nil)

const assetColumns = `asset_id, name, type_is_crypto, icon_url, is_favourite, price_usd`

// ListAssets retrieves every cached asset.
func (r *PgxAssetRepository) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY asset_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query assets", err)
	}
	defer rows.Close()

	modelAssets, err := pgx.CollectRows(rows, scanAsset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect asset rows", err)
	}

	return mapping.ToDomainAssetSlice(modelAssets), nil
}

// FindAssetByID retrieves a cached asset by its natural key.
func (r *PgxAssetRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE asset_id = $1;`

	var m models.Asset
	err := r.Pool.QueryRow(ctx, query, assetID).Scan(
		&m.AssetID, &m.Name, &m.TypeIsCrypto, &m.IconURL, &m.IsFavourite, &m.PriceUsd,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("asset " + assetID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find asset by id", err)
	}

	asset := mapping.ToDomainAsset(m)
	return &asset, nil
}

// SearchAssets retrieves cached assets whose id contains the substring,
// case-insensitively.
func (r *PgxAssetRepository) SearchAssets(ctx context.Context, substring string) ([]domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE asset_id ILIKE '%' || $1 || '%' ORDER BY asset_id;`

	rows, err := r.Pool.Query(ctx, query, substring)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to search assets", err)
	}
	defer rows.Close()

	modelAssets, err := pgx.CollectRows(rows, scanAsset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect asset rows", err)
	}

	return mapping.ToDomainAssetSlice(modelAssets), nil
}

// ListFavouriteAssets retrieves cached assets flagged as favourites.
func (r *PgxAssetRepository) ListFavouriteAssets(ctx context.Context) ([]domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE is_favourite ORDER BY asset_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query favourite assets", err)
	}
	defer rows.Close()

	modelAssets, err := pgx.CollectRows(rows, scanAsset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect asset rows", err)
	}

	return mapping.ToDomainAssetSlice(modelAssets), nil
}

// UpsertAssets inserts assets not already cached. Conflicts on asset_id are
// ignored so a refresh never clobbers favourite flags or resolved icon URLs.
func (r *PgxAssetRepository) UpsertAssets(ctx context.Context, assets []domain.Asset) error {
	if len(assets) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO assets (asset_id, name, type_is_crypto, icon_url, is_favourite, price_usd)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (asset_id) DO NOTHING;
	`
	for _, asset := range mapping.ToModelAssetSlice(assets) {
		_, err := tx.Exec(ctx, query,
			asset.AssetID, asset.Name, asset.TypeIsCrypto, asset.IconURL, asset.IsFavourite, asset.PriceUsd,
		)
		if err != nil {
			_ = r.Rollback(ctx, tx)
			return apperrors.NewAppError(500, "failed to upsert asset "+asset.AssetID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// SetFavourite flips the favourite flag with a row-level update, so it
// cannot race-overwrite a concurrent icon fill on the same row.
func (r *PgxAssetRepository) SetFavourite(ctx context.Context, assetID string, favourite bool) error {
	query := `UPDATE assets SET is_favourite = $2 WHERE asset_id = $1;`
	if _, err := r.Pool.Exec(ctx, query, assetID, favourite); err != nil {
		return apperrors.NewAppError(500, "failed to update favourite flag for "+assetID, err)
	}
	return nil
}

// SetIconURLIfEmpty fills the icon URL only when it is currently NULL.
func (r *PgxAssetRepository) SetIconURLIfEmpty(ctx context.Context, assetID, iconURL string) error {
	query := `UPDATE assets SET icon_url = $2 WHERE asset_id = $1 AND icon_url IS NULL;`
	if _, err := r.Pool.Exec(ctx, query, assetID, iconURL); err != nil {
		return apperrors.NewAppError(500, "failed to set icon url for "+assetID, err)
	}
	return nil
}

// scanAsset adapts a pgx row to the model shape for pgx.CollectRows.
func scanAsset(row pgx.CollectableRow) (models.Asset, error) {
	var m models.Asset
	err := row.Scan(&m.AssetID, &m.Name, &m.TypeIsCrypto, &m.IconURL, &m.IsFavourite, &m.PriceUsd)
	return m, err
}
