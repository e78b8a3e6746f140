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

// AssetRepository implements the AssetRepository port on SQLite.
type AssetRepository struct {
	db *sql.DB
}

// Ensure implementation matches interface
var _ portsrepo.AssetRepository = (*AssetRepository)(nil)

const assetColumns = `asset_id, name, type_is_crypto, icon_url, is_favourite, price_usd`

// ListAssets retrieves every cached asset.
func (r *AssetRepository) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	const q = `SELECT ` + assetColumns + ` FROM assets ORDER BY asset_id`
	return r.queryAssets(ctx, q)
}

// FindAssetByID retrieves a cached asset by its natural key.
func (r *AssetRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	const q = `SELECT ` + assetColumns + ` FROM assets WHERE asset_id = ?`

	var m models.Asset
	err := r.db.QueryRowContext(ctx, q, assetID).Scan(
		&m.AssetID, &m.Name, &m.TypeIsCrypto, &m.IconURL, &m.IsFavourite, &m.PriceUsd,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("asset " + assetID + " not found")
		}
		return nil, fmt.Errorf("finding asset %q: %w", assetID, err)
	}

	asset := mapping.ToDomainAsset(m)
	return &asset, nil
}

// SearchAssets retrieves cached assets whose id contains the substring.
// SQLite's LIKE is case-insensitive for ASCII, matching the Postgres ILIKE
// behaviour for asset ids.
func (r *AssetRepository) SearchAssets(ctx context.Context, substring string) ([]domain.Asset, error) {
	const q = `SELECT ` + assetColumns + ` FROM assets WHERE asset_id LIKE '%' || ? || '%' ORDER BY asset_id`
	return r.queryAssets(ctx, q, substring)
}

// ListFavouriteAssets retrieves cached assets flagged as favourites.
func (r *AssetRepository) ListFavouriteAssets(ctx context.Context) ([]domain.Asset, error) {
	const q = `SELECT ` + assetColumns + ` FROM assets WHERE is_favourite = 1 ORDER BY asset_id`
	return r.queryAssets(ctx, q)
}

// UpsertAssets inserts assets not already cached (ignore-on-duplicate-key).
func (r *AssetRepository) UpsertAssets(ctx context.Context, assets []domain.Asset) error {
	if len(assets) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning upsert transaction: %w", err)
	}

	const q = `
		INSERT INTO assets (asset_id, name, type_is_crypto, icon_url, is_favourite, price_usd)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(asset_id) DO NOTHING`

	for _, asset := range mapping.ToModelAssetSlice(assets) {
		_, err := tx.ExecContext(ctx, q,
			asset.AssetID, asset.Name, asset.TypeIsCrypto, asset.IconURL, asset.IsFavourite, asset.PriceUsd,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upserting asset %q: %w", asset.AssetID, err)
		}
	}

	return tx.Commit()
}

// SetFavourite flips the favourite flag with a row-level update.
func (r *AssetRepository) SetFavourite(ctx context.Context, assetID string, favourite bool) error {
	const q = `UPDATE assets SET is_favourite = ? WHERE asset_id = ?`
	if _, err := r.db.ExecContext(ctx, q, favourite, assetID); err != nil {
		return fmt.Errorf("updating favourite flag for %q: %w", assetID, err)
	}
	return nil
}

// SetIconURLIfEmpty fills the icon URL only when it is currently NULL.
func (r *AssetRepository) SetIconURLIfEmpty(ctx context.Context, assetID, iconURL string) error {
	const q = `UPDATE assets SET icon_url = ? WHERE asset_id = ? AND icon_url IS NULL`
	if _, err := r.db.ExecContext(ctx, q, iconURL, assetID); err != nil {
		return fmt.Errorf("setting icon url for %q: %w", assetID, err)
	}
	return nil
}

func (r *AssetRepository) queryAssets(ctx context.Context, query string, args ...any) ([]domain.Asset, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var modelAssets []models.Asset
	for rows.Next() {
		var m models.Asset
		if err := rows.Scan(&m.AssetID, &m.Name, &m.TypeIsCrypto, &m.IconURL, &m.IsFavourite, &m.PriceUsd); err != nil {
			return nil, fmt.Errorf("scanning asset row: %w", err)
		}
		modelAssets = append(modelAssets, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating asset rows: %w", err)
	}

	return mapping.ToDomainAssetSlice(modelAssets), nil
}
