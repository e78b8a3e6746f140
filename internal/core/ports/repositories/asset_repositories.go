package repositories

import (
	"context"

	"github.com/whitebox/cryptomonitor/internal/core/domain"
)

// AssetRepository is the cache store contract for asset rows.
//
// Implementations must map their driver's "no rows" condition to
// apperrors.ErrNotFound, and must perform flag and icon mutations as
// row-level UPDATE statements rather than read-modify-write of whole
// records, so concurrent icon fan-out writes and favourite toggles on the
// same row cannot lose updates.
type AssetRepository interface {
	// ListAssets returns every cached asset. An empty cache yields an empty
	// slice, not an error.
	ListAssets(ctx context.Context) ([]domain.Asset, error)

	// FindAssetByID returns the cached asset with the given natural key, or
	// apperrors.ErrNotFound.
	FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error)

	// SearchAssets returns cached assets whose assetID contains the given
	// substring (case-insensitive).
	SearchAssets(ctx context.Context, substring string) ([]domain.Asset, error)

	// ListFavouriteAssets returns cached assets flagged as favourites.
	ListFavouriteAssets(ctx context.Context) ([]domain.Asset, error)

	// UpsertAssets inserts assets not already present. Existing rows are left
	// untouched (ignore-on-duplicate-key): a catalog refresh never clobbers a
	// locally set favourite flag or a resolved icon URL.
	UpsertAssets(ctx context.Context, assets []domain.Asset) error

	// SetFavourite sets or clears the favourite flag of an existing row.
	// Updating an absent row is not an error here; the engine verifies
	// existence beforehand.
	SetFavourite(ctx context.Context, assetID string, favourite bool) error

	// SetIconURLIfEmpty fills the icon URL of the given asset only when it is
	// currently unset. A previously resolved icon is never overwritten.
	SetIconURLIfEmpty(ctx context.Context, assetID, iconURL string) error
}
