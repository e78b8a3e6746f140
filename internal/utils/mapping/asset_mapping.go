package mapping

import (
	"github.com/whitebox/cryptomonitor/internal/core/domain"
	"github.com/whitebox/cryptomonitor/internal/models"
)

// ToModelAsset converts a domain Asset to a model Asset
func ToModelAsset(d domain.Asset) models.Asset {
	return models.Asset{
		AssetID:      d.AssetID,
		Name:         d.Name,
		TypeIsCrypto: d.TypeIsCrypto,
		IconURL:      d.IconURL,
		IsFavourite:  d.IsFavourite,
		PriceUsd:     d.PriceUsd,
	}
}

// ToDomainAsset converts a model Asset to a domain Asset
func ToDomainAsset(m models.Asset) domain.Asset {
	return domain.Asset{
		AssetID:      m.AssetID,
		Name:         m.Name,
		TypeIsCrypto: m.TypeIsCrypto,
		IconURL:      m.IconURL,
		IsFavourite:  m.IsFavourite,
		PriceUsd:     m.PriceUsd,
	}
}

// ToDomainAssetSlice converts a slice of model Assets to domain Assets.
// Always returns a non-nil slice so callers can treat "no rows" as an empty
// payload rather than a missing one.
func ToDomainAssetSlice(ms []models.Asset) []domain.Asset {
	out := make([]domain.Asset, len(ms))
	for i, m := range ms {
		out[i] = ToDomainAsset(m)
	}
	return out
}

// ToModelAssetSlice converts a slice of domain Assets to model Assets.
func ToModelAssetSlice(ds []domain.Asset) []models.Asset {
	out := make([]models.Asset, len(ds))
	for i, d := range ds {
		out[i] = ToModelAsset(d)
	}
	return out
}
