package repositories

import (
	"context"

	"github.com/whitebox/cryptomonitor/internal/core/domain"
)

// RemoteAssetSource fetches authoritative asset data from the remote REST
// API. Transport concerns (auth header, timeouts, retries) live behind this
// interface; the sync engine only distinguishes protocol errors carrying a
// structured message from plain transport failures.
type RemoteAssetSource interface {
	// GetAssets fetches the full asset list, fiat entries included.
	GetAssets(ctx context.Context) ([]domain.Asset, error)

	// GetAssetDetails fetches a single asset. The source sometimes wraps the
	// object in a one-element array; implementations normalize that away.
	GetAssetDetails(ctx context.Context, assetID string) (*domain.Asset, error)

	// GetAssetIcons fetches the icon URL list for a size token ("32", "64", "128").
	GetAssetIcons(ctx context.Context, size string) ([]domain.AssetIcon, error)

	// GetExchangeRate fetches the rate of the base asset against the fixed
	// quote currency.
	GetExchangeRate(ctx context.Context, assetIDBase string) (*domain.ExchangeRate, error)
}
