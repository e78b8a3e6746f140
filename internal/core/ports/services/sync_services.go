package services

import (
	"context"

	"github.com/whitebox/cryptomonitor/internal/core/domain"
)

// SyncSvcFacade is the sync engine surface consumed by handlers and the
// background refresher.
//
// Streaming operations return a channel of Result envelopes. The sequence
// starts with a Loading envelope, may contain one interim Success carrying
// stale cached data, and ends with exactly one terminal Success or Error,
// after which the channel is closed. Cancelling ctx stops emission promptly;
// cache writes already started are allowed to complete.
type SyncSvcFacade interface {
	GetAssets(ctx context.Context, fetchFromRemote bool) <-chan domain.Result[[]domain.Asset]
	GetAsset(ctx context.Context, assetID string, fetchFromRemote bool) <-chan domain.Result[*domain.Asset]
	GetAssetIcons(ctx context.Context, size string) <-chan domain.Result[[]domain.AssetIcon]
	GetExchangeRate(ctx context.Context, assetID string, fetchFromRemote bool) <-chan domain.Result[*domain.ExchangeRate]
	GetFavouriteAssets(ctx context.Context) <-chan domain.Result[[]domain.Asset]
	SearchAssets(ctx context.Context, substring string) <-chan domain.Result[[]domain.Asset]

	// AddFavouriteAsset and RemoveFavouriteAsset act on already-local data and
	// report success as a bool: false means the asset is not in the cache (no
	// placeholder row is ever created).
	AddFavouriteAsset(ctx context.Context, assetID string) bool
	RemoveFavouriteAsset(ctx context.Context, assetID string) bool
}
