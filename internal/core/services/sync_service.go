package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/whitebox/cryptomonitor/internal/apperrors"
	"github.com/whitebox/cryptomonitor/internal/core/domain"
	portsrepo "github.com/whitebox/cryptomonitor/internal/core/ports/repositories"
	portssvc "github.com/whitebox/cryptomonitor/internal/core/ports/services"
)

const noDataFoundMsg = "no data found"

// SyncService is the offline-first sync engine. It reconciles the local
// cache with the remote source and streams Result envelopes: Loading first,
// optionally an interim Success with stale cached data, then exactly one
// terminal Success or Error. Cached data is the fallback payload on every
// failure path and is never discarded because of a remote error.
type SyncService struct {
	assetRepo portsrepo.AssetRepository
	rateRepo  portsrepo.ExchangeRateRepository
	remote    portsrepo.RemoteAssetSource
	logger    *slog.Logger
}

// NewSyncService creates a new SyncService.
func NewSyncService(
	assetRepo portsrepo.AssetRepository,
	rateRepo portsrepo.ExchangeRateRepository,
	remote portsrepo.RemoteAssetSource,
	logger *slog.Logger,
) *SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncService{
		assetRepo: assetRepo,
		rateRepo:  rateRepo,
		remote:    remote,
		logger:    logger,
	}
}

// Ensure implementation matches interface
var _ portssvc.SyncSvcFacade = (*SyncService)(nil)

// GetAssets streams the asset catalog. With fetchFromRemote the cached list
// is surfaced immediately and then refreshed from the remote source;
// otherwise the cache alone decides between Success and Error.
func (s *SyncService) GetAssets(ctx context.Context, fetchFromRemote bool) <-chan domain.Result[[]domain.Asset] {
	out := make(chan domain.Result[[]domain.Asset])
	go func() {
		defer close(out)

		cached := s.readCachedAssets(ctx, "GetAssets")
		if !emit(ctx, out, domain.NewLoading(cached)) {
			return
		}

		if !fetchFromRemote {
			if len(cached) > 0 {
				emit(ctx, out, domain.NewSuccess(cached))
			} else {
				emit(ctx, out, domain.NewError(noDataFoundMsg, cached))
			}
			return
		}

		if len(cached) > 0 {
			// Stale data first, so the consumer renders without waiting on the network.
			if !emit(ctx, out, domain.NewSuccess(cached)) {
				return
			}
		}

		remoteAssets, err := s.remote.GetAssets(ctx)
		if err != nil {
			emit(ctx, out, domain.NewError(remoteErrorMessage(err, "an error occurred while fetching assets"), cached))
			return
		}

		// Fiat and reference entries from the feed never enter the catalog.
		crypto := make([]domain.Asset, 0, len(remoteAssets))
		for _, a := range remoteAssets {
			if a.IsCrypto() {
				crypto = append(crypto, a)
			}
		}

		// The write completes even if the consumer stops observing mid-sequence.
		if err := s.assetRepo.UpsertAssets(context.WithoutCancel(ctx), crypto); err != nil {
			s.logger.Error("failed to upsert assets", slog.String("error", err.Error()))
			emit(ctx, out, domain.NewError("an error occurred while caching assets", cached))
			return
		}

		updated, err := s.assetRepo.ListAssets(ctx)
		if err != nil {
			s.logger.Error("failed to re-read assets after upsert", slog.String("error", err.Error()))
			emit(ctx, out, domain.NewError("an error occurred while reading cached assets", cached))
			return
		}
		emit(ctx, out, domain.NewSuccess(updated))
	}()
	return out
}

// GetAsset streams a single asset by its natural key, following the same
// cache-then-remote protocol as GetAssets.
func (s *SyncService) GetAsset(ctx context.Context, assetID string, fetchFromRemote bool) <-chan domain.Result[*domain.Asset] {
	out := make(chan domain.Result[*domain.Asset])
	go func() {
		defer close(out)

		var cached *domain.Asset
		found, err := s.assetRepo.FindAssetByID(ctx, assetID)
		switch {
		case err == nil:
			cached = found
		case errors.Is(err, apperrors.ErrNotFound):
			// Empty cache for this id; the remote branch may still fill it.
		default:
			s.logger.Error("GetAsset: cache read failed", slog.String("asset_id", assetID), slog.String("error", err.Error()))
		}

		if !emit(ctx, out, domain.NewLoading(cached)) {
			return
		}

		if !fetchFromRemote {
			if cached != nil {
				emit(ctx, out, domain.NewSuccess(cached))
			} else {
				emit(ctx, out, domain.NewError[*domain.Asset](noDataFoundMsg, nil))
			}
			return
		}

		if cached != nil {
			if !emit(ctx, out, domain.NewSuccess(cached)) {
				return
			}
		}

		remoteAsset, err := s.remote.GetAssetDetails(ctx, assetID)
		if err != nil {
			emit(ctx, out, domain.NewError(remoteErrorMessage(err, "an error occurred while fetching asset details"), cached))
			return
		}

		if err := s.assetRepo.UpsertAssets(context.WithoutCancel(ctx), []domain.Asset{*remoteAsset}); err != nil {
			s.logger.Error("failed to upsert asset", slog.String("asset_id", assetID), slog.String("error", err.Error()))
			emit(ctx, out, domain.NewError("an error occurred while caching asset details", cached))
			return
		}

		refreshed, err := s.assetRepo.FindAssetByID(ctx, assetID)
		if err != nil {
			emit(ctx, out, domain.NewError("an error occurred while reading cached asset details", cached))
			return
		}
		emit(ctx, out, domain.NewSuccess(refreshed))
	}()
	return out
}

// GetAssetIcons fetches the icon URL list for a size token and patches the
// URLs into cached assets with fill-once semantics. Icon persistence is a
// side effect that runs to completion regardless of whether the consumer is
// still observing.
func (s *SyncService) GetAssetIcons(ctx context.Context, size string) <-chan domain.Result[[]domain.AssetIcon] {
	out := make(chan domain.Result[[]domain.AssetIcon])
	go func() {
		defer close(out)

		if !emit(ctx, out, domain.NewLoading([]domain.AssetIcon{})) {
			return
		}

		icons, err := s.remote.GetAssetIcons(ctx, size)
		if err != nil {
			emit(ctx, out, domain.NewError(remoteErrorMessage(err, "an error occurred while fetching asset icons"), []domain.AssetIcon{}))
			return
		}
		emit(ctx, out, domain.NewSuccess(icons))

		// One UPDATE per icon; each is an atomic fill-once write, so a
		// concurrent favourite toggle can never be clobbered.
		wctx := context.WithoutCancel(ctx)
		for _, icon := range icons {
			if err := s.assetRepo.SetIconURLIfEmpty(wctx, icon.AssetID, icon.URL); err != nil {
				s.logger.Warn("failed to set icon url",
					slog.String("asset_id", icon.AssetID), slog.String("error", err.Error()))
			}
		}
	}()
	return out
}

// GetExchangeRate streams the EUR rate for a base asset. Unlike assets, a
// fresh rate replaces the cached row outright.
func (s *SyncService) GetExchangeRate(ctx context.Context, assetID string, fetchFromRemote bool) <-chan domain.Result[*domain.ExchangeRate] {
	out := make(chan domain.Result[*domain.ExchangeRate])
	go func() {
		defer close(out)

		var cached *domain.ExchangeRate
		found, err := s.rateRepo.FindExchangeRate(ctx, assetID)
		switch {
		case err == nil:
			cached = found
		case errors.Is(err, apperrors.ErrNotFound):
		default:
			s.logger.Error("GetExchangeRate: cache read failed", slog.String("asset_id", assetID), slog.String("error", err.Error()))
		}

		if !emit(ctx, out, domain.NewLoading(cached)) {
			return
		}

		if !fetchFromRemote {
			if cached != nil {
				emit(ctx, out, domain.NewSuccess(cached))
			} else {
				emit(ctx, out, domain.NewError[*domain.ExchangeRate](noDataFoundMsg, nil))
			}
			return
		}

		if cached != nil {
			if !emit(ctx, out, domain.NewSuccess(cached)) {
				return
			}
		}

		remoteRate, err := s.remote.GetExchangeRate(ctx, assetID)
		if err != nil {
			emit(ctx, out, domain.NewError(remoteErrorMessage(err, "an error occurred while fetching exchange rate"), cached))
			return
		}

		if err := s.rateRepo.SaveExchangeRate(context.WithoutCancel(ctx), *remoteRate); err != nil {
			s.logger.Error("failed to save exchange rate", slog.String("asset_id", assetID), slog.String("error", err.Error()))
			emit(ctx, out, domain.NewError("an error occurred while caching exchange rate", cached))
			return
		}

		refreshed, err := s.rateRepo.FindExchangeRate(ctx, assetID)
		if err != nil {
			emit(ctx, out, domain.NewError("an error occurred while reading cached exchange rate", cached))
			return
		}
		emit(ctx, out, domain.NewSuccess(refreshed))
	}()
	return out
}

// GetFavouriteAssets streams the favourite subset of the cache. An empty
// result is Success with an empty payload.
func (s *SyncService) GetFavouriteAssets(ctx context.Context) <-chan domain.Result[[]domain.Asset] {
	out := make(chan domain.Result[[]domain.Asset])
	go func() {
		defer close(out)
		if !emit(ctx, out, domain.NewLoading([]domain.Asset{})) {
			return
		}
		favourites, err := s.assetRepo.ListFavouriteAssets(ctx)
		if err != nil {
			s.logger.Error("GetFavouriteAssets: cache read failed", slog.String("error", err.Error()))
			emit(ctx, out, domain.NewError("an error occurred while reading favourite assets", []domain.Asset{}))
			return
		}
		emit(ctx, out, domain.NewSuccess(favourites))
	}()
	return out
}

// SearchAssets streams cached assets whose id contains the substring. A
// miss is Success with an empty payload, consistent with list semantics.
func (s *SyncService) SearchAssets(ctx context.Context, substring string) <-chan domain.Result[[]domain.Asset] {
	out := make(chan domain.Result[[]domain.Asset])
	go func() {
		defer close(out)
		if !emit(ctx, out, domain.NewLoading([]domain.Asset{})) {
			return
		}
		matches, err := s.assetRepo.SearchAssets(ctx, substring)
		if err != nil {
			s.logger.Error("SearchAssets: cache read failed", slog.String("error", err.Error()))
			emit(ctx, out, domain.NewError("an error occurred while searching for assets", []domain.Asset{}))
			return
		}
		emit(ctx, out, domain.NewSuccess(matches))
	}()
	return out
}

// AddFavouriteAsset flags an existing cached asset as favourite. Returns
// false when the asset is not cached; no placeholder row is created.
func (s *SyncService) AddFavouriteAsset(ctx context.Context, assetID string) bool {
	return s.setFavourite(ctx, assetID, true)
}

// RemoveFavouriteAsset clears the favourite flag of an existing cached asset.
func (s *SyncService) RemoveFavouriteAsset(ctx context.Context, assetID string) bool {
	return s.setFavourite(ctx, assetID, false)
}

func (s *SyncService) setFavourite(ctx context.Context, assetID string, favourite bool) bool {
	if _, err := s.assetRepo.FindAssetByID(ctx, assetID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Error("setFavourite: cache lookup failed", slog.String("asset_id", assetID), slog.String("error", err.Error()))
		}
		return false
	}
	if err := s.assetRepo.SetFavourite(ctx, assetID, favourite); err != nil {
		s.logger.Error("setFavourite: update failed", slog.String("asset_id", assetID), slog.String("error", err.Error()))
		return false
	}
	return true
}

// readCachedAssets degrades a cache-read failure to an empty list, per the
// offline-first contract: storage trouble must not abort a sync operation.
func (s *SyncService) readCachedAssets(ctx context.Context, op string) []domain.Asset {
	cached, err := s.assetRepo.ListAssets(ctx)
	if err != nil {
		s.logger.Error(op+": cache read failed", slog.String("error", err.Error()))
		return []domain.Asset{}
	}
	return cached
}

// emit delivers an envelope unless the consumer has gone away.
func emit[T any](ctx context.Context, out chan<- domain.Result[T], r domain.Result[T]) bool {
	select {
	case out <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// remoteErrorMessage extracts the structured error message from a protocol
// failure, falling back to the transport error text.
func remoteErrorMessage(err error, fallback string) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
