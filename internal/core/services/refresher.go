package services

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/whitebox/cryptomonitor/internal/core/domain"
	portssvc "github.com/whitebox/cryptomonitor/internal/core/ports/services"
)

// Refresher is the calling layer of the sync engine: it reacts to network
// reachability transitions, runs the asset-list sync, and forks icon
// resolution only after the list sync has succeeded. Transitions are
// debounced so flapping connectivity collapses into one refresh.
type Refresher struct {
	engine       portssvc.SyncSvcFacade
	connectivity portssvc.ConnectivitySvcFacade
	debouncer    *Debouncer
	iconSize     string
	logger       *slog.Logger

	iconsFetched atomic.Bool
}

// NewRefresher creates a Refresher. iconSize is the icon resolution token
// requested after a successful catalog sync.
func NewRefresher(
	engine portssvc.SyncSvcFacade,
	connectivity portssvc.ConnectivitySvcFacade,
	debounce time.Duration,
	iconSize string,
	logger *slog.Logger,
) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		engine:       engine,
		connectivity: connectivity,
		debouncer:    NewDebouncer(debounce),
		iconSize:     iconSize,
		logger:       logger,
	}
}

// Run blocks, refreshing on every connectivity transition until ctx is
// cancelled or the feed closes. Connected triggers a remote sync;
// Disconnected re-serves the cache.
func (r *Refresher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.debouncer.Cancel()
			return
		case status, ok := <-r.connectivity.Updates():
			if !ok {
				r.debouncer.Cancel()
				return
			}
			switch status {
			case domain.NetworkStatusConnected:
				r.debouncer.Call(ctx, func(cctx context.Context) { r.Refresh(cctx, true) })
			case domain.NetworkStatusDisconnected:
				r.debouncer.Call(ctx, func(cctx context.Context) { r.Refresh(cctx, false) })
			}
		}
	}
}

// Refresh drains one asset-list sync and, when it succeeded against the
// remote source, forks icon resolution. Icons are only fetched until the
// first success; later syncs merge by assetID against already-filled rows.
func (r *Refresher) Refresh(ctx context.Context, fetchFromRemote bool) {
	var succeeded bool
	for res := range r.engine.GetAssets(ctx, fetchFromRemote) {
		switch res.Status {
		case domain.StatusSuccess:
			succeeded = true
		case domain.StatusError:
			r.logger.Warn("asset refresh failed", slog.String("error", res.Message))
		}
	}

	if !succeeded || !fetchFromRemote || r.iconsFetched.Load() {
		return
	}

	for res := range r.engine.GetAssetIcons(ctx, r.iconSize) {
		switch res.Status {
		case domain.StatusSuccess:
			r.iconsFetched.Store(true)
		case domain.StatusError:
			r.logger.Warn("icon refresh failed", slog.String("error", res.Message))
		}
	}
}
