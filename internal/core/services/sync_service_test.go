package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/whitebox/cryptomonitor/internal/apperrors"
	"github.com/whitebox/cryptomonitor/internal/core/domain"
	"github.com/whitebox/cryptomonitor/internal/core/services"
)

// --- Mock AssetRepository ---
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) SearchAssets(ctx context.Context, substring string) ([]domain.Asset, error) {
	args := m.Called(ctx, substring)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) ListFavouriteAssets(ctx context.Context) ([]domain.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) UpsertAssets(ctx context.Context, assets []domain.Asset) error {
	args := m.Called(ctx, assets)
	return args.Error(0)
}

func (m *MockAssetRepository) SetFavourite(ctx context.Context, assetID string, favourite bool) error {
	args := m.Called(ctx, assetID, favourite)
	return args.Error(0)
}

func (m *MockAssetRepository) SetIconURLIfEmpty(ctx context.Context, assetID, iconURL string) error {
	args := m.Called(ctx, assetID, iconURL)
	return args.Error(0)
}

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindExchangeRate(ctx context.Context, assetIDBase string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, assetIDBase)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// --- Mock RemoteAssetSource ---
type MockRemoteAssetSource struct {
	mock.Mock
}

func (m *MockRemoteAssetSource) GetAssets(ctx context.Context) ([]domain.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockRemoteAssetSource) GetAssetDetails(ctx context.Context, assetID string) (*domain.Asset, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockRemoteAssetSource) GetAssetIcons(ctx context.Context, size string) ([]domain.AssetIcon, error) {
	args := m.Called(ctx, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AssetIcon), args.Error(1)
}

func (m *MockRemoteAssetSource) GetExchangeRate(ctx context.Context, assetIDBase string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, assetIDBase)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

// --- Test Suite ---
type SyncServiceTestSuite struct {
	suite.Suite
	mockAssets *MockAssetRepository
	mockRates  *MockExchangeRateRepository
	mockRemote *MockRemoteAssetSource
	service    *services.SyncService
}

func (suite *SyncServiceTestSuite) SetupTest() {
	suite.mockAssets = new(MockAssetRepository)
	suite.mockRates = new(MockExchangeRateRepository)
	suite.mockRemote = new(MockRemoteAssetSource)
	suite.service = services.NewSyncService(suite.mockAssets, suite.mockRates, suite.mockRemote, nil)
}

func cryptoAsset(id string, price float64) domain.Asset {
	return domain.Asset{AssetID: id, Name: id, TypeIsCrypto: 1, PriceUsd: decimal.NewFromFloat(price)}
}

func fiatAsset(id string) domain.Asset {
	return domain.Asset{AssetID: id, Name: id, TypeIsCrypto: 0}
}

// collect drains a Result channel into a slice, returning once it closes.
func collect[T any](ch <-chan domain.Result[T]) []domain.Result[T] {
	var out []domain.Result[T]
	for res := range ch {
		out = append(out, res)
	}
	return out
}

// --- GetAssets ---

func (suite *SyncServiceTestSuite) TestGetAssets_WarmCacheRemoteSuccess() {
	ctx := context.Background()
	cached := []domain.Asset{cryptoAsset("BTC", 50000)}
	remote := []domain.Asset{cryptoAsset("BTC", 51000), cryptoAsset("ETH", 3000), fiatAsset("USD")}
	merged := []domain.Asset{cryptoAsset("BTC", 50000), cryptoAsset("ETH", 3000)}

	suite.mockAssets.On("ListAssets", mock.Anything).Return(cached, nil).Once()
	suite.mockRemote.On("GetAssets", mock.Anything).Return(remote, nil).Once()
	// Fiat entries must be filtered out before the upsert.
	suite.mockAssets.On("UpsertAssets", mock.Anything, []domain.Asset{remote[0], remote[1]}).Return(nil).Once()
	suite.mockAssets.On("ListAssets", mock.Anything).Return(merged, nil).Once()

	results := collect(suite.service.GetAssets(ctx, true))

	suite.Require().Len(results, 3)
	suite.Equal(domain.StatusLoading, results[0].Status)
	suite.Equal(cached, results[0].Data)
	suite.Equal(domain.StatusSuccess, results[1].Status)
	suite.Equal(cached, results[1].Data)
	suite.Equal(domain.StatusSuccess, results[2].Status)
	suite.Equal(merged, results[2].Data)

	suite.mockAssets.AssertExpectations(suite.T())
	suite.mockRemote.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestGetAssets_RemoteFailureKeepsCache() {
	ctx := context.Background()
	cached := []domain.Asset{cryptoAsset("BTC", 50000)}
	remoteErr := apperrors.NewAppError(429, "You are rate limited", nil)

	suite.mockAssets.On("ListAssets", mock.Anything).Return(cached, nil).Once()
	suite.mockRemote.On("GetAssets", mock.Anything).Return(nil, remoteErr).Once()

	results := collect(suite.service.GetAssets(ctx, true))

	suite.Require().Len(results, 3)
	suite.Equal(domain.StatusLoading, results[0].Status)
	suite.Equal(domain.StatusSuccess, results[1].Status)
	final := results[2]
	suite.Equal(domain.StatusError, final.Status)
	suite.Equal("You are rate limited", final.Message)
	suite.Equal(cached, final.Data, "a remote failure must not discard cached data")

	suite.mockAssets.AssertExpectations(suite.T())
	suite.mockRemote.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestGetAssets_NoFetchWarmCache() {
	ctx := context.Background()
	cached := []domain.Asset{cryptoAsset("BTC", 50000)}

	suite.mockAssets.On("ListAssets", mock.Anything).Return(cached, nil).Once()

	results := collect(suite.service.GetAssets(ctx, false))

	suite.Require().Len(results, 2)
	suite.Equal(domain.StatusLoading, results[0].Status)
	suite.Equal(domain.StatusSuccess, results[1].Status)
	suite.Equal(cached, results[1].Data)

	suite.mockRemote.AssertNotCalled(suite.T(), "GetAssets", mock.Anything)
}

func (suite *SyncServiceTestSuite) TestGetAssets_NoFetchEmptyCache() {
	ctx := context.Background()

	suite.mockAssets.On("ListAssets", mock.Anything).Return([]domain.Asset{}, nil).Once()

	results := collect(suite.service.GetAssets(ctx, false))

	suite.Require().Len(results, 2)
	suite.Equal(domain.StatusLoading, results[0].Status)
	suite.Equal(domain.StatusError, results[1].Status)
	suite.Equal("no data found", results[1].Message)
	suite.Empty(results[1].Data)
}

func (suite *SyncServiceTestSuite) TestGetAssets_ColdCacheSkipsInterimSuccess() {
	ctx := context.Background()
	remote := []domain.Asset{cryptoAsset("ETH", 3000)}

	suite.mockAssets.On("ListAssets", mock.Anything).Return([]domain.Asset{}, nil).Once()
	suite.mockRemote.On("GetAssets", mock.Anything).Return(remote, nil).Once()
	suite.mockAssets.On("UpsertAssets", mock.Anything, remote).Return(nil).Once()
	suite.mockAssets.On("ListAssets", mock.Anything).Return(remote, nil).Once()

	results := collect(suite.service.GetAssets(ctx, true))

	// No interim Success when there is nothing stale to show.
	suite.Require().Len(results, 2)
	suite.Equal(domain.StatusLoading, results[0].Status)
	suite.Equal(domain.StatusSuccess, results[1].Status)
	suite.Equal(remote, results[1].Data)
}

func (suite *SyncServiceTestSuite) TestGetAssets_CacheReadFailureDegradesToEmpty() {
	ctx := context.Background()
	remote := []domain.Asset{cryptoAsset("BTC", 50000)}

	suite.mockAssets.On("ListAssets", mock.Anything).Return(nil, errors.New("disk error")).Once()
	suite.mockRemote.On("GetAssets", mock.Anything).Return(remote, nil).Once()
	suite.mockAssets.On("UpsertAssets", mock.Anything, remote).Return(nil).Once()
	suite.mockAssets.On("ListAssets", mock.Anything).Return(remote, nil).Once()

	results := collect(suite.service.GetAssets(ctx, true))

	suite.Require().Len(results, 2)
	suite.Equal(domain.StatusLoading, results[0].Status)
	suite.Empty(results[0].Data)
	suite.Equal(domain.StatusSuccess, results[1].Status)
}

func (suite *SyncServiceTestSuite) TestGetAssets_UpsertFailure() {
	ctx := context.Background()
	cached := []domain.Asset{cryptoAsset("BTC", 50000)}
	remote := []domain.Asset{cryptoAsset("ETH", 3000)}

	suite.mockAssets.On("ListAssets", mock.Anything).Return(cached, nil).Once()
	suite.mockRemote.On("GetAssets", mock.Anything).Return(remote, nil).Once()
	suite.mockAssets.On("UpsertAssets", mock.Anything, remote).Return(errors.New("disk full")).Once()

	results := collect(suite.service.GetAssets(ctx, true))

	final := results[len(results)-1]
	suite.Equal(domain.StatusError, final.Status)
	suite.Equal(cached, final.Data)
}

func (suite *SyncServiceTestSuite) TestGetAssets_CancelledContextTerminates() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	suite.mockAssets.On("ListAssets", mock.Anything).Return([]domain.Asset{}, nil).Maybe()
	suite.mockRemote.On("GetAssets", mock.Anything).Return([]domain.Asset{}, nil).Maybe()
	suite.mockAssets.On("UpsertAssets", mock.Anything, mock.Anything).Return(nil).Maybe()

	ch := suite.service.GetAssets(ctx, true)

	// The sequence must terminate promptly; how many envelopes slip out
	// before the cancellation is observed is timing-dependent.
	done := make(chan struct{})
	go func() {
		defer close(done)
		collect(ch)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		suite.Fail("sequence did not terminate after cancellation")
	}
}

// --- GetAsset ---

func (suite *SyncServiceTestSuite) TestGetAsset_RemoteFillsCache() {
	ctx := context.Background()
	fetched := cryptoAsset("BTC", 50000)

	suite.mockAssets.On("FindAssetByID", mock.Anything, "BTC").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRemote.On("GetAssetDetails", mock.Anything, "BTC").Return(&fetched, nil).Once()
	suite.mockAssets.On("UpsertAssets", mock.Anything, []domain.Asset{fetched}).Return(nil).Once()
	suite.mockAssets.On("FindAssetByID", mock.Anything, "BTC").Return(&fetched, nil).Once()

	results := collect(suite.service.GetAsset(ctx, "BTC", true))

	suite.Require().Len(results, 2)
	suite.Equal(domain.StatusLoading, results[0].Status)
	suite.Nil(results[0].Data)
	suite.Equal(domain.StatusSuccess, results[1].Status)
	suite.Equal(&fetched, results[1].Data)

	suite.mockAssets.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestGetAsset_NoFetchMiss() {
	ctx := context.Background()

	suite.mockAssets.On("FindAssetByID", mock.Anything, "XRP").Return(nil, apperrors.ErrNotFound).Once()

	results := collect(suite.service.GetAsset(ctx, "XRP", false))

	suite.Require().Len(results, 2)
	suite.Equal(domain.StatusError, results[1].Status)
	suite.Equal("no data found", results[1].Message)
	suite.Nil(results[1].Data)
}

func (suite *SyncServiceTestSuite) TestGetAsset_RemoteFailureKeepsCached() {
	ctx := context.Background()
	cached := cryptoAsset("BTC", 50000)

	suite.mockAssets.On("FindAssetByID", mock.Anything, "BTC").Return(&cached, nil).Once()
	suite.mockRemote.On("GetAssetDetails", mock.Anything, "BTC").Return(nil, errors.New("connection refused")).Once()

	results := collect(suite.service.GetAsset(ctx, "BTC", true))

	suite.Require().Len(results, 3)
	suite.Equal(domain.StatusSuccess, results[1].Status)
	final := results[2]
	suite.Equal(domain.StatusError, final.Status)
	suite.Equal("connection refused", final.Message)
	suite.Equal(&cached, final.Data)
}

// --- GetAssetIcons ---

func (suite *SyncServiceTestSuite) TestGetAssetIcons_PersistsEveryIcon() {
	ctx := context.Background()
	icons := []domain.AssetIcon{
		{AssetID: "BTC", URL: "https://icons.example/btc.png"},
		{AssetID: "ETH", URL: "https://icons.example/eth.png"},
	}

	suite.mockRemote.On("GetAssetIcons", mock.Anything, "64").Return(icons, nil).Once()
	suite.mockAssets.On("SetIconURLIfEmpty", mock.Anything, "BTC", icons[0].URL).Return(nil).Once()
	suite.mockAssets.On("SetIconURLIfEmpty", mock.Anything, "ETH", icons[1].URL).Return(nil).Once()

	results := collect(suite.service.GetAssetIcons(ctx, "64"))

	suite.Require().Len(results, 2)
	suite.Equal(domain.StatusLoading, results[0].Status)
	suite.Equal(domain.StatusSuccess, results[1].Status)
	suite.Equal(icons, results[1].Data)

	suite.mockAssets.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestGetAssetIcons_WriteFailureDoesNotAbortFanOut() {
	ctx := context.Background()
	icons := []domain.AssetIcon{
		{AssetID: "BTC", URL: "https://icons.example/btc.png"},
		{AssetID: "ETH", URL: "https://icons.example/eth.png"},
	}

	suite.mockRemote.On("GetAssetIcons", mock.Anything, "32").Return(icons, nil).Once()
	suite.mockAssets.On("SetIconURLIfEmpty", mock.Anything, "BTC", icons[0].URL).Return(errors.New("locked")).Once()
	suite.mockAssets.On("SetIconURLIfEmpty", mock.Anything, "ETH", icons[1].URL).Return(nil).Once()

	results := collect(suite.service.GetAssetIcons(ctx, "32"))

	suite.Equal(domain.StatusSuccess, results[len(results)-1].Status)
	suite.mockAssets.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestGetAssetIcons_RemoteFailure() {
	ctx := context.Background()

	suite.mockRemote.On("GetAssetIcons", mock.Anything, "128").Return(nil, errors.New("timeout")).Once()

	results := collect(suite.service.GetAssetIcons(ctx, "128"))

	suite.Require().Len(results, 2)
	suite.Equal(domain.StatusError, results[1].Status)
	suite.Empty(results[1].Data)
	suite.mockAssets.AssertNotCalled(suite.T(), "SetIconURLIfEmpty", mock.Anything, mock.Anything, mock.Anything)
}

// --- GetExchangeRate ---

func (suite *SyncServiceTestSuite) TestGetExchangeRate_ReplacesCachedRate() {
	ctx := context.Background()
	cached := &domain.ExchangeRate{AssetIDBase: "BTC", AssetIDQuote: "EUR", Rate: 40000, Time: "2026-08-31T00:00:00Z"}
	fresh := &domain.ExchangeRate{AssetIDBase: "BTC", AssetIDQuote: "EUR", Rate: 41000, Time: "2026-09-01T00:00:00Z"}

	suite.mockRates.On("FindExchangeRate", mock.Anything, "BTC").Return(cached, nil).Once()
	suite.mockRemote.On("GetExchangeRate", mock.Anything, "BTC").Return(fresh, nil).Once()
	suite.mockRates.On("SaveExchangeRate", mock.Anything, *fresh).Return(nil).Once()
	suite.mockRates.On("FindExchangeRate", mock.Anything, "BTC").Return(fresh, nil).Once()

	results := collect(suite.service.GetExchangeRate(ctx, "BTC", true))

	suite.Require().Len(results, 3)
	suite.Equal(domain.StatusLoading, results[0].Status)
	suite.Equal(cached, results[0].Data)
	suite.Equal(domain.StatusSuccess, results[1].Status)
	suite.Equal(cached, results[1].Data)
	suite.Equal(domain.StatusSuccess, results[2].Status)
	suite.Equal(fresh, results[2].Data)

	suite.mockRates.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestGetExchangeRate_RemoteFailureKeepsCached() {
	ctx := context.Background()
	cached := &domain.ExchangeRate{AssetIDBase: "BTC", AssetIDQuote: "EUR", Rate: 40000}

	suite.mockRates.On("FindExchangeRate", mock.Anything, "BTC").Return(cached, nil).Once()
	suite.mockRemote.On("GetExchangeRate", mock.Anything, "BTC").Return(nil, errors.New("bad gateway")).Once()

	results := collect(suite.service.GetExchangeRate(ctx, "BTC", true))

	final := results[len(results)-1]
	suite.Equal(domain.StatusError, final.Status)
	suite.Equal(cached, final.Data)
}

func (suite *SyncServiceTestSuite) TestGetExchangeRate_NoFetchMiss() {
	ctx := context.Background()

	suite.mockRates.On("FindExchangeRate", mock.Anything, "DOGE").Return(nil, apperrors.ErrNotFound).Once()

	results := collect(suite.service.GetExchangeRate(ctx, "DOGE", false))

	suite.Require().Len(results, 2)
	suite.Equal(domain.StatusError, results[1].Status)
	suite.Equal("no data found", results[1].Message)
}

// --- Favourites and search ---

func (suite *SyncServiceTestSuite) TestGetFavouriteAssets_EmptyIsSuccess() {
	ctx := context.Background()

	suite.mockAssets.On("ListFavouriteAssets", mock.Anything).Return([]domain.Asset{}, nil).Once()

	results := collect(suite.service.GetFavouriteAssets(ctx))

	suite.Require().Len(results, 2)
	suite.Equal(domain.StatusSuccess, results[1].Status)
	suite.Empty(results[1].Data)
}

func (suite *SyncServiceTestSuite) TestSearchAssets_ReturnsMatches() {
	ctx := context.Background()
	matches := []domain.Asset{cryptoAsset("BTC", 50000)}

	suite.mockAssets.On("SearchAssets", mock.Anything, "BT").Return(matches, nil).Once()

	results := collect(suite.service.SearchAssets(ctx, "BT"))

	suite.Require().Len(results, 2)
	suite.Equal(domain.StatusSuccess, results[1].Status)
	suite.Equal(matches, results[1].Data)
}

func (suite *SyncServiceTestSuite) TestSearchAssets_ReadFailure() {
	ctx := context.Background()

	suite.mockAssets.On("SearchAssets", mock.Anything, "BT").Return(nil, errors.New("disk error")).Once()

	results := collect(suite.service.SearchAssets(ctx, "BT"))

	suite.Equal(domain.StatusError, results[len(results)-1].Status)
}

func (suite *SyncServiceTestSuite) TestAddFavouriteAsset_RoundTrip() {
	ctx := context.Background()
	asset := cryptoAsset("BTC", 50000)

	suite.mockAssets.On("FindAssetByID", mock.Anything, "BTC").Return(&asset, nil).Twice()
	suite.mockAssets.On("SetFavourite", mock.Anything, "BTC", true).Return(nil).Once()
	suite.mockAssets.On("SetFavourite", mock.Anything, "BTC", false).Return(nil).Once()

	suite.True(suite.service.AddFavouriteAsset(ctx, "BTC"))
	suite.True(suite.service.RemoveFavouriteAsset(ctx, "BTC"))

	suite.mockAssets.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestAddFavouriteAsset_UnknownAsset() {
	ctx := context.Background()

	suite.mockAssets.On("FindAssetByID", mock.Anything, "NOPE").Return(nil, apperrors.ErrNotFound).Once()

	suite.False(suite.service.AddFavouriteAsset(ctx, "NOPE"))
	suite.mockAssets.AssertNotCalled(suite.T(), "SetFavourite", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SyncServiceTestSuite) TestRemoveFavouriteAsset_UpdateFailure() {
	ctx := context.Background()
	asset := cryptoAsset("BTC", 50000)

	suite.mockAssets.On("FindAssetByID", mock.Anything, "BTC").Return(&asset, nil).Once()
	suite.mockAssets.On("SetFavourite", mock.Anything, "BTC", false).Return(errors.New("locked")).Once()

	suite.False(suite.service.RemoveFavouriteAsset(ctx, "BTC"))
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}
