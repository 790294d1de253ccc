package service

import (
	"context"
	"testing"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/internal/executor/repository"
	"golang-market-movers/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMarketDataService(db *gorm.DB, md *mockMarketData, src *mockConstituentSource) MarketDataService {
	return NewMarketDataService(
		testConfig(),
		logger.NewNop(),
		repository.NewConstituentRepository(db),
		repository.NewPriceRepository(db),
		md,
		src,
	)
}

func TestFetchDailyPricesSkipsStoredSymbols(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedConstituents(t, db)

	pct := 2.0
	_, err := repository.NewPriceRepository(db).Create(ctx, &entity.PriceObservation{
		Symbol: "AAPL", Date: testDate, CurrentPrice: 190, PercentChange: &pct,
	})
	require.NoError(t, err)

	md := new(mockMarketData)
	md.On("GetQuote", mock.Anything, "MSFT").Return(quote("MSFT", 400, -6, -1.5), nil).Once()
	md.On("GetQuote", mock.Anything, "NVDA").Return(nil, repository.ErrQuoteUnavailable).Twice()

	svc := newMarketDataService(db, md, new(mockConstituentSource))

	result, err := svc.FetchDailyPrices(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Requested)
	assert.Equal(t, 1, result.AlreadyStored)
	assert.Equal(t, 1, result.Captured)
	assert.Equal(t, []string{"NVDA"}, result.Unavailable)
	assert.Empty(t, result.Failed)

	again, err := svc.FetchDailyPrices(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 2, again.AlreadyStored)
	assert.Zero(t, again.Captured)

	var count int64
	require.NoError(t, db.Model(&entity.PriceObservation{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
	md.AssertExpectations(t)
}

func TestGetOrFetchIndexLevelScalesProxy(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	md := new(mockMarketData)
	md.On("GetQuote", mock.Anything, "SPY").Return(quote("SPY", 507.3, 4.8, 0.95), nil).Once()

	svc := newMarketDataService(db, md, new(mockConstituentSource))

	level, err := svc.GetOrFetchIndexLevel(ctx, testDate)
	require.NoError(t, err)
	assert.InDelta(t, 5073.0, level.CurrentPrice, 1e-9)
	assert.InDelta(t, 48.0, level.Change, 1e-9)
	assert.InDelta(t, 0.95, level.PercentChange, 1e-9)

	cached, err := svc.GetOrFetchIndexLevel(ctx, testDate)
	require.NoError(t, err)
	assert.InDelta(t, level.CurrentPrice, cached.CurrentPrice, 1e-9)
	md.AssertExpectations(t)
}

func TestEnsureConstituentsBootstrapsEmptyRegistry(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	src := new(mockConstituentSource)
	src.On("FetchConstituents", mock.Anything).Return([]dto.ConstituentSource{
		{Symbol: "aapl", Company: "Apple Inc.", Weight: 7},
		{Symbol: "MSFT", Company: "Microsoft Corp.", Weight: 6.5},
	}, nil).Once()

	svc := newMarketDataService(db, new(mockMarketData), src)

	n, err := svc.EnsureConstituents(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.EnsureConstituents(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	active, err := repository.NewConstituentRepository(db).GetActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "AAPL", active[0].Symbol)
	src.AssertExpectations(t)
}

func TestRefreshConstituentsDeactivatesLeavers(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedConstituents(t, db)

	src := new(mockConstituentSource)
	src.On("FetchConstituents", mock.Anything).Return([]dto.ConstituentSource{
		{Symbol: "AAPL", Company: "Apple Inc.", Weight: 7.2},
		{Symbol: "MSFT", Company: "Microsoft Corp.", Weight: 6.4},
	}, nil).Once()

	svc := newMarketDataService(db, new(mockMarketData), src)
	result, err := svc.RefreshConstituents(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Active)
	assert.Equal(t, []string{"NVDA"}, result.Deactivated)
}

func TestRefreshConstituentsRejectsEmptySource(t *testing.T) {
	db := newTestDB(t)
	src := new(mockConstituentSource)
	src.On("FetchConstituents", mock.Anything).Return([]dto.ConstituentSource{}, nil).Once()

	svc := newMarketDataService(db, new(mockMarketData), src)
	_, err := svc.RefreshConstituents(context.Background(), testDate)
	assert.Error(t, err)
}
