package service

import (
	"context"
	"testing"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/repository"
	"golang-market-movers/internal/movers"
	"golang-market-movers/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMoverService(db *gorm.DB) MoverService {
	return NewMoverService(
		logger.NewNop(),
		movers.NewRanker(5),
		repository.NewConstituentRepository(db),
		repository.NewPriceRepository(db),
		repository.NewMoverRepository(db),
	)
}

func seedPrices(t *testing.T, db *gorm.DB, pcts map[string]float64) {
	t.Helper()
	ctx := context.Background()
	prices := repository.NewPriceRepository(db)
	for symbol, pct := range pcts {
		p := pct
		_, err := prices.Create(ctx, &entity.PriceObservation{Symbol: symbol, Date: testDate, CurrentPrice: 100, PercentChange: &p})
		require.NoError(t, err)
	}
	_, err := prices.CreateIndexLevel(ctx, &entity.IndexLevel{Date: testDate, CurrentPrice: 5073})
	require.NoError(t, err)
}

func TestIdentifyTopMovers(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedConstituents(t, db)
	seedPrices(t, db, map[string]float64{"AAPL": 2.0, "MSFT": -1.5, "NVDA": 3.0})

	svc := newMoverService(db)
	result, err := svc.IdentifyTopMovers(ctx, testDate)
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	require.Len(t, result.Gainers, 2)
	require.Len(t, result.Losers, 1)
	assert.Equal(t, "NVDA", result.Gainers[0].Symbol)
	assert.Equal(t, 1, result.Gainers[0].Rank)
	assert.InDelta(t, 7.61, result.Gainers[0].IndexPointsContribution, 1e-9)
	assert.Equal(t, "AAPL", result.Gainers[1].Symbol)
	assert.Equal(t, 2, result.Gainers[1].Rank)
	assert.Equal(t, "MSFT", result.Losers[0].Symbol)
	assert.Equal(t, -1, result.Losers[0].Rank)
	assert.InDelta(t, -4.95, result.Losers[0].IndexPointsContribution, 1e-9)
}

func TestIdentifyTopMoversRerunWritesNothing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedConstituents(t, db)
	seedPrices(t, db, map[string]float64{"AAPL": 2.0, "MSFT": -1.5, "NVDA": 3.0})

	svc := newMoverService(db)
	first, err := svc.IdentifyTopMovers(ctx, testDate)
	require.NoError(t, err)

	second, err := svc.IdentifyTopMovers(ctx, testDate)
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, first.Count(), second.Count())

	var count int64
	require.NoError(t, db.Model(&entity.MoverRecord{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestIdentifyTopMoversReportsExcluded(t *testing.T) {
	db := newTestDB(t)
	seedConstituents(t, db)
	seedPrices(t, db, map[string]float64{"AAPL": 2.0})

	result, err := newMoverService(db).IdentifyTopMovers(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"MSFT", "NVDA"}, result.Excluded)
	assert.Equal(t, 1, result.Count())
}

func TestIdentifyTopMoversErrors(t *testing.T) {
	t.Run("missing index level", func(t *testing.T) {
		db := newTestDB(t)
		seedConstituents(t, db)

		_, err := newMoverService(db).IdentifyTopMovers(context.Background(), testDate)
		assert.ErrorIs(t, err, movers.ErrMissingIndexLevel)
	})

	t.Run("empty registry", func(t *testing.T) {
		db := newTestDB(t)
		seedPrices(t, db, map[string]float64{"AAPL": 2.0})

		_, err := newMoverService(db).IdentifyTopMovers(context.Background(), testDate)
		assert.ErrorIs(t, err, movers.ErrNoActiveConstituents)
	})
}
