package movers

import (
	"fmt"
	"math"
	"testing"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rankDate = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func constituent(symbol string, weight float64) entity.Constituent {
	return entity.Constituent{Symbol: symbol, CompanyName: symbol + " Inc.", Weight: weight, IsActive: true}
}

func price(symbol string, pct float64, close float64) entity.PriceObservation {
	return entity.PriceObservation{Symbol: symbol, Date: rankDate, CurrentPrice: close, PercentChange: utils.ToPointer(pct)}
}

func TestRankMissingIndexLevel(t *testing.T) {
	_, err := NewRanker(5).Rank(rankDate, nil, []entity.Constituent{constituent("AAPL", 6.5)}, nil)
	assert.ErrorIs(t, err, ErrMissingIndexLevel)
}

func TestRankNoActiveConstituents(t *testing.T) {
	level := 5000.0
	inactive := constituent("AAPL", 6.5)
	inactive.IsActive = false

	_, err := NewRanker(5).Rank(rankDate, &level, []entity.Constituent{inactive}, nil)
	assert.ErrorIs(t, err, ErrNoActiveConstituents)

	_, err = NewRanker(5).Rank(rankDate, &level, nil, nil)
	assert.ErrorIs(t, err, ErrNoActiveConstituents)
}

func TestRankThreeConstituents(t *testing.T) {
	level := 5000.0
	constituents := []entity.Constituent{
		constituent("AAPL", 6.5),
		constituent("MSFT", 6.0),
		constituent("TSLA", 4.0),
	}
	prices := []entity.PriceObservation{
		price("AAPL", 2.0, 190.1),
		price("MSFT", -1.5, 410.2),
		price("TSLA", 0.5, 175.3),
	}

	ranking, err := NewRanker(5).Rank(rankDate, &level, constituents, prices)
	require.NoError(t, err)

	require.Len(t, ranking.Gainers, 2)
	assert.Equal(t, "AAPL", ranking.Gainers[0].Symbol)
	assert.Equal(t, 1, ranking.Gainers[0].Rank)
	assert.Equal(t, 6.5, ranking.Gainers[0].IndexPointsContribution)
	assert.Equal(t, entity.MoverTypeGainer, ranking.Gainers[0].MoverType)
	assert.Equal(t, 190.1, ranking.Gainers[0].ClosePrice)
	assert.Equal(t, "TSLA", ranking.Gainers[1].Symbol)
	assert.Equal(t, 2, ranking.Gainers[1].Rank)
	assert.Equal(t, 1.0, ranking.Gainers[1].IndexPointsContribution)

	require.Len(t, ranking.Losers, 1)
	assert.Equal(t, "MSFT", ranking.Losers[0].Symbol)
	assert.Equal(t, -1, ranking.Losers[0].Rank)
	assert.Equal(t, -4.5, ranking.Losers[0].IndexPointsContribution)
	assert.Equal(t, entity.MoverTypeLoser, ranking.Losers[0].MoverType)

	assert.Empty(t, ranking.Excluded)
	assert.Len(t, ranking.Movers(), 3)
}

func TestRankExcludesMissingAndNullPrices(t *testing.T) {
	level := 5000.0
	constituents := []entity.Constituent{
		constituent("AAPL", 6.5),
		constituent("NVDA", 5.0),
		constituent("AMZN", 3.5),
	}
	nullChange := entity.PriceObservation{Symbol: "NVDA", Date: rankDate, CurrentPrice: 900}
	prices := []entity.PriceObservation{price("AAPL", 1.0, 190), nullChange}

	ranking, err := NewRanker(5).Rank(rankDate, &level, constituents, prices)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"NVDA", "AMZN"}, ranking.Excluded)
	require.Len(t, ranking.Candidates, 1)
	assert.Equal(t, "AAPL", ranking.Candidates[0].Symbol)
}

func TestRankIgnoresPricesFromOtherDates(t *testing.T) {
	level := 5000.0
	stale := price("AAPL", 3.0, 180)
	stale.Date = rankDate.AddDate(0, 0, -1)

	ranking, err := NewRanker(5).Rank(rankDate, &level, []entity.Constituent{constituent("AAPL", 6.5)}, []entity.PriceObservation{stale})
	require.NoError(t, err)
	assert.Empty(t, ranking.Movers())
	assert.Equal(t, []string{"AAPL"}, ranking.Excluded)
}

func TestRankZeroChangeIsNeitherGainerNorLoser(t *testing.T) {
	level := 5000.0
	ranking, err := NewRanker(5).Rank(rankDate, &level,
		[]entity.Constituent{constituent("AAPL", 6.5), constituent("MSFT", 6.0)},
		[]entity.PriceObservation{price("AAPL", 0, 190), price("MSFT", 0, 410)})
	require.NoError(t, err)

	assert.Len(t, ranking.Candidates, 2)
	assert.Empty(t, ranking.Gainers)
	assert.Empty(t, ranking.Losers)
}

func TestRankTruncatesToTopN(t *testing.T) {
	level := 5000.0
	var constituents []entity.Constituent
	var prices []entity.PriceObservation
	for i := 1; i <= 8; i++ {
		up := fmt.Sprintf("UP%d", i)
		down := fmt.Sprintf("DN%d", i)
		constituents = append(constituents, constituent(up, float64(i)), constituent(down, float64(i)))
		prices = append(prices, price(up, 1.0, 100), price(down, -1.0, 100))
	}

	ranking, err := NewRanker(3).Rank(rankDate, &level, constituents, prices)
	require.NoError(t, err)

	require.Len(t, ranking.Gainers, 3)
	require.Len(t, ranking.Losers, 3)
	assert.Equal(t, []string{"UP8", "UP7", "UP6"}, symbols(ranking.Gainers))
	assert.Equal(t, []string{"DN8", "DN7", "DN6"}, symbols(ranking.Losers))
	for i, g := range ranking.Gainers {
		assert.Equal(t, i+1, g.Rank)
		assert.Greater(t, g.PercentChange, 0.0)
	}
	for i, l := range ranking.Losers {
		assert.Equal(t, -(i + 1), l.Rank)
		assert.Less(t, l.PercentChange, 0.0)
	}
}

func TestRankCandidatesSortedByAbsoluteImpact(t *testing.T) {
	level := 5000.0
	constituents := []entity.Constituent{
		constituent("A", 1.0), constituent("B", 2.0), constituent("C", 3.0), constituent("D", 4.0),
	}
	prices := []entity.PriceObservation{
		price("A", -9.0, 10), price("B", 0.5, 10), price("C", -0.2, 10), price("D", 2.0, 10),
	}

	ranking, err := NewRanker(5).Rank(rankDate, &level, constituents, prices)
	require.NoError(t, err)

	for i := 1; i < len(ranking.Candidates); i++ {
		assert.GreaterOrEqual(t, math.Abs(ranking.Candidates[i-1].Impact), math.Abs(ranking.Candidates[i].Impact))
	}
	assert.Equal(t, "A", ranking.Candidates[0].Symbol)
}

func TestRankTiesKeepRegistryOrder(t *testing.T) {
	level := 5000.0
	constituents := []entity.Constituent{constituent("AAA", 2.0), constituent("BBB", 2.0), constituent("CCC", 2.0)}
	prices := []entity.PriceObservation{price("CCC", 1.0, 10), price("BBB", 1.0, 10), price("AAA", 1.0, 10)}

	for i := 0; i < 5; i++ {
		ranking, err := NewRanker(5).Rank(rankDate, &level, constituents, prices)
		require.NoError(t, err)
		assert.Equal(t, []string{"AAA", "BBB", "CCC"}, symbols(ranking.Gainers))
	}
}

func TestRankNormalisesSymbols(t *testing.T) {
	level := 5000.0
	ranking, err := NewRanker(5).Rank(rankDate, &level,
		[]entity.Constituent{constituent("aapl", 6.5)},
		[]entity.PriceObservation{price("AAPL", 2.0, 190)})
	require.NoError(t, err)
	require.Len(t, ranking.Gainers, 1)
	assert.Equal(t, "AAPL", ranking.Gainers[0].Symbol)
}

func symbols(records []entity.MoverRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Symbol)
	}
	return out
}
