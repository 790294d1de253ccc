package repository

import (
	"context"
	"testing"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/movers"
	"golang-market-movers/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMovers() []entity.MoverRecord {
	return []entity.MoverRecord{
		{Date: testDate, Symbol: "AAPL", PercentChange: 2.0, IndexPointsContribution: 6.5, Rank: 1, MoverType: entity.MoverTypeGainer},
		{Date: testDate, Symbol: "TSLA", PercentChange: 0.5, IndexPointsContribution: 1.0, Rank: 2, MoverType: entity.MoverTypeGainer},
		{Date: testDate, Symbol: "MSFT", PercentChange: -1.5, IndexPointsContribution: -4.5, Rank: -1, MoverType: entity.MoverTypeLoser},
	}
}

func TestMoverRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMoverRepository(newTestDB(t))

	require.NoError(t, repo.CreateAll(ctx, testMovers()))

	records, err := repo.FindByDate(ctx, testDate)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "AAPL", records[0].Symbol)
	assert.Equal(t, -1, records[2].Rank)
	assert.Equal(t, entity.MoverTypeLoser, records[2].MoverType)
}

func TestMoverRepositoryRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewMoverRepository(newTestDB(t))

	require.NoError(t, repo.CreateAll(ctx, testMovers()))

	err := repo.CreateAll(ctx, testMovers()[:1])
	assert.ErrorIs(t, err, movers.ErrDuplicateWrite)

	records, err := repo.FindByDate(ctx, testDate)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestMoverRepositoryUpdateHeadlines(t *testing.T) {
	ctx := context.Background()
	repo := NewMoverRepository(newTestDB(t))
	require.NoError(t, repo.CreateAll(ctx, testMovers()))

	records, err := repo.FindByDate(ctx, testDate)
	require.NoError(t, err)
	aapl := records[0]
	aapl.PositiveHeadline = utils.ToPointer("record buyback")
	aapl.PositiveHeadlineScore = utils.ToPointer(0.97)
	aapl.PositiveHeadlineURL = utils.ToPointer("https://news.example.com/buyback")
	aapl.CompanyName = "should not be written"

	require.NoError(t, repo.UpdateHeadlines(ctx, &aapl))

	records, err = repo.FindByDate(ctx, testDate)
	require.NoError(t, err)
	require.NotNil(t, records[0].PositiveHeadline)
	assert.Equal(t, "record buyback", *records[0].PositiveHeadline)
	assert.Equal(t, 0.97, *records[0].PositiveHeadlineScore)
	assert.Equal(t, "", records[0].CompanyName)
	assert.Nil(t, records[0].NegativeHeadline)
	assert.Nil(t, records[1].PositiveHeadline)
}

func TestMoverRepositoryMarkNewsFetched(t *testing.T) {
	ctx := context.Background()
	repo := NewMoverRepository(newTestDB(t))
	require.NoError(t, repo.CreateAll(ctx, testMovers()))

	at := time.Date(2024, 5, 1, 21, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkNewsFetched(ctx, testDate, "TSLA", at))

	records, err := repo.FindByDate(ctx, testDate)
	require.NoError(t, err)
	assert.Nil(t, records[0].NewsFetchedAt)
	require.NotNil(t, records[1].NewsFetchedAt)
	assert.True(t, at.Equal(*records[1].NewsFetchedAt))
	assert.Nil(t, records[2].NewsFetchedAt)
}
