package repository

import (
	"context"
	"testing"

	"golang-market-movers/internal/entity"
	"golang-market-movers/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsRepositoryDeduplicatesBySymbolAndURL(t *testing.T) {
	ctx := context.Background()
	repo := NewNewsRepository(newTestDB(t))

	item := &entity.NewsItem{Symbol: "AAPL", Date: testDate, Headline: "h1", URL: "https://x.example.com/1"}
	created, err := repo.Create(ctx, item)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(ctx, &entity.NewsItem{Symbol: "AAPL", Date: testDate, Headline: "h1 again", URL: "https://x.example.com/1"})
	require.NoError(t, err)
	assert.False(t, created)

	created, err = repo.Create(ctx, &entity.NewsItem{Symbol: "MSFT", Date: testDate, Headline: "h1", URL: "https://x.example.com/1"})
	require.NoError(t, err)
	assert.True(t, created)

	count, err := repo.CountByDate(ctx, testDate)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestNewsRepositorySaveSentiment(t *testing.T) {
	ctx := context.Background()
	repo := NewNewsRepository(newTestDB(t))

	first := &entity.NewsItem{Symbol: "AAPL", Date: testDate, Headline: "h1", URL: "https://x.example.com/1"}
	second := &entity.NewsItem{Symbol: "AAPL", Date: testDate, Headline: "h2", URL: "https://x.example.com/2"}
	for _, item := range []*entity.NewsItem{first, second} {
		_, err := repo.Create(ctx, item)
		require.NoError(t, err)
	}

	first.SentimentLabel = utils.ToPointer(entity.SentimentPositive)
	first.SentimentScore = utils.ToPointer(0.9)
	first.IsTopHeadline = true
	require.NoError(t, repo.SaveSentiment(ctx, []*entity.NewsItem{first}))

	items, err := repo.FindByDate(ctx, testDate)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].SentimentLabel)
	assert.Equal(t, "positive", *items[0].SentimentLabel)
	assert.Equal(t, 0.9, *items[0].SentimentScore)
	assert.True(t, items[0].IsTopHeadline)
	assert.Nil(t, items[1].SentimentLabel)
	assert.False(t, items[1].IsTopHeadline)
}
