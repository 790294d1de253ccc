package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNewsProvider struct {
	mock.Mock
}

func (m *mockNewsProvider) FetchNews(ctx context.Context, symbol string, from, to time.Time) ([]dto.NewsArticle, error) {
	args := m.Called(ctx, symbol, from, to)
	articles, _ := args.Get(0).([]dto.NewsArticle)
	return articles, args.Error(1)
}

type mockSentiment struct {
	mock.Mock
}

func (m *mockSentiment) Classify(ctx context.Context, text string) (string, float64, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Get(1).(float64), args.Error(2)
}

type mockQuotes struct {
	mock.Mock
}

func (m *mockQuotes) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	args := m.Called(ctx, symbol)
	quote, _ := args.Get(0).(*dto.Quote)
	return quote, args.Error(1)
}

func at(hour int) *time.Time {
	t := time.Date(2024, 5, 1, hour, 0, 0, 0, time.UTC)
	return &t
}

func TestCompositeNewsMergesAndDeduplicates(t *testing.T) {
	first := new(mockNewsProvider)
	second := new(mockNewsProvider)
	first.On("FetchNews", mock.Anything, "AAPL", mock.Anything, mock.Anything).Return([]dto.NewsArticle{
		{Headline: "a", URL: "https://n/a", PublishedAt: at(10)},
		{Headline: "b", URL: "https://n/b", PublishedAt: at(12)},
	}, nil)
	second.On("FetchNews", mock.Anything, "AAPL", mock.Anything, mock.Anything).Return([]dto.NewsArticle{
		{Headline: "b again", URL: "https://n/b", PublishedAt: at(12)},
		{Headline: "c", URL: "https://n/c"},
		{Headline: "d", URL: "https://n/d", PublishedAt: at(15)},
	}, nil)

	repo := NewCompositeNewsRepository(logger.NewNop(), first, second)
	articles, err := repo.FetchNews(context.Background(), "AAPL", time.Time{}, time.Now())
	require.NoError(t, err)

	var headlines []string
	for _, a := range articles {
		headlines = append(headlines, a.Headline)
	}
	assert.Equal(t, []string{"d", "b", "a", "c"}, headlines)
}

func TestCompositeNewsToleratesPartialFailure(t *testing.T) {
	ok := new(mockNewsProvider)
	broken := new(mockNewsProvider)
	ok.On("FetchNews", mock.Anything, "MSFT", mock.Anything, mock.Anything).Return([]dto.NewsArticle{{Headline: "x", URL: "https://n/x"}}, nil)
	broken.On("FetchNews", mock.Anything, "MSFT", mock.Anything, mock.Anything).Return(nil, errors.New("feed down"))

	articles, err := NewCompositeNewsRepository(logger.NewNop(), broken, ok).FetchNews(context.Background(), "MSFT", time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Len(t, articles, 1)

	_, err = NewCompositeNewsRepository(logger.NewNop(), broken).FetchNews(context.Background(), "MSFT", time.Time{}, time.Now())
	assert.Error(t, err)
}

func TestCachedSentimentClassifiesOnce(t *testing.T) {
	next := new(mockSentiment)
	next.On("Classify", mock.Anything, "Apple beats. Strong quarter").Return("positive", 0.93, nil).Once()

	repo := NewCachedSentimentRepository(next, time.Hour)
	for i := 0; i < 3; i++ {
		label, score, err := repo.Classify(context.Background(), "Apple beats. Strong quarter")
		require.NoError(t, err)
		assert.Equal(t, "positive", label)
		assert.Equal(t, 0.93, score)
	}
	next.AssertNumberOfCalls(t, "Classify", 1)
}

func TestCachedSentimentDoesNotCacheErrors(t *testing.T) {
	next := new(mockSentiment)
	next.On("Classify", mock.Anything, "text").Return("", 0.0, errors.New("quota")).Once()
	next.On("Classify", mock.Anything, "text").Return("negative", 0.7, nil).Once()

	repo := NewCachedSentimentRepository(next, time.Hour)
	_, _, err := repo.Classify(context.Background(), "text")
	require.Error(t, err)

	label, _, err := repo.Classify(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "negative", label)
}

func TestCachedMarketDataSharesQuotes(t *testing.T) {
	next := new(mockQuotes)
	next.On("GetQuote", mock.Anything, "SPY").Return(&dto.Quote{Symbol: "SPY", CurrentPrice: 520.4}, nil).Once()
	next.On("GetQuote", mock.Anything, "TSLA").Return(nil, ErrQuoteUnavailable).Twice()

	repo := NewCachedMarketDataRepository(next, time.Minute)
	for _, symbol := range []string{"SPY", "spy"} {
		quote, err := repo.GetQuote(context.Background(), symbol)
		require.NoError(t, err)
		assert.Equal(t, 520.4, quote.CurrentPrice)
	}

	for i := 0; i < 2; i++ {
		_, err := repo.GetQuote(context.Background(), "TSLA")
		assert.ErrorIs(t, err, ErrQuoteUnavailable)
	}
	next.AssertExpectations(t)
}

func TestRateLimitedSentimentHonoursContext(t *testing.T) {
	next := new(mockSentiment)
	next.On("Classify", mock.Anything, "a").Return("neutral", 0.5, nil)

	repo := NewRateLimitedSentimentRepository(next, 1)
	_, _, err := repo.Classify(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, _, err = repo.Classify(ctx, "a")
	assert.Error(t, err)
	next.AssertNumberOfCalls(t, "Classify", 1)
}

func TestParseSentimentResponse(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantLabel string
		wantScore float64
		wantErr   bool
	}{
		{name: "plain json", raw: `{"label":"positive","score":0.91}`, wantLabel: "positive", wantScore: 0.91},
		{name: "fenced json", raw: "```json\n{\"label\":\"Negative\",\"score\":0.8}\n```", wantLabel: "negative", wantScore: 0.8},
		{name: "score clamped", raw: `{"label":"neutral","score":1.7}`, wantLabel: "neutral", wantScore: 1},
		{name: "unknown label", raw: `{"label":"bullish","score":0.9}`, wantErr: true},
		{name: "not json", raw: `positive`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseSentimentResponse(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, result.Label)
			assert.Equal(t, tt.wantScore, result.Score)
		})
	}
}

func TestConstituentFileRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "constituents.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
index: S&P 500
as_of: "2024-05-01"
constituents:
  - symbol: msft
    company: Microsoft Corp.
    sector: Information Technology
    weight: 7.1
  - symbol: AAPL
    company: Apple Inc.
    sector: Information Technology
    weight: 6.5
  - symbol: NVDA
    company: NVIDIA Corp.
    sector: Information Technology
    weight: 8.0
  - symbol: AAPL
    company: Apple duplicate
    weight: 1.0
`), 0o600))

	members, err := NewConstituentFileRepository(path, 2).FetchConstituents(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "NVDA", members[0].Symbol)
	assert.Equal(t, "MSFT", members[1].Symbol)
	assert.Equal(t, "Microsoft Corp.", members[1].Company)

	all, err := NewConstituentFileRepository(path, 0).FetchConstituents(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = NewConstituentFileRepository(filepath.Join(t.TempDir(), "missing.yaml"), 0).FetchConstituents(context.Background())
	assert.Error(t, err)
}
