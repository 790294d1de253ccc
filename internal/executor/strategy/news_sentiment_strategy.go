package strategy

import (
	"context"
	"fmt"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/logger"
)

type sentimentAnalyzer interface {
	FetchNews(ctx context.Context, date time.Time) (*dto.NewsFetchResult, error)
	AnalyzeSentiment(ctx context.Context, date time.Time) (*dto.SentimentRunResult, error)
}

// NewsSentimentStrategy fetches headlines for a date's movers and aligns their sentiment.
type NewsSentimentStrategy struct {
	logger   *logger.Logger
	dates    *DateResolver
	analyzer sentimentAnalyzer
}

// NewsSentimentOutput combines both stages of the job.
type NewsSentimentOutput struct {
	News      *dto.NewsFetchResult    `json:"news"`
	Sentiment *dto.SentimentRunResult `json:"sentiment"`
}

// NewNewsSentimentStrategy creates a new instance of NewsSentimentStrategy.
func NewNewsSentimentStrategy(log *logger.Logger, dates *DateResolver, analyzer sentimentAnalyzer) *NewsSentimentStrategy {
	return &NewsSentimentStrategy{logger: log, dates: dates, analyzer: analyzer}
}

// GetType returns the job type this strategy handles.
func (s *NewsSentimentStrategy) GetType() entity.JobType {
	return entity.JobTypeNewsSentiment
}

// Execute runs the news fetch followed by alignment.
func (s *NewsSentimentStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	date, err := s.dates.Resolve(job.Payload)
	if err != nil {
		return "", err
	}

	var out NewsSentimentOutput
	out.News, err = s.analyzer.FetchNews(ctx, date)
	if err != nil {
		return "", fmt.Errorf("failed to fetch news: %w", err)
	}

	out.Sentiment, err = s.analyzer.AnalyzeSentiment(ctx, date)
	if err != nil {
		output, _ := marshalOutput(out)
		return output, fmt.Errorf("failed to analyze sentiment: %w", err)
	}
	return marshalOutput(out)
}
