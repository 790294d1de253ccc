package repository

import (
	"context"
	"fmt"
	"time"

	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/ratelimit"

	"golang.org/x/time/rate"
)

type rateLimitedMarketDataRepository struct {
	next    MarketDataRepository
	limiter *rate.Limiter
}

// NewRateLimitedMarketDataRepository spaces quote calls to maxRequestPerMinute.
func NewRateLimitedMarketDataRepository(next MarketDataRepository, maxRequestPerMinute int) MarketDataRepository {
	return &rateLimitedMarketDataRepository{next: next, limiter: ratelimit.PerMinute(maxRequestPerMinute)}
}

func (r *rateLimitedMarketDataRepository) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}
	return r.next.GetQuote(ctx, symbol)
}

type rateLimitedNewsRepository struct {
	next    NewsProviderRepository
	limiter *rate.Limiter
}

// NewRateLimitedNewsRepository spaces news calls to maxRequestPerMinute.
func NewRateLimitedNewsRepository(next NewsProviderRepository, maxRequestPerMinute int) NewsProviderRepository {
	return &rateLimitedNewsRepository{next: next, limiter: ratelimit.PerMinute(maxRequestPerMinute)}
}

func (r *rateLimitedNewsRepository) FetchNews(ctx context.Context, symbol string, from, to time.Time) ([]dto.NewsArticle, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}
	return r.next.FetchNews(ctx, symbol, from, to)
}

type rateLimitedSentimentRepository struct {
	next    SentimentRepository
	limiter *rate.Limiter
}

// NewRateLimitedSentimentRepository spaces classifier calls to maxRequestPerMinute.
func NewRateLimitedSentimentRepository(next SentimentRepository, maxRequestPerMinute int) SentimentRepository {
	return &rateLimitedSentimentRepository{next: next, limiter: ratelimit.PerMinute(maxRequestPerMinute)}
}

func (r *rateLimitedSentimentRepository) Classify(ctx context.Context, text string) (string, float64, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", 0, fmt.Errorf("failed to wait for request limit: %w", err)
	}
	return r.next.Classify(ctx, text)
}
