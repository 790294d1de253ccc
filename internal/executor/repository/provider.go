package repository

import (
	"context"
	"errors"
	"time"

	"golang-market-movers/internal/executor/dto"
)

// ErrQuoteUnavailable is returned when the provider has no usable quote for a symbol.
var ErrQuoteUnavailable = errors.New("quote unavailable")

// MarketDataRepository fetches real-time quotes.
type MarketDataRepository interface {
	GetQuote(ctx context.Context, symbol string) (*dto.Quote, error)
}

// NewsProviderRepository fetches headlines about a symbol published within [from, to].
type NewsProviderRepository interface {
	FetchNews(ctx context.Context, symbol string, from, to time.Time) ([]dto.NewsArticle, error)
}

// SentimentRepository labels financial text. It satisfies movers.Classifier.
type SentimentRepository interface {
	Classify(ctx context.Context, text string) (string, float64, error)
}

// ConstituentSourceRepository supplies the current index membership.
type ConstituentSourceRepository interface {
	FetchConstituents(ctx context.Context) ([]dto.ConstituentSource, error)
}
