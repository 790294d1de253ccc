package repository

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"

	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/utils"

	"github.com/patrickmn/go-cache"
)

type cachedSentimentRepository struct {
	next  SentimentRepository
	cache *cache.Cache
}

// NewCachedSentimentRepository memoises classifications by text for ttl, so a
// headline syndicated under several symbols is classified once.
func NewCachedSentimentRepository(next SentimentRepository, ttl time.Duration) SentimentRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &cachedSentimentRepository{next: next, cache: cache.New(ttl, 2*ttl)}
}

func (r *cachedSentimentRepository) Classify(ctx context.Context, text string) (string, float64, error) {
	key := cacheKey(text)
	if cached, ok := r.cache.Get(key); ok {
		res := cached.(dto.SentimentResult)
		return res.Label, res.Score, nil
	}

	label, score, err := r.next.Classify(ctx, text)
	if err != nil {
		return "", 0, err
	}
	r.cache.SetDefault(key, dto.SentimentResult{Label: label, Score: score})
	return label, score, nil
}

func cacheKey(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

type cachedMarketDataRepository struct {
	next  MarketDataRepository
	cache *cache.Cache
}

// NewCachedMarketDataRepository keeps quotes for ttl. Stage jobs of one report
// run (index level, price snapshot) then share a single provider call per symbol.
// Unavailable quotes are not cached. A non-positive ttl returns next unchanged.
func NewCachedMarketDataRepository(next MarketDataRepository, ttl time.Duration) MarketDataRepository {
	if ttl <= 0 {
		return next
	}
	return &cachedMarketDataRepository{next: next, cache: cache.New(ttl, 2*ttl)}
}

func (r *cachedMarketDataRepository) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	key := utils.NormalizeSymbol(symbol)
	if cached, ok := r.cache.Get(key); ok {
		q := cached.(dto.Quote)
		return &q, nil
	}

	quote, err := r.next.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(key, *quote)
	return quote, nil
}
