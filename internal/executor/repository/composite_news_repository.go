package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/logger"
	"golang-market-movers/pkg/utils"
)

type compositeNewsRepository struct {
	providers []NewsProviderRepository
	log       *logger.Logger
}

// NewCompositeNewsRepository queries every provider concurrently and merges the
// results, newest first, dropping repeated URLs. It fails only when every provider fails.
func NewCompositeNewsRepository(log *logger.Logger, providers ...NewsProviderRepository) NewsProviderRepository {
	return &compositeNewsRepository{providers: providers, log: log}
}

func (r *compositeNewsRepository) FetchNews(ctx context.Context, symbol string, from, to time.Time) ([]dto.NewsArticle, error) {
	if len(r.providers) == 0 {
		return nil, errors.New("no news provider configured")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make([][]dto.NewsArticle, len(r.providers))
		errs    []error
	)
	for i, provider := range r.providers {
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			articles, err := provider.FetchNews(ctx, symbol, from, to)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			results[i] = articles
		})
	}
	wg.Wait()

	if len(errs) == len(r.providers) {
		return nil, fmt.Errorf("all news providers failed for %s: %w", symbol, errors.Join(errs...))
	}
	for _, err := range errs {
		r.log.WarnContext(ctx, "News provider failed", logger.StringField("symbol", symbol), logger.ErrorField(err))
	}

	seen := make(map[string]struct{})
	var merged []dto.NewsArticle
	for _, articles := range results {
		for _, a := range articles {
			if _, ok := seen[a.URL]; ok {
				continue
			}
			seen[a.URL] = struct{}{}
			merged = append(merged, a)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i].PublishedAt, merged[j].PublishedAt
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})
	return merged, nil
}
