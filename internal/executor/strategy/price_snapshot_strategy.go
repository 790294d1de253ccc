package strategy

import (
	"context"
	"fmt"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/logger"
)

type priceFetcher interface {
	EnsureConstituents(ctx context.Context, date time.Time) (int, error)
	GetOrFetchIndexLevel(ctx context.Context, date time.Time) (*entity.IndexLevel, error)
	FetchDailyPrices(ctx context.Context, date time.Time) (*dto.PriceFetchResult, error)
}

// PriceSnapshotStrategy captures the index level and constituent prices for a date.
type PriceSnapshotStrategy struct {
	logger  *logger.Logger
	dates   *DateResolver
	fetcher priceFetcher
}

// NewPriceSnapshotStrategy creates a new instance of PriceSnapshotStrategy.
func NewPriceSnapshotStrategy(log *logger.Logger, dates *DateResolver, fetcher priceFetcher) *PriceSnapshotStrategy {
	return &PriceSnapshotStrategy{logger: log, dates: dates, fetcher: fetcher}
}

// GetType returns the job type this strategy handles.
func (s *PriceSnapshotStrategy) GetType() entity.JobType {
	return entity.JobTypePriceSnapshot
}

// Execute fetches the snapshot. Symbols already stored for the date are not fetched again.
func (s *PriceSnapshotStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	date, err := s.dates.Resolve(job.Payload)
	if err != nil {
		return "", err
	}

	if _, err := s.fetcher.EnsureConstituents(ctx, date); err != nil {
		return "", fmt.Errorf("failed to prepare constituents: %w", err)
	}
	if _, err := s.fetcher.GetOrFetchIndexLevel(ctx, date); err != nil {
		return "", fmt.Errorf("failed to fetch index level: %w", err)
	}

	result, err := s.fetcher.FetchDailyPrices(ctx, date)
	if err != nil {
		return "", fmt.Errorf("failed to fetch daily prices: %w", err)
	}
	output, err := marshalOutput(result)
	if err != nil {
		return "", err
	}
	if result.Requested > 0 && result.Captured+result.AlreadyStored == 0 {
		return output, fmt.Errorf("no prices captured for %s", result.Date)
	}
	return output, nil
}
