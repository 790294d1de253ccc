package strategy

import (
	"context"
	"fmt"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/logger"
)

type constituentRefresher interface {
	RefreshConstituents(ctx context.Context, date time.Time) (*dto.ConstituentRefreshResult, error)
}

// ConstituentRefreshStrategy reloads the index membership into the registry.
type ConstituentRefreshStrategy struct {
	logger    *logger.Logger
	dates     *DateResolver
	refresher constituentRefresher
}

// NewConstituentRefreshStrategy creates a new instance of ConstituentRefreshStrategy.
func NewConstituentRefreshStrategy(log *logger.Logger, dates *DateResolver, refresher constituentRefresher) *ConstituentRefreshStrategy {
	return &ConstituentRefreshStrategy{logger: log, dates: dates, refresher: refresher}
}

// GetType returns the job type this strategy handles.
func (s *ConstituentRefreshStrategy) GetType() entity.JobType {
	return entity.JobTypeConstituentRefresh
}

// Execute runs the registry refresh.
func (s *ConstituentRefreshStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	date, err := s.dates.Resolve(job.Payload)
	if err != nil {
		return "", err
	}

	result, err := s.refresher.RefreshConstituents(ctx, date)
	if err != nil {
		return "", fmt.Errorf("failed to refresh constituents: %w", err)
	}
	return marshalOutput(result)
}
