package strategy

import (
	"context"
	"fmt"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/logger"
)

type moverIdentifier interface {
	IdentifyTopMovers(ctx context.Context, date time.Time) (*dto.MoversResult, error)
}

// TopMoversStrategy ranks the constituents of a date and stores the movers.
type TopMoversStrategy struct {
	logger     *logger.Logger
	dates      *DateResolver
	identifier moverIdentifier
}

// NewTopMoversStrategy creates a new instance of TopMoversStrategy.
func NewTopMoversStrategy(log *logger.Logger, dates *DateResolver, identifier moverIdentifier) *TopMoversStrategy {
	return &TopMoversStrategy{logger: log, dates: dates, identifier: identifier}
}

// GetType returns the job type this strategy handles.
func (s *TopMoversStrategy) GetType() entity.JobType {
	return entity.JobTypeTopMovers
}

// Execute runs the ranking.
func (s *TopMoversStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	date, err := s.dates.Resolve(job.Payload)
	if err != nil {
		return "", err
	}

	result, err := s.identifier.IdentifyTopMovers(ctx, date)
	if err != nil {
		return "", fmt.Errorf("failed to identify top movers: %w", err)
	}
	return marshalOutput(result)
}
