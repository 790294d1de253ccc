package strategy

import (
	"context"
	"fmt"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/pkg/logger"
)

type reportGenerator interface {
	GenerateDailyReport(ctx context.Context, date time.Time) (*dto.DailyReportResult, error)
}

// DailyReportStrategy runs the full pipeline for a date.
type DailyReportStrategy struct {
	logger    *logger.Logger
	dates     *DateResolver
	generator reportGenerator
}

// NewDailyReportStrategy creates a new instance of DailyReportStrategy.
func NewDailyReportStrategy(log *logger.Logger, dates *DateResolver, generator reportGenerator) *DailyReportStrategy {
	return &DailyReportStrategy{logger: log, dates: dates, generator: generator}
}

// GetType returns the job type this strategy handles.
func (s *DailyReportStrategy) GetType() entity.JobType {
	return entity.JobTypeDailyReport
}

// Execute generates the report.
func (s *DailyReportStrategy) Execute(ctx context.Context, job *entity.Job) (string, error) {
	date, err := s.dates.Resolve(job.Payload)
	if err != nil {
		return "", err
	}

	result, err := s.generator.GenerateDailyReport(ctx, date)
	if err != nil {
		return "", fmt.Errorf("failed to generate daily report: %w", err)
	}

	s.logger.Info("Daily report job finished",
		logger.StringField("date", result.Date),
		logger.StringField("status", result.Status))
	return marshalOutput(result)
}
