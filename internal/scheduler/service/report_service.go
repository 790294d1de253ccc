package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/scheduler/config"
	"golang-market-movers/internal/scheduler/dto"
	"golang-market-movers/internal/scheduler/repository"
	"golang-market-movers/pkg/logger"
	"golang-market-movers/pkg/utils"
)

// ReportService serves stored reports and queues new report runs.
type ReportService interface {
	GetLatestReport(ctx context.Context) (*dto.ReportResponse, error)
	GetReportByDate(ctx context.Context, date time.Time) (*dto.ReportResponse, error)
	GetMovers(ctx context.Context, date time.Time, moverType string) (*dto.MoversResponse, error)
	GetConstituents(ctx context.Context, activeOnly bool) ([]dto.ConstituentResponse, error)
	GetIndexSummary(ctx context.Context, date *time.Time) (*dto.IndexSummaryResponse, error)
	TriggerReport(ctx context.Context, req *dto.GenerateReportRequest) (*dto.GenerateReportResponse, error)
}

// NewReportService creates a new ReportService.
func NewReportService(
	cfg *config.Config,
	log *logger.Logger,
	marketRepo repository.MarketRepository,
	jobRepo repository.JobRepository,
	publisher TaskPublisher,
) ReportService {
	return &reportService{
		cfg:        cfg,
		logger:     log,
		marketRepo: marketRepo,
		jobRepo:    jobRepo,
		publisher:  publisher,
		loc:        utils.LoadLocation(cfg.Market.Timezone),
		now:        time.Now,
	}
}

type reportService struct {
	cfg        *config.Config
	logger     *logger.Logger
	marketRepo repository.MarketRepository
	jobRepo    repository.JobRepository
	publisher  TaskPublisher
	loc        *time.Location
	now        func() time.Time
}

func (s *reportService) GetLatestReport(ctx context.Context) (*dto.ReportResponse, error) {
	report, err := s.marketRepo.LatestReport(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest report: %w", err)
	}
	if report == nil {
		return nil, fmt.Errorf("no report generated yet: %w", ErrNotFound)
	}
	return mapReport(report), nil
}

func (s *reportService) GetReportByDate(ctx context.Context, date time.Time) (*dto.ReportResponse, error) {
	report, err := s.marketRepo.ReportByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	if report == nil {
		return nil, fmt.Errorf("no data for this date: %w", ErrNotFound)
	}
	return mapReport(report), nil
}

// GetMovers accepts an empty moverType for both sides.
func (s *reportService) GetMovers(ctx context.Context, date time.Time, moverType string) (*dto.MoversResponse, error) {
	mt := entity.MoverType(moverType)
	if mt != "" && mt != entity.MoverTypeGainer && mt != entity.MoverTypeLoser {
		return nil, fmt.Errorf("%w: mover_type must be gainer or loser", ErrInvalidRequest)
	}

	records, err := s.marketRepo.MoversByDate(ctx, date, mt)
	if err != nil {
		return nil, fmt.Errorf("failed to load movers: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no data for this date: %w", ErrNotFound)
	}

	resp := &dto.MoversResponse{
		Date:    utils.FormatDate(date),
		Gainers: []dto.MoverResponse{},
		Losers:  []dto.MoverResponse{},
	}
	for _, m := range records {
		if m.MoverType == entity.MoverTypeGainer {
			resp.Gainers = append(resp.Gainers, mapMover(m))
		} else {
			resp.Losers = append(resp.Losers, mapMover(m))
		}
	}
	return resp, nil
}

func (s *reportService) GetConstituents(ctx context.Context, activeOnly bool) ([]dto.ConstituentResponse, error) {
	constituents, err := s.marketRepo.Constituents(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to load constituents: %w", err)
	}
	out := make([]dto.ConstituentResponse, 0, len(constituents))
	for _, c := range constituents {
		out = append(out, dto.ConstituentResponse{
			Symbol:      c.Symbol,
			CompanyName: c.CompanyName,
			Sector:      c.Sector,
			Weight:      c.Weight,
			IsActive:    c.IsActive,
			AddedDate:   c.AddedDate,
			RemovedDate: c.RemovedDate,
		})
	}
	return out, nil
}

// GetIndexSummary returns the latest stored level when date is nil.
func (s *reportService) GetIndexSummary(ctx context.Context, date *time.Time) (*dto.IndexSummaryResponse, error) {
	var (
		level *entity.IndexLevel
		err   error
	)
	if date == nil {
		level, err = s.marketRepo.LatestIndexLevel(ctx)
	} else {
		level, err = s.marketRepo.IndexLevelByDate(ctx, *date)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load index level: %w", err)
	}
	if level == nil {
		return nil, fmt.Errorf("no data for this date: %w", ErrNotFound)
	}

	return &dto.IndexSummaryResponse{
		IndexName:     s.cfg.Market.IndexName,
		Date:          utils.FormatDate(level.Date),
		Level:         level.CurrentPrice,
		Change:        level.Change,
		PercentChange: level.PercentChange,
		High:          level.High,
		Low:           level.Low,
		Open:          level.Open,
		PreviousClose: level.PreviousClose,
	}, nil
}

// TriggerReport queues the configured DAILY_REPORT job for the requested date.
func (s *reportService) TriggerReport(ctx context.Context, req *dto.GenerateReportRequest) (*dto.GenerateReportResponse, error) {
	date := utils.MarketDate(s.now(), s.loc)
	if req.Date != "" {
		parsed, err := utils.ParseDate(req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		date = parsed
	}

	job, err := s.jobRepo.FindByName(ctx, s.cfg.Scheduler.TriggerJobName)
	if err != nil {
		return nil, fmt.Errorf("failed to load report job: %w", err)
	}
	if job == nil || job.Type != entity.JobTypeDailyReport {
		return nil, fmt.Errorf("report job %q: %w", s.cfg.Scheduler.TriggerJobName, ErrNotFound)
	}

	override, err := json.Marshal(map[string]string{"date": utils.FormatDate(date)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	history, err := s.publisher.Publish(ctx, job.ID, nil, override)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Report run queued",
		logger.StringField("date", utils.FormatDate(date)),
		logger.Field("execution_id", history.ID))

	return &dto.GenerateReportResponse{
		Date:        utils.FormatDate(date),
		JobID:       job.ID,
		ExecutionID: history.ID,
		Status:      string(history.Status),
	}, nil
}

func mapReport(r *entity.DailyReport) *dto.ReportResponse {
	excluded := []string(r.ExcludedSymbols)
	if excluded == nil {
		excluded = []string{}
	}
	return &dto.ReportResponse{
		ReportDate:            utils.FormatDate(r.ReportDate),
		IndexClose:            r.IndexClose,
		IndexChange:           r.IndexChange,
		IndexPercentChange:    r.IndexPercentChange,
		ConstituentsProcessed: r.ConstituentsProcessed,
		PricesCaptured:        r.PricesCaptured,
		ExcludedSymbols:       excluded,
		MoversSelected:        r.MoversSelected,
		NewsArticlesAnalyzed:  r.NewsArticlesAnalyzed,
		GenerationSeconds:     r.GenerationSeconds,
		NotificationSent:      r.NotificationSent,
		NotificationSentAt:    r.NotificationSentAt,
		GeneratedAt:           r.GeneratedAt,
	}
}

func mapMover(m entity.MoverRecord) dto.MoverResponse {
	resp := dto.MoverResponse{
		Symbol:                  m.Symbol,
		CompanyName:             m.CompanyName,
		Rank:                    m.Rank,
		MoverType:               string(m.MoverType),
		PercentChange:           m.PercentChange,
		IndexPointsContribution: m.IndexPointsContribution,
		ClosePrice:              m.ClosePrice,
	}
	if m.MoverType == entity.MoverTypeGainer {
		resp.Headline, resp.HeadlineScore, resp.HeadlineURL = m.PositiveHeadline, m.PositiveHeadlineScore, m.PositiveHeadlineURL
	} else {
		resp.Headline, resp.HeadlineScore, resp.HeadlineURL = m.NegativeHeadline, m.NegativeHeadlineScore, m.NegativeHeadlineURL
	}
	return resp
}
