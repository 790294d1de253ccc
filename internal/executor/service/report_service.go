package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/config"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/internal/executor/repository"
	"golang-market-movers/internal/movers"
	"golang-market-movers/pkg/logger"
	"golang-market-movers/pkg/telegram"
	"golang-market-movers/pkg/utils"
)

// Pipeline stages, reported in failure notifications.
const (
	StageConstituents = "constituents"
	StageIndexLevel   = "index_level"
	StagePrices       = "prices"
	StageMovers       = "movers"
	StageNews         = "news"
	StageSentiment    = "sentiment"
	StageReport       = "report"
)

// ReportService runs the whole pipeline for one date and records the outcome.
type ReportService interface {
	GenerateDailyReport(ctx context.Context, date time.Time) (*dto.DailyReportResult, error)
	BuildMoversReport(ctx context.Context, date time.Time) (*dto.MoversReport, error)
}

type reportService struct {
	cfg        *config.Config
	logger     *logger.Logger
	calendar   *utils.TradingCalendar
	marketData MarketDataService
	moverSvc   MoverService
	newsSvc    NewsService
	reportRepo repository.ReportRepository
	priceRepo  repository.PriceRepository
	moverRepo  repository.MoverRepository
	newsRepo   repository.NewsRepository
	notifier   telegram.Notifier
}

// NewReportService creates a new ReportService.
func NewReportService(
	cfg *config.Config,
	log *logger.Logger,
	calendar *utils.TradingCalendar,
	marketData MarketDataService,
	moverSvc MoverService,
	newsSvc NewsService,
	reportRepo repository.ReportRepository,
	priceRepo repository.PriceRepository,
	moverRepo repository.MoverRepository,
	newsRepo repository.NewsRepository,
	notifier telegram.Notifier,
) ReportService {
	return &reportService{
		cfg:        cfg,
		logger:     log,
		calendar:   calendar,
		marketData: marketData,
		moverSvc:   moverSvc,
		newsSvc:    newsSvc,
		reportRepo: reportRepo,
		priceRepo:  priceRepo,
		moverRepo:  moverRepo,
		newsRepo:   newsRepo,
		notifier:   notifier,
	}
}

type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return fmt.Sprintf("%s: %v", e.stage, e.err) }
func (e *stageError) Unwrap() error { return e.err }

func fail(stage string, err error) error {
	return &stageError{stage: stage, err: err}
}

// GenerateDailyReport is a no-op for non-trading days and for dates that already
// have a report. Any failure triggers a notification naming the failed stage.
func (s *reportService) GenerateDailyReport(ctx context.Context, date time.Time) (*dto.DailyReportResult, error) {
	date = utils.DateOnly(date)
	result, err := s.generate(ctx, date)
	if err != nil {
		stage := StageReport
		var se *stageError
		if errors.As(err, &se) {
			stage = se.stage
		}
		s.logger.Error("Daily report failed",
			logger.ErrorField(err),
			logger.StringField("stage", stage),
			logger.StringField("date", utils.FormatDate(date)))
		if sendErr := s.notifier.SendMessage(telegram.FormatErrorAlertMessage(time.Now(), stage, err.Error(), utils.FormatDate(date))); sendErr != nil {
			s.logger.Error("Failed to send failure notification", logger.ErrorField(sendErr))
		}
		return nil, err
	}
	return result, nil
}

func (s *reportService) generate(ctx context.Context, date time.Time) (*dto.DailyReportResult, error) {
	start := time.Now()
	result := &dto.DailyReportResult{Date: utils.FormatDate(date)}

	if s.calendar != nil && !s.calendar.IsTradingDay(date) {
		result.Status = dto.ReportStatusNoData
		result.Reason = "not a trading day"
		s.logger.Info("Skipping report for non-trading day", logger.StringField("date", result.Date))
		return result, nil
	}

	existing, err := s.reportRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, fail(StageReport, fmt.Errorf("failed to load report: %w", err))
	}
	if existing != nil {
		result.Status = dto.ReportStatusExists
		result.Report = existing
		result.GenerationSeconds = existing.GenerationSeconds
		s.logger.Info("Report already generated", logger.StringField("date", result.Date))
		return result, nil
	}

	if _, err := s.marketData.EnsureConstituents(ctx, date); err != nil {
		return nil, fail(StageConstituents, err)
	}

	level, err := s.marketData.GetOrFetchIndexLevel(ctx, date)
	if err != nil {
		return nil, fail(StageIndexLevel, err)
	}

	prices, err := s.marketData.FetchDailyPrices(ctx, date)
	if err != nil {
		return nil, fail(StagePrices, err)
	}

	moversResult, err := s.moverSvc.IdentifyTopMovers(ctx, date)
	if errors.Is(err, movers.ErrNoActiveConstituents) {
		s.logger.Warn("Registry has no active constituents, refreshing and retrying once",
			logger.StringField("date", result.Date))
		if _, refreshErr := s.marketData.RefreshConstituents(ctx, date); refreshErr != nil {
			return nil, fail(StageConstituents, refreshErr)
		}
		// The first fetch ran against the empty registry.
		prices, err = s.marketData.FetchDailyPrices(ctx, date)
		if err != nil {
			return nil, fail(StagePrices, err)
		}
		moversResult, err = s.moverSvc.IdentifyTopMovers(ctx, date)
	}
	if err != nil {
		return nil, fail(StageMovers, err)
	}

	if moversResult.Count() == 0 {
		result.Status = dto.ReportStatusNoData
		result.Reason = "no movers for date"
		s.logger.Info("No movers, report not generated", logger.StringField("date", result.Date))
		return result, nil
	}

	if _, err := s.newsSvc.FetchNews(ctx, date); err != nil {
		return nil, fail(StageNews, err)
	}
	if _, err := s.newsSvc.AnalyzeSentiment(ctx, date); err != nil {
		return nil, fail(StageSentiment, err)
	}

	analyzed, err := s.newsRepo.CountByDate(ctx, date)
	if err != nil {
		return nil, fail(StageReport, fmt.Errorf("failed to count news: %w", err))
	}

	report := &entity.DailyReport{
		ReportDate:            date,
		IndexClose:            level.CurrentPrice,
		IndexChange:           level.Change,
		IndexPercentChange:    level.PercentChange,
		ConstituentsProcessed: prices.Requested,
		PricesCaptured:        prices.Captured + prices.AlreadyStored,
		ExcludedSymbols:       moversResult.Excluded,
		MoversSelected:        moversResult.Count(),
		NewsArticlesAnalyzed:  int(analyzed),
		GenerationSeconds:     time.Since(start).Seconds(),
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fail(StageReport, fmt.Errorf("failed to store report: %w", err))
	}

	s.notify(ctx, report)

	result.Status = dto.ReportStatusGenerated
	result.Report = report
	result.GenerationSeconds = report.GenerationSeconds

	s.logger.Info("Daily report generated",
		logger.StringField("date", result.Date),
		logger.IntField("movers", report.MoversSelected),
		logger.IntField("news", report.NewsArticlesAnalyzed),
		logger.FloatField("seconds", report.GenerationSeconds))

	return result, nil
}

// notify delivers the digest. Delivery failures are logged and leave the report unmarked.
func (s *reportService) notify(ctx context.Context, report *entity.DailyReport) {
	if !s.notifier.Enabled() {
		return
	}

	digest, err := s.BuildMoversReport(ctx, report.ReportDate)
	if err != nil {
		s.logger.Error("Failed to build digest", logger.ErrorField(err))
		return
	}

	for _, msg := range telegram.FormatMoversReport(digest) {
		if err := s.notifier.SendMessage(msg); err != nil {
			s.logger.Error("Failed to send digest", logger.ErrorField(err))
			return
		}
	}

	now := time.Now()
	if err := s.reportRepo.MarkNotified(ctx, report.ID, now); err != nil {
		s.logger.Error("Failed to mark report notified", logger.ErrorField(err))
		return
	}
	report.NotificationSent = true
	report.NotificationSentAt = &now
}

// BuildMoversReport assembles the stored index level and movers of date.
func (s *reportService) BuildMoversReport(ctx context.Context, date time.Time) (*dto.MoversReport, error) {
	date = utils.DateOnly(date)

	level, err := s.priceRepo.FindIndexLevel(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load index level: %w", err)
	}
	if level == nil {
		return nil, movers.ErrMissingIndexLevel
	}

	records, err := s.moverRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load movers: %w", err)
	}

	report := &dto.MoversReport{
		Date:         date,
		IndexName:    s.cfg.Market.IndexName,
		IndexSummary: *level,
	}
	for _, m := range records {
		if m.MoverType == entity.MoverTypeGainer {
			report.Gainers = append(report.Gainers, m)
		} else {
			report.Losers = append(report.Losers, m)
		}
	}
	sortByRank(report.Gainers)
	sortByRank(report.Losers)
	return report, nil
}
