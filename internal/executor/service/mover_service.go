package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/internal/executor/repository"
	"golang-market-movers/internal/movers"
	"golang-market-movers/pkg/logger"
	"golang-market-movers/pkg/utils"
)

// MoverService ranks a date's constituents and stores the top movers.
type MoverService interface {
	IdentifyTopMovers(ctx context.Context, date time.Time) (*dto.MoversResult, error)
}

type moverService struct {
	logger          *logger.Logger
	ranker          *movers.Ranker
	constituentRepo repository.ConstituentRepository
	priceRepo       repository.PriceRepository
	moverRepo       repository.MoverRepository
}

// NewMoverService creates a new MoverService.
func NewMoverService(
	log *logger.Logger,
	ranker *movers.Ranker,
	constituentRepo repository.ConstituentRepository,
	priceRepo repository.PriceRepository,
	moverRepo repository.MoverRepository,
) MoverService {
	return &moverService{
		logger:          log,
		ranker:          ranker,
		constituentRepo: constituentRepo,
		priceRepo:       priceRepo,
		moverRepo:       moverRepo,
	}
}

// IdentifyTopMovers returns the stored movers when the date was already ranked.
// Otherwise it ranks and inserts them in one transaction.
func (s *moverService) IdentifyTopMovers(ctx context.Context, date time.Time) (*dto.MoversResult, error) {
	date = utils.DateOnly(date)
	result := &dto.MoversResult{Date: utils.FormatDate(date)}

	existing, err := s.moverRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load movers: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info("Movers already stored, skipping ranking",
			logger.StringField("date", result.Date),
			logger.IntField("count", len(existing)))
		result.Skipped = true
		splitMovers(result, existing)
		return result, nil
	}

	level, err := s.priceRepo.FindIndexLevel(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load index level: %w", err)
	}
	var indexLevel *float64
	if level != nil {
		indexLevel = &level.CurrentPrice
	}

	constituents, err := s.constituentRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load constituents: %w", err)
	}
	prices, err := s.priceRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}

	ranking, err := s.ranker.Rank(date, indexLevel, constituents, prices)
	if err != nil {
		return nil, fmt.Errorf("failed to rank movers for %s: %w", result.Date, err)
	}

	result.Excluded = ranking.Excluded
	if len(ranking.Excluded) > 0 {
		s.logger.Warn("Incomplete price data, constituents excluded from ranking",
			logger.StringField("date", result.Date),
			logger.IntField("excluded", len(ranking.Excluded)),
			logger.Field("symbols", ranking.Excluded))
	}

	records := ranking.Movers()
	if len(records) == 0 {
		s.logger.Info("No movers for date", logger.StringField("date", result.Date))
		return result, nil
	}

	if err := s.moverRepo.CreateAll(ctx, records); err != nil {
		if errors.Is(err, movers.ErrDuplicateWrite) {
			return nil, fmt.Errorf("movers for %s were written concurrently: %w", result.Date, err)
		}
		return nil, fmt.Errorf("failed to store movers: %w", err)
	}

	stored, err := s.moverRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to reload movers: %w", err)
	}
	splitMovers(result, stored)

	s.logger.Info("Top movers identified",
		logger.StringField("date", result.Date),
		logger.IntField("gainers", len(result.Gainers)),
		logger.IntField("losers", len(result.Losers)))

	return result, nil
}

func splitMovers(result *dto.MoversResult, records []entity.MoverRecord) {
	for _, m := range records {
		if m.MoverType == entity.MoverTypeGainer {
			result.Gainers = append(result.Gainers, m)
		} else {
			result.Losers = append(result.Losers, m)
		}
	}
}
