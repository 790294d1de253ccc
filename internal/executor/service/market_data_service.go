package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/config"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/internal/executor/repository"
	"golang-market-movers/pkg/logger"
	"golang-market-movers/pkg/utils"
)

// MarketDataService keeps the registry, index levels and price snapshots current.
type MarketDataService interface {
	RefreshConstituents(ctx context.Context, date time.Time) (*dto.ConstituentRefreshResult, error)
	EnsureConstituents(ctx context.Context, date time.Time) (int, error)
	GetOrFetchIndexLevel(ctx context.Context, date time.Time) (*entity.IndexLevel, error)
	FetchDailyPrices(ctx context.Context, date time.Time) (*dto.PriceFetchResult, error)
}

type marketDataService struct {
	cfg               *config.Config
	logger            *logger.Logger
	constituentRepo   repository.ConstituentRepository
	priceRepo         repository.PriceRepository
	marketData        repository.MarketDataRepository
	constituentSource repository.ConstituentSourceRepository
}

// NewMarketDataService creates a new MarketDataService.
func NewMarketDataService(
	cfg *config.Config,
	log *logger.Logger,
	constituentRepo repository.ConstituentRepository,
	priceRepo repository.PriceRepository,
	marketData repository.MarketDataRepository,
	constituentSource repository.ConstituentSourceRepository,
) MarketDataService {
	return &marketDataService{
		cfg:               cfg,
		logger:            log,
		constituentRepo:   constituentRepo,
		priceRepo:         priceRepo,
		marketData:        marketData,
		constituentSource: constituentSource,
	}
}

// RefreshConstituents replaces the active registry with the source's current membership.
func (s *marketDataService) RefreshConstituents(ctx context.Context, date time.Time) (*dto.ConstituentRefreshResult, error) {
	sources, err := s.constituentSource.FetchConstituents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch constituents: %w", err)
	}
	if len(sources) == 0 {
		return nil, errors.New("constituent source returned no members")
	}

	members := make([]entity.Constituent, 0, len(sources))
	for _, src := range sources {
		members = append(members, entity.Constituent{
			Symbol:      utils.NormalizeSymbol(src.Symbol),
			CompanyName: src.Company,
			Sector:      src.Sector,
			Weight:      src.Weight,
		})
	}

	deactivated, err := s.constituentRepo.Sync(ctx, members, utils.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("failed to sync constituents: %w", err)
	}

	s.logger.Info("Constituent registry refreshed",
		logger.IntField("active", len(members)),
		logger.IntField("deactivated", len(deactivated)))

	return &dto.ConstituentRefreshResult{
		Date:        utils.FormatDate(date),
		Active:      len(members),
		Deactivated: deactivated,
	}, nil
}

// EnsureConstituents refreshes the registry only when it has no active member.
func (s *marketDataService) EnsureConstituents(ctx context.Context, date time.Time) (int, error) {
	count, err := s.constituentRepo.CountActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count constituents: %w", err)
	}
	if count > 0 {
		return int(count), nil
	}

	s.logger.Info("Constituent registry is empty, bootstrapping")
	result, err := s.RefreshConstituents(ctx, date)
	if err != nil {
		return 0, err
	}
	return result.Active, nil
}

// GetOrFetchIndexLevel returns the stored level for date, fetching it from the
// proxy instrument when absent. Price fields are multiplied by the proxy scale;
// the percent change is not.
func (s *marketDataService) GetOrFetchIndexLevel(ctx context.Context, date time.Time) (*entity.IndexLevel, error) {
	date = utils.DateOnly(date)
	level, err := s.priceRepo.FindIndexLevel(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load index level: %w", err)
	}
	if level != nil {
		return level, nil
	}

	quote, err := s.marketData.GetQuote(ctx, s.cfg.Market.IndexProxySymbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch index proxy %s: %w", s.cfg.Market.IndexProxySymbol, err)
	}

	scale := s.cfg.Market.IndexProxyScale
	if scale <= 0 {
		scale = 1
	}
	level = &entity.IndexLevel{
		Date:          date,
		CurrentPrice:  quote.CurrentPrice * scale,
		Change:        quote.Change * scale,
		High:          quote.High * scale,
		Low:           quote.Low * scale,
		Open:          quote.Open * scale,
		PreviousClose: quote.PreviousClose * scale,
	}
	if quote.PercentChange != nil {
		level.PercentChange = *quote.PercentChange
	}

	if _, err := s.priceRepo.CreateIndexLevel(ctx, level); err != nil {
		return nil, fmt.Errorf("failed to store index level: %w", err)
	}

	stored, err := s.priceRepo.FindIndexLevel(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to reload index level: %w", err)
	}
	if stored == nil {
		return level, nil
	}

	s.logger.Info("Index level stored",
		logger.StringField("date", utils.FormatDate(date)),
		logger.FloatField("level", stored.CurrentPrice))
	return stored, nil
}

// FetchDailyPrices quotes every active constituent that has no observation for
// date yet. Symbols are fetched concurrently; each goroutine writes its own row.
func (s *marketDataService) FetchDailyPrices(ctx context.Context, date time.Time) (*dto.PriceFetchResult, error) {
	date = utils.DateOnly(date)

	constituents, err := s.constituentRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load constituents: %w", err)
	}
	existing, err := s.priceRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored prices: %w", err)
	}

	stored := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		stored[p.Symbol] = struct{}{}
	}

	result := &dto.PriceFetchResult{
		Date:      utils.FormatDate(date),
		Requested: len(constituents),
	}

	var missing []string
	for _, c := range constituents {
		if _, ok := stored[c.Symbol]; ok {
			result.AlreadyStored++
			continue
		}
		missing = append(missing, c.Symbol)
	}

	maxConcurrent := s.cfg.Executor.MaxConcurrentFetch
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	semaphore := make(chan struct{}, maxConcurrent)

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, symbol := range missing {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			outcome := s.fetchPrice(ctx, date, symbol)

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case priceCaptured:
				result.Captured++
			case priceAlreadyStored:
				result.AlreadyStored++
			case priceUnavailable:
				result.Unavailable = append(result.Unavailable, symbol)
			default:
				result.Failed = append(result.Failed, symbol)
			}
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.logger.Info("Daily prices fetched",
		logger.StringField("date", result.Date),
		logger.IntField("requested", result.Requested),
		logger.IntField("captured", result.Captured),
		logger.IntField("already_stored", result.AlreadyStored),
		logger.IntField("unavailable", len(result.Unavailable)),
		logger.IntField("failed", len(result.Failed)))

	return result, nil
}

type priceOutcome int

const (
	priceFailed priceOutcome = iota
	priceCaptured
	priceAlreadyStored
	priceUnavailable
)

func (s *marketDataService) fetchPrice(ctx context.Context, date time.Time, symbol string) priceOutcome {
	quote, err := s.marketData.GetQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrQuoteUnavailable) {
			s.logger.Warn("Quote unavailable", logger.StringField("symbol", symbol))
			return priceUnavailable
		}
		s.logger.Error("Failed to fetch quote", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return priceFailed
	}

	created, err := s.priceRepo.Create(ctx, &entity.PriceObservation{
		Symbol:        symbol,
		Date:          date,
		CurrentPrice:  quote.CurrentPrice,
		Change:        quote.Change,
		PercentChange: quote.PercentChange,
		High:          quote.High,
		Low:           quote.Low,
		Open:          quote.Open,
		PreviousClose: quote.PreviousClose,
	})
	if err != nil {
		s.logger.Error("Failed to store price", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return priceFailed
	}
	if !created {
		return priceAlreadyStored
	}
	return priceCaptured
}
