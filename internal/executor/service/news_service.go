package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/config"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/internal/executor/repository"
	"golang-market-movers/internal/movers"
	"golang-market-movers/pkg/logger"
	"golang-market-movers/pkg/utils"
)

// NewsService fetches headlines for a date's movers and aligns their sentiment.
type NewsService interface {
	FetchNews(ctx context.Context, date time.Time) (*dto.NewsFetchResult, error)
	AnalyzeSentiment(ctx context.Context, date time.Time) (*dto.SentimentRunResult, error)
}

type newsService struct {
	cfg        *config.Config
	logger     *logger.Logger
	aligner    *movers.Aligner
	moverRepo  repository.MoverRepository
	newsRepo   repository.NewsRepository
	provider   repository.NewsProviderRepository
	classifier movers.Classifier
}

// NewNewsService creates a new NewsService.
func NewNewsService(
	cfg *config.Config,
	log *logger.Logger,
	aligner *movers.Aligner,
	moverRepo repository.MoverRepository,
	newsRepo repository.NewsRepository,
	provider repository.NewsProviderRepository,
	classifier movers.Classifier,
) NewsService {
	return &newsService{
		cfg:        cfg,
		logger:     log,
		aligner:    aligner,
		moverRepo:  moverRepo,
		newsRepo:   newsRepo,
		provider:   provider,
		classifier: classifier,
	}
}

// FetchNews stores headlines for every mover of date whose fetch has not
// completed yet. A symbol whose provider call or insert failed is retried on
// the next run; duplicate URLs are ignored by the store.
// The window opens lookback hours before the date and closes at the end of it.
func (s *newsService) FetchNews(ctx context.Context, date time.Time) (*dto.NewsFetchResult, error) {
	date = utils.DateOnly(date)
	result := &dto.NewsFetchResult{Date: utils.FormatDate(date)}

	records, err := s.moverRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load movers: %w", err)
	}
	if len(records) == 0 {
		return result, nil
	}

	from := date.Add(-time.Duration(s.cfg.News.LookbackHours) * time.Hour)
	to := date.Add(24 * time.Hour)

	maxConcurrent := s.cfg.Executor.MaxConcurrentFetch
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	semaphore := make(chan struct{}, maxConcurrent)

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, m := range records {
		if m.NewsFetchedAt != nil {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		symbol := m.Symbol
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			fetched, inserted, err := s.fetchSymbol(ctx, date, symbol, from, to)
			if err == nil {
				if markErr := s.moverRepo.MarkNewsFetched(ctx, date, symbol, time.Now()); markErr != nil {
					err = fmt.Errorf("failed to mark news fetched: %w", markErr)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			result.Fetched += fetched
			result.Inserted += inserted
			if err != nil {
				s.logger.Error("Failed to fetch news", logger.ErrorField(err), logger.StringField("symbol", symbol))
				result.Failed = append(result.Failed, symbol)
			}
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.logger.Info("News fetched",
		logger.StringField("date", result.Date),
		logger.IntField("fetched", result.Fetched),
		logger.IntField("inserted", result.Inserted),
		logger.IntField("failed", len(result.Failed)))

	return result, nil
}

func (s *newsService) fetchSymbol(ctx context.Context, date time.Time, symbol string, from, to time.Time) (int, int, error) {
	articles, err := s.provider.FetchNews(ctx, symbol, from, to)
	if err != nil {
		return 0, 0, err
	}

	limit := s.cfg.News.MaxHeadlinesPerStock
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}

	inserted := 0
	for _, a := range articles {
		created, err := s.newsRepo.Create(ctx, &entity.NewsItem{
			Symbol:      symbol,
			Date:        date,
			Headline:    utils.TruncateRunes(a.Headline, s.cfg.News.MaxHeadlineLength),
			Summary:     a.Summary,
			URL:         a.URL,
			Source:      a.Source,
			Related:     a.Related,
			PublishedAt: a.PublishedAt,
		})
		if err != nil {
			return len(articles), inserted, fmt.Errorf("failed to store news item: %w", err)
		}
		if created {
			inserted++
		}
	}
	return len(articles), inserted, nil
}

// AnalyzeSentiment classifies the date's unlabelled headlines, picks the
// representative ones per mover and persists only what changed.
func (s *newsService) AnalyzeSentiment(ctx context.Context, date time.Time) (*dto.SentimentRunResult, error) {
	date = utils.DateOnly(date)
	result := &dto.SentimentRunResult{Date: utils.FormatDate(date)}

	records, err := s.moverRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load movers: %w", err)
	}
	items, err := s.newsRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load news: %w", err)
	}

	moverPtrs := make([]*entity.MoverRecord, len(records))
	for i := range records {
		moverPtrs[i] = &records[i]
	}
	newsPtrs := make([]*entity.NewsItem, len(items))
	for i := range items {
		newsPtrs[i] = &items[i]
	}

	alignment, alignErr := s.aligner.Align(ctx, date, moverPtrs, newsPtrs, s.classifier)

	// partial progress is saved even when the pass was cancelled
	saveCtx := context.WithoutCancel(ctx)
	if err := s.newsRepo.SaveSentiment(saveCtx, alignment.Dirty()); err != nil {
		return nil, fmt.Errorf("failed to save sentiment: %w", err)
	}
	for _, m := range alignment.UpdatedMovers {
		if err := s.moverRepo.UpdateHeadlines(saveCtx, m); err != nil {
			return nil, fmt.Errorf("failed to update headlines for %s: %w", m.Symbol, err)
		}
	}

	result.Scored = len(alignment.Scored)
	result.Failed = len(alignment.Failed)
	result.Reflagged = len(alignment.Reflagged)
	result.MoversUpdated = len(alignment.UpdatedMovers)

	if alignErr != nil {
		return result, fmt.Errorf("sentiment alignment interrupted: %w", alignErr)
	}

	if result.Failed > 0 {
		s.logger.Warn("Some headlines could not be classified",
			logger.StringField("date", result.Date),
			logger.IntField("failed", result.Failed))
	}
	s.logger.Info("Sentiment aligned",
		logger.StringField("date", result.Date),
		logger.IntField("scored", result.Scored),
		logger.IntField("reflagged", result.Reflagged),
		logger.IntField("movers_updated", result.MoversUpdated))

	return result, nil
}
