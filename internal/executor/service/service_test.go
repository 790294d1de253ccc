package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/config"
	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/internal/executor/repository"
	pkgconfig "golang-market-movers/pkg/config"
	"golang-market-movers/pkg/utils"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDate = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.Constituent{},
		&entity.PriceObservation{},
		&entity.IndexLevel{},
		&entity.MoverRecord{},
		&entity.NewsItem{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Market: pkgconfig.Market{
			IndexName:        "S&P 500",
			IndexProxySymbol: "SPY",
			IndexProxyScale:  10,
			Timezone:         "America/New_York",
			TopMovers:        5,
		},
		Executor: config.Executor{MaxConcurrentFetch: 4},
		News: config.News{
			LookbackHours:        8,
			MaxHeadlinesPerStock: 20,
			MaxHeadlineLength:    500,
		},
	}
}

type mockMarketData struct {
	mock.Mock
}

func (m *mockMarketData) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Quote), args.Error(1)
}

type mockConstituentSource struct {
	mock.Mock
}

func (m *mockConstituentSource) FetchConstituents(ctx context.Context) ([]dto.ConstituentSource, error) {
	args := m.Called(ctx)
	sources, _ := args.Get(0).([]dto.ConstituentSource)
	return sources, args.Error(1)
}

type mockNewsProvider struct {
	mock.Mock
}

func (m *mockNewsProvider) FetchNews(ctx context.Context, symbol string, from, to time.Time) ([]dto.NewsArticle, error) {
	args := m.Called(ctx, symbol, from, to)
	articles, _ := args.Get(0).([]dto.NewsArticle)
	return articles, args.Error(1)
}

// keywordClassifier labels text by the first keyword it contains.
type keywordClassifier struct {
	mu    sync.Mutex
	calls int
}

func (k *keywordClassifier) Classify(_ context.Context, text string) (string, float64, error) {
	k.mu.Lock()
	k.calls++
	k.mu.Unlock()
	switch {
	case strings.Contains(text, "surge"):
		return entity.SentimentPositive, 0.9, nil
	case strings.Contains(text, "beat"):
		return entity.SentimentPositive, 0.7, nil
	case strings.Contains(text, "slump"):
		return entity.SentimentNegative, 0.8, nil
	default:
		return entity.SentimentNeutral, 0.5, nil
	}
}

type recordingNotifier struct {
	enabled  bool
	messages []string
}

func (r *recordingNotifier) SendMessage(text string) error {
	r.messages = append(r.messages, text)
	return nil
}

func (r *recordingNotifier) Enabled() bool { return r.enabled }

// memoryReportRepository stands in for the postgres-only daily_reports table.
type memoryReportRepository struct {
	mu       sync.Mutex
	reports  map[string]*entity.DailyReport
	notified map[uint]time.Time
	nextID   uint
}

func newMemoryReportRepository() *memoryReportRepository {
	return &memoryReportRepository{reports: map[string]*entity.DailyReport{}, notified: map[uint]time.Time{}}
}

func (r *memoryReportRepository) FindByDate(_ context.Context, date time.Time) (*entity.DailyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reports[utils.FormatDate(date)], nil
}

func (r *memoryReportRepository) Create(_ context.Context, report *entity.DailyReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	report.ID = r.nextID
	r.reports[utils.FormatDate(report.ReportDate)] = report
	return nil
}

func (r *memoryReportRepository) MarkNotified(_ context.Context, id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notified[id] = at
	return nil
}

var _ repository.ReportRepository = (*memoryReportRepository)(nil)

func quote(symbol string, price, change, pct float64) *dto.Quote {
	return &dto.Quote{
		Symbol:        symbol,
		CurrentPrice:  price,
		Change:        change,
		PercentChange: &pct,
		High:          price,
		Low:           price,
		Open:          price,
		PreviousClose: price - change,
	}
}

func seedConstituents(t *testing.T, db *gorm.DB) {
	t.Helper()
	members := []entity.Constituent{
		{Symbol: "AAPL", CompanyName: "Apple Inc.", Weight: 7.0},
		{Symbol: "MSFT", CompanyName: "Microsoft Corp.", Weight: 6.5},
		{Symbol: "NVDA", CompanyName: "NVIDIA Corp.", Weight: 5.0},
	}
	_, err := repository.NewConstituentRepository(db).Sync(context.Background(), members, testDate)
	require.NoError(t, err)
}
