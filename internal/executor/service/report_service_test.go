package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-market-movers/internal/executor/dto"
	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/executor/repository"
	"golang-market-movers/internal/movers"
	"golang-market-movers/pkg/logger"
	"golang-market-movers/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type reportFixture struct {
	svc      ReportService
	reports  *memoryReportRepository
	notifier *recordingNotifier
	md       *mockMarketData
	src      *mockConstituentSource
	news     *mockNewsProvider
}

func newReportFixture(db *gorm.DB, calendar *utils.TradingCalendar) *reportFixture {
	f := &reportFixture{
		reports:  newMemoryReportRepository(),
		notifier: &recordingNotifier{enabled: true},
		md:       new(mockMarketData),
		src:      new(mockConstituentSource),
		news:     new(mockNewsProvider),
	}
	cfg := testConfig()
	log := logger.NewNop()
	priceRepo := repository.NewPriceRepository(db)
	moverRepo := repository.NewMoverRepository(db)
	newsRepo := repository.NewNewsRepository(db)

	marketData := NewMarketDataService(cfg, log, repository.NewConstituentRepository(db), priceRepo, f.md, f.src)
	f.svc = NewReportService(
		cfg,
		log,
		calendar,
		marketData,
		newMoverService(db),
		newNewsService(db, f.news, &keywordClassifier{}),
		f.reports,
		priceRepo,
		moverRepo,
		newsRepo,
		f.notifier,
	)
	return f
}

func TestGenerateDailyReport(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedConstituents(t, db)

	f := newReportFixture(db, nil)
	f.md.On("GetQuote", mock.Anything, "SPY").Return(quote("SPY", 507.3, 4.8, 0.95), nil).Once()
	f.md.On("GetQuote", mock.Anything, "AAPL").Return(quote("AAPL", 190, 3.7, 2.0), nil).Once()
	f.md.On("GetQuote", mock.Anything, "MSFT").Return(quote("MSFT", 400, -6, -1.5), nil).Once()
	f.md.On("GetQuote", mock.Anything, "NVDA").Return(nil, repository.ErrQuoteUnavailable).Once()
	f.news.On("FetchNews", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	result, err := f.svc.GenerateDailyReport(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, dto.ReportStatusGenerated, result.Status)
	require.NotNil(t, result.Report)
	assert.InDelta(t, 5073.0, result.Report.IndexClose, 1e-9)
	assert.Equal(t, 3, result.Report.ConstituentsProcessed)
	assert.Equal(t, 2, result.Report.PricesCaptured)
	assert.Equal(t, []string{"NVDA"}, []string(result.Report.ExcludedSymbols))
	assert.Equal(t, 2, result.Report.MoversSelected)
	assert.True(t, result.Report.NotificationSent)
	assert.NotEmpty(t, f.notifier.messages)
	assert.Contains(t, f.notifier.messages[0], "AAPL")

	again, err := f.svc.GenerateDailyReport(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, dto.ReportStatusExists, again.Status)
	f.md.AssertExpectations(t)
}

func TestGenerateDailyReportNoMovers(t *testing.T) {
	db := newTestDB(t)
	seedConstituents(t, db)

	f := newReportFixture(db, nil)
	f.md.On("GetQuote", mock.Anything, "SPY").Return(quote("SPY", 507.3, 0, 0), nil)
	f.md.On("GetQuote", mock.Anything, mock.Anything).Return(quote("X", 100, 0, 0), nil)

	result, err := f.svc.GenerateDailyReport(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, dto.ReportStatusNoData, result.Status)
	assert.Empty(t, f.reports.reports)
	assert.Empty(t, f.notifier.messages)
}

func TestGenerateDailyReportSkipsNonTradingDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	db := newTestDB(t)
	f := newReportFixture(db, utils.NewTradingCalendar("xnys", ny))

	saturday := time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)
	result, err := f.svc.GenerateDailyReport(context.Background(), saturday)
	require.NoError(t, err)
	assert.Equal(t, dto.ReportStatusNoData, result.Status)
	f.md.AssertNotCalled(t, "GetQuote", mock.Anything, mock.Anything)
}

func TestGenerateDailyReportNotifiesFailure(t *testing.T) {
	db := newTestDB(t)
	seedConstituents(t, db)

	f := newReportFixture(db, nil)
	f.md.On("GetQuote", mock.Anything, "SPY").Return(nil, errors.New("upstream down"))

	_, err := f.svc.GenerateDailyReport(context.Background(), testDate)
	require.Error(t, err)
	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "upstream down")
}

func TestBuildMoversReportRequiresIndexLevel(t *testing.T) {
	db := newTestDB(t)
	f := newReportFixture(db, nil)

	_, err := f.svc.BuildMoversReport(context.Background(), testDate)
	assert.ErrorIs(t, err, movers.ErrMissingIndexLevel)
}

type mockMarketDataService struct {
	mock.Mock
}

func (m *mockMarketDataService) RefreshConstituents(ctx context.Context, date time.Time) (*dto.ConstituentRefreshResult, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ConstituentRefreshResult), args.Error(1)
}

func (m *mockMarketDataService) EnsureConstituents(ctx context.Context, date time.Time) (int, error) {
	args := m.Called(ctx, date)
	return args.Int(0), args.Error(1)
}

func (m *mockMarketDataService) GetOrFetchIndexLevel(ctx context.Context, date time.Time) (*entity.IndexLevel, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.IndexLevel), args.Error(1)
}

func (m *mockMarketDataService) FetchDailyPrices(ctx context.Context, date time.Time) (*dto.PriceFetchResult, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PriceFetchResult), args.Error(1)
}

type mockMoverService struct {
	mock.Mock
}

func (m *mockMoverService) IdentifyTopMovers(ctx context.Context, date time.Time) (*dto.MoversResult, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MoversResult), args.Error(1)
}

func TestGenerateDailyReportRefetchesPricesAfterRefresh(t *testing.T) {
	md := new(mockMarketDataService)
	md.On("EnsureConstituents", mock.Anything, testDate).Return(0, nil)
	md.On("GetOrFetchIndexLevel", mock.Anything, testDate).Return(&entity.IndexLevel{Date: testDate, CurrentPrice: 507.3}, nil)
	md.On("FetchDailyPrices", mock.Anything, testDate).Return(&dto.PriceFetchResult{Date: utils.FormatDate(testDate)}, nil).Once()
	md.On("RefreshConstituents", mock.Anything, testDate).Return(&dto.ConstituentRefreshResult{Active: 3}, nil).Once()
	md.On("FetchDailyPrices", mock.Anything, testDate).Return(&dto.PriceFetchResult{Date: utils.FormatDate(testDate), Requested: 3, Captured: 3}, nil).Once()

	moverSvc := new(mockMoverService)
	moverSvc.On("IdentifyTopMovers", mock.Anything, testDate).Return(nil, movers.ErrNoActiveConstituents).Once()
	moverSvc.On("IdentifyTopMovers", mock.Anything, testDate).Return(&dto.MoversResult{Date: utils.FormatDate(testDate)}, nil).Once()

	reports := newMemoryReportRepository()
	notifier := &recordingNotifier{enabled: true}
	svc := NewReportService(testConfig(), logger.NewNop(), nil, md, moverSvc, nil, reports, nil, nil, nil, notifier)

	result, err := svc.GenerateDailyReport(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, dto.ReportStatusNoData, result.Status)
	md.AssertNumberOfCalls(t, "FetchDailyPrices", 2)
	md.AssertNumberOfCalls(t, "RefreshConstituents", 1)
	moverSvc.AssertNumberOfCalls(t, "IdentifyTopMovers", 2)
	assert.Empty(t, notifier.messages)
}

func TestGenerateDailyReportFailsWhenRefetchFails(t *testing.T) {
	md := new(mockMarketDataService)
	md.On("EnsureConstituents", mock.Anything, testDate).Return(0, nil)
	md.On("GetOrFetchIndexLevel", mock.Anything, testDate).Return(&entity.IndexLevel{Date: testDate, CurrentPrice: 507.3}, nil)
	md.On("FetchDailyPrices", mock.Anything, testDate).Return(&dto.PriceFetchResult{}, nil).Once()
	md.On("RefreshConstituents", mock.Anything, testDate).Return(&dto.ConstituentRefreshResult{Active: 3}, nil).Once()
	md.On("FetchDailyPrices", mock.Anything, testDate).Return(nil, errors.New("quote feed down")).Once()

	moverSvc := new(mockMoverService)
	moverSvc.On("IdentifyTopMovers", mock.Anything, testDate).Return(nil, movers.ErrNoActiveConstituents).Once()

	notifier := &recordingNotifier{enabled: true}
	svc := NewReportService(testConfig(), logger.NewNop(), nil, md, moverSvc, nil, newMemoryReportRepository(), nil, nil, nil, notifier)

	_, err := svc.GenerateDailyReport(context.Background(), testDate)
	require.Error(t, err)
	moverSvc.AssertNumberOfCalls(t, "IdentifyTopMovers", 1)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], StagePrices)
}
