package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-market-movers/internal/executor/config"
	"golang-market-movers/internal/executor/delivery/consumer"
	"golang-market-movers/internal/executor/repository"
	"golang-market-movers/internal/executor/service"
	"golang-market-movers/internal/executor/strategy"
	"golang-market-movers/internal/movers"
	"golang-market-movers/pkg/logger"
	"golang-market-movers/pkg/postgres"
	"golang-market-movers/pkg/redis"
	"golang-market-movers/pkg/telegram"
	"golang-market-movers/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

var (
	configPath string
	reportDate string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the execution service",
	Run:   runServe,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generates the top movers report for one date and exits",
	Run:   runOnce,
}

// pipeline is what serve and run share.
type pipeline struct {
	reports    service.ReportService
	strategies []strategy.JobExecutionStrategy
}

func loadConfig() (*config.Config, *logger.Logger) {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return cfg, appLogger
}

func openDatabase(cfg *config.Config, appLogger *logger.Logger) *postgres.DB {
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	return db
}

func buildPipeline(ctx context.Context, cfg *config.Config, appLogger *logger.Logger, db *gorm.DB) *pipeline {
	// Initialize repositories
	constituentRepo := repository.NewConstituentRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	moverRepo := repository.NewMoverRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	reportRepo := repository.NewReportRepository(db)
	constituentSource := repository.NewConstituentFileRepository(cfg.Constituents.SourceFile, cfg.Constituents.MaxConstituents)

	// Initialize providers
	finnhubRepo := repository.NewFinnhubRepository(cfg, appLogger)
	quoteRepo := repository.NewCachedMarketDataRepository(
		repository.NewRateLimitedMarketDataRepository(finnhubRepo, cfg.Finnhub.MaxRequestPerMinute),
		cfg.Finnhub.QuoteCacheTTL,
	)

	var newsProviders []repository.NewsProviderRepository
	for _, name := range cfg.News.Providers {
		switch name {
		case "finnhub":
			newsProviders = append(newsProviders, repository.NewRateLimitedNewsRepository(finnhubRepo, cfg.Finnhub.MaxRequestPerMinute))
		case "rss":
			newsProviders = append(newsProviders, repository.NewRateLimitedNewsRepository(repository.NewRSSNewsRepository(cfg, appLogger), cfg.News.MaxRequestPerMinute))
		default:
			appLogger.Fatal("Invalid news provider specified in config", zap.String("provider", name))
		}
	}
	if len(newsProviders) == 0 {
		appLogger.Fatal("No news provider configured")
	}
	newsProvider := repository.NewCompositeNewsRepository(appLogger, newsProviders...)

	// Initialize sentiment classifier
	genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI client", zap.Error(err))
	}
	sentimentRepo := repository.NewCachedSentimentRepository(
		repository.NewRateLimitedSentimentRepository(
			repository.NewGeminiSentimentRepository(cfg, appLogger, genAiClient),
			cfg.Gemini.MaxRequestPerMinute,
		),
		cfg.Gemini.CacheTTL,
	)

	telegramNotifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram notifier", zap.Error(err))
	}
	if !telegramNotifier.Enabled() {
		appLogger.Warn("Telegram notifier disabled, reports will not be delivered")
	}

	loc := utils.LoadLocation(cfg.Market.Timezone)
	calendar := utils.NewTradingCalendar(cfg.Market.CalendarMIC, loc)

	// Initialize services
	marketDataSvc := service.NewMarketDataService(cfg, appLogger, constituentRepo, priceRepo, quoteRepo, constituentSource)
	moverSvc := service.NewMoverService(appLogger, movers.NewRanker(cfg.Market.TopMovers), constituentRepo, priceRepo, moverRepo)
	newsSvc := service.NewNewsService(cfg, appLogger, movers.NewAligner(cfg.Sentiment.InputLimit), moverRepo, newsRepo, newsProvider, sentimentRepo)
	reportSvc := service.NewReportService(
		cfg,
		appLogger,
		calendar,
		marketDataSvc,
		moverSvc,
		newsSvc,
		reportRepo,
		priceRepo,
		moverRepo,
		newsRepo,
		telegramNotifier,
	)

	// Initialize strategies
	dates := strategy.NewDateResolver(calendar.Location())
	strategies := []strategy.JobExecutionStrategy{
		strategy.NewConstituentRefreshStrategy(appLogger, dates, marketDataSvc),
		strategy.NewPriceSnapshotStrategy(appLogger, dates, marketDataSvc),
		strategy.NewTopMoversStrategy(appLogger, dates, moverSvc),
		strategy.NewNewsSentimentStrategy(appLogger, dates, newsSvc),
		strategy.NewDailyReportStrategy(appLogger, dates, reportSvc),
	}

	return &pipeline{
		reports:    reportSvc,
		strategies: strategies,
	}
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, appLogger := loadConfig()
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Execution Service", zap.String("name", cfg.App.Name))

	db := openDatabase(cfg, appLogger)
	defer db.Close()

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer redisClient.Close()

	p := buildPipeline(ctx, cfg, appLogger, db.DB)

	jobRepo := repository.NewJobRepository(db.DB)
	historyRepo := repository.NewTaskExecutionHistoryRepository(db.DB)
	executorSvc := service.NewExecutorService(redisClient.Client, jobRepo, historyRepo, appLogger, cfg.Executor.DefaultJobTimeout, p.strategies)

	// Initialize and start the Redis consumer
	redisConsumer := consumer.NewRedisConsumer(cfg, redisClient, executorSvc, appLogger)
	if err := redisConsumer.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start Redis consumer", logger.ErrorField(err))
	}

	appLogger.Info("Execution service started. Waiting for tasks...")

	// Wait for interrupt signal to gracefully shut down the service
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down execution service...")
	cancel()
	redisConsumer.Stop()
	appLogger.Info("Execution service stopped.")
}

func runOnce(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, appLogger := loadConfig()
	defer func() { _ = appLogger.Sync() }()

	loc := utils.LoadLocation(cfg.Market.Timezone)
	date := utils.MarketDate(time.Now(), loc)
	if reportDate != "" {
		parsed, err := utils.ParseDate(reportDate)
		if err != nil {
			appLogger.Fatal("Invalid report date", logger.ErrorField(err))
		}
		date = parsed
	}

	db := openDatabase(cfg, appLogger)
	defer db.Close()

	p := buildPipeline(ctx, cfg, appLogger, db.DB)

	appLogger.Info("Generating daily report", logger.StringField("date", utils.FormatDate(date)))
	result, err := p.reports.GenerateDailyReport(ctx, date)
	if err != nil {
		appLogger.Fatal("Daily report failed", logger.ErrorField(err))
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		appLogger.Fatal("Failed to encode report result", logger.ErrorField(err))
	}
	fmt.Println(string(out))
}

func main() {
	rootCmd := &cobra.Command{Use: "execution-service"}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-executor.yaml", "Path to the configuration file")

	runCmd.Flags().StringVarP(&reportDate, "date", "d", "", "Report date (YYYY-MM-DD), defaults to today in the market timezone")

	rootCmd.AddCommand(serveCmd, runCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing execution-service CLI: %s\n", err)
		os.Exit(1)
	}
}
