package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-market-movers/internal/scheduler/config"
	delivery "golang-market-movers/internal/scheduler/delivery/http"
	_ "golang-market-movers/internal/scheduler/docs"
	"golang-market-movers/internal/scheduler/repository"
	"golang-market-movers/internal/scheduler/service"
	"golang-market-movers/pkg/logger"
	"golang-market-movers/pkg/postgres"
	"golang-market-movers/pkg/redis"
	"golang-market-movers/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the scheduling service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Scheduling Service", logger.Field("name", cfg.App.Name))

	// Initialize database
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
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
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
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	jobRepo := repository.NewJobRepository(db.DB)
	scheduleRepo := repository.NewTaskScheduleRepository(db.DB)
	historyRepo := repository.NewTaskExecutionHistoryRepository(db.DB)
	marketRepo := repository.NewMarketRepository(db.DB)

	// Initialize services
	publisher := service.NewTaskPublisher(historyRepo, redisClient.Client, cfg.Redis.StreamMaxLen, appLogger)
	schedulerSvc := service.NewSchedulerService(scheduleRepo, publisher, appLogger, cfg.Scheduler.PollingInterval, utils.LoadLocation(cfg.Market.Timezone))
	jobSvc := service.NewJobService(jobRepo, appLogger)
	historySvc := service.NewExecutionHistoryService(historyRepo, appLogger)
	reportSvc := service.NewReportService(cfg, appLogger, marketRepo, jobRepo, publisher)

	// Start scheduler service
	go schedulerSvc.Start(ctx)

	e := newRouter(appLogger, db, redisClient, jobSvc, historySvc, reportSvc)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// newRouter mounts the API under /api/v1 next to swagger and the health check.
func newRouter(
	appLogger *logger.Logger,
	db *postgres.DB,
	redisClient *redis.Client,
	jobSvc service.JobService,
	historySvc service.ExecutionHistoryService,
	reportSvc service.ReportService,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	apiV1 := e.Group("/api/v1")

	jobsGroup := apiV1.Group("/jobs")
	delivery.NewJobHandler(jobSvc, appLogger).RegisterRoutes(jobsGroup)

	historyHandler := delivery.NewExecutionHistoryHandler(historySvc, appLogger)
	historyHandler.RegisterRoutes(apiV1.Group("/executions"))
	historyHandler.RegisterJobRoutes(jobsGroup)

	reportHandler := delivery.NewReportHandler(reportSvc, appLogger)
	reportHandler.RegisterRoutes(apiV1.Group("/reports"))
	reportHandler.RegisterMarketRoutes(apiV1.Group("/market"))

	e.GET("/swagger/*", swagger.WrapHandler)
	e.GET("/healthz", func(c echo.Context) error {
		ctx := c.Request().Context()
		sqlDB, err := db.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err == nil {
			err = redisClient.Ping(ctx).Err()
		}
		if err != nil {
			appLogger.Warn("Health check failed", logger.ErrorField(err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return e
}

// @title Market Movers API
// @version 1.0
// @description Schedules the top movers pipeline and serves its reports.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "scheduling-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-scheduler.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing scheduling-service CLI: %s\n", err)
		os.Exit(1)
	}
}
