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

	"golang-portfolio-guardian/internal/guardian/config"
	delivery "golang-portfolio-guardian/internal/guardian/delivery/http"
	_ "golang-portfolio-guardian/internal/guardian/docs"
	"golang-portfolio-guardian/internal/guardian/repository"
	"golang-portfolio-guardian/internal/guardian/service"
	"golang-portfolio-guardian/pkg/logger"
	"golang-portfolio-guardian/pkg/mailer"
	"golang-portfolio-guardian/pkg/postgres"
	"golang-portfolio-guardian/pkg/redis"
	"golang-portfolio-guardian/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the portfolio guardian service",
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

	appLogger.Info("Starting Portfolio Guardian Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

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

	// Initialize notification channels
	telegramNotifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
	}
	mailClient := mailer.NewClient(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	holdingRepo := repository.NewHoldingRepository(db.DB)
	stopLossConfigRepo := repository.NewStopLossConfigRepository(db.DB)
	riskProfileRepo := repository.NewRiskProfileRepository(db.DB)
	sellOrderRepo := repository.NewSellOrderRepository(db.DB)
	autoSellLogRepo := repository.NewAutoSellLogRepository(db.DB)
	monitoringSessionRepo := repository.NewMonitoringSessionRepository(db.DB)
	marketDataRepo, err := repository.NewSimulatedMarketDataRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize market data repository", logger.ErrorField(err))
	}
	brokerageRepo := repository.NewSimulatedBrokerageRepository(cfg, appLogger)

	// Initialize services
	auditSvc := service.NewAuditService(autoSellLogRepo, appLogger)
	notificationSvc := service.NewNotificationService(cfg, userRepo, telegramNotifier, mailClient, appLogger)
	executionSvc := service.NewExecutionService(cfg, sellOrderRepo, holdingRepo, marketDataRepo, brokerageRepo, auditSvc, notificationSvc, redisClient, appLogger)
	orderSvc := service.NewOrderService(cfg, sellOrderRepo, auditSvc, notificationSvc, executionSvc, redisClient, appLogger)
	monitorSvc := service.NewMonitorService(cfg, userRepo, holdingRepo, stopLossConfigRepo, riskProfileRepo, monitoringSessionRepo, marketDataRepo, orderSvc, redisClient, appLogger)
	stopLossSvc := service.NewStopLossService(stopLossConfigRepo, appLogger)
	riskProfileSvc := service.NewRiskProfileService(riskProfileRepo, appLogger)

	// Re-arm auto-execution timers and monitoring sessions from the store
	if err := orderSvc.RestorePendingTimers(ctx); err != nil {
		appLogger.Error("Failed to restore auto-execution timers", logger.ErrorField(err))
	}
	if err := monitorSvc.ResumeActiveSessions(ctx); err != nil {
		appLogger.Error("Failed to resume monitoring sessions", logger.ErrorField(err))
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")
	usersGroup := apiV1.Group("/users")
	ordersGroup := apiV1.Group("/orders")
	marketGroup := apiV1.Group("/market")

	monitoringHandler := delivery.NewMonitoringHandler(monitorSvc, appLogger)
	monitoringHandler.RegisterRoutes(usersGroup)

	stopLossHandler := delivery.NewStopLossHandler(stopLossSvc, appLogger)
	stopLossHandler.RegisterRoutes(usersGroup)

	riskProfileHandler := delivery.NewRiskProfileHandler(riskProfileSvc, appLogger)
	riskProfileHandler.RegisterRoutes(usersGroup)

	orderHandler := delivery.NewOrderHandler(orderSvc, auditSvc, appLogger)
	orderHandler.RegisterRoutes(usersGroup, ordersGroup)

	marketHandler := delivery.NewMarketHandler(marketDataRepo, appLogger)
	marketHandler.RegisterRoutes(marketGroup)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
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

	// Stop the scan scheduler, then the per-order timers. Timers are
	// re-armed from the store on the next boot.
	monitorSvc.Shutdown()
	orderSvc.StopTimers()

	appLogger.Info("Server exiting")
}

// @title Portfolio Guardian API
// @version 1.0
// @description Risk monitoring and automatic stop-loss execution for investment portfolios.
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "guardian-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-guardian.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing guardian-service CLI: %s\n", err)
		os.Exit(1)
	}
}
