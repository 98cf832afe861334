package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bettercalldoel/event-platform-api/controllers"
	"github.com/bettercalldoel/event-platform-api/database"
	"github.com/bettercalldoel/event-platform-api/kafka"
	"github.com/bettercalldoel/event-platform-api/logger"
	"github.com/bettercalldoel/event-platform-api/middleware"
	aws_pkg "github.com/bettercalldoel/event-platform-api/pkg/aws"
	"github.com/bettercalldoel/event-platform-api/repository"
	"github.com/bettercalldoel/event-platform-api/routes"
	"github.com/bettercalldoel/event-platform-api/sender"
	"github.com/bettercalldoel/event-platform-api/services"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	logger.Initialize(cfg.Environment)
	defer logger.Log.Sync()

	// --- Database ---
	if err := database.Connect(cfg.DatabaseConfig(), logger.Log); err != nil {
		logger.Log.Fatal("DB connection failed", zap.Error(err))
	}

	// --- AWS setup (non-fatal outside AWS) ---
	var snsPublisher services.SNSPublisher
	awsCfg, err := aws_pkg.LoadAWSConfig(context.Background())
	if err != nil {
		logger.Log.Warn("AWS config load failed, SNS publishing disabled", zap.Error(err))
	} else if cfg.TransactionSNSTopicARN != "" {
		snsPublisher = aws_pkg.NewSNSClient(awsCfg)
	}

	metricsClient, err := aws_pkg.NewMetricsClient(context.Background())
	if err != nil {
		logger.Log.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
	}

	// --- Kafka ---
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
	}

	// --- Email ---
	var mail sender.EmailSender
	if cfg.SMTPHost != "" {
		mail = sender.NewSMTPSender(sender.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, logger.Log)
	}

	// --- Dependency injection ---
	repos := repository.NewRepos(database.DB)
	txManager := repository.NewGormTxManager(database.DB)

	deps := services.TransactionServiceDeps{
		TxManager:      txManager,
		Repos:          repos,
		Mail:           mail,
		LifecycleTopic: cfg.LifecycleTopic,
		SNSTopicARN:    cfg.TransactionSNSTopicARN,
		Logger:         logger.Log,
	}
	if producer != nil {
		deps.Producer = producer
	}
	if snsPublisher != nil {
		deps.SNS = snsPublisher
	}
	txService := services.NewTransactionService(deps)
	rewardService := services.NewRewardService(repos, logger.Log, nil)

	var sweeperMetrics services.SweeperMetrics
	if metricsClient != nil {
		sweeperMetrics = metricsClient
	}
	sweeper := services.NewSweeper(txService, cfg.SweepInterval, sweeperMetrics, logger.Log)

	txController := controllers.NewTransactionController(txService, sweeper)
	rewardController := controllers.NewRewardController(rewardService)

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimitMiddleware())

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterTransactionRoutes(r, txController)
	routes.RegisterRewardRoutes(r, rewardController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "transaction-service"})
	})

	// --- Background sweeper ---
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	sweeper.Start(sweepCtx)

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Log.Info("Transaction Service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Initiating graceful shutdown...")
	httpShutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(httpShutdownCtx); err != nil {
		logger.Log.Error("Server shutdown error", zap.Error(err))
	}

	sweepCancel()
	sweeper.Stop()

	if err := database.Close(); err != nil {
		logger.Log.Error("Database close error", zap.Error(err))
	}

	log.Println("Transaction Service stopped gracefully")
}
