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

	"prediction-dashboard/config"
	"prediction-dashboard/internal/api"
	"prediction-dashboard/internal/broker"
	"prediction-dashboard/internal/redisclient"
	"prediction-dashboard/internal/service"
	"prediction-dashboard/internal/store"
	"prediction-dashboard/internal/util"
	"prediction-dashboard/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting prediction dashboard", zap.String("instance", cfg.Dashboard.InstanceID))

	tp, err := util.InitTracer("prediction-dashboard", cfg.Observ.JaegerEndpoint, cfg.Dashboard.InstanceID)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := store.NewStore(cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Ping(ctx); err != nil {
		logger.Warn("Database unreachable, serving cached data until it recovers", zap.Error(err))
	} else {
		logger.Info("Database connected")
	}

	if cfg.Database.Migrate {
		if err := db.Migrate(ctx); err != nil {
			logger.Error("Failed to migrate database", zap.Error(err))
		} else {
			logger.Info("Database schema applied")
		}
	}

	deps := map[string]api.Pinger{"postgres": db}

	opts := []service.Option{service.WithInstanceID(cfg.Dashboard.InstanceID)}
	var idempotency api.IdempotencyStore

	if cfg.Redis.Enabled {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Dashboard.SnapshotTTL)
		if err != nil {
			logger.Warn("Redis unavailable, running without snapshot cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			logger.Info("Redis connected")
			opts = append(opts, service.WithCache(redisClient))
			idempotency = redisClient
			deps["redis"] = redisClient
		}
	}

	var producer *broker.Producer
	if cfg.Kafka.Enabled {
		producer = broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
		defer producer.Close()
		logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicEvents))
		opts = append(opts, service.WithPublisher(broker.NewEventPublisher(producer)))
	}

	dashboard := service.NewDashboardStore(db, opts...)

	if dashboard.Warm(ctx) {
		logger.Info("Serving cached snapshot until the first load completes")
	}
	go func() {
		state := dashboard.Load(ctx)
		if state.Error != "" {
			logger.Error("Initial dashboard load failed", zap.String("error", state.Error))
		}
	}()

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var dashboardWorker *worker.DashboardWorker
	if cfg.Kafka.Enabled {
		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
		dashboardWorker = worker.NewDashboardWorker(consumer, dashboard)
		go func() {
			if err := dashboardWorker.Start(workerCtx); err != nil && err != context.Canceled {
				logger.Error("Dashboard worker error", zap.Error(err))
			}
		}()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(dashboard, idempotency, api.Options{
		CurrencySymbol:  cfg.Dashboard.CurrencySymbol,
		FallbackUSDRate: cfg.Dashboard.FallbackUSDRate,
		IdempotencyTTL:  cfg.Dashboard.IdempotencyTTL,
		RequestTimeout:  cfg.Server.RequestTimeout,
	})
	for name, dep := range deps {
		handler.AddDependency(name, dep)
	}
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if dashboardWorker != nil {
		if err := dashboardWorker.Stop(); err != nil {
			logger.Warn("Error stopping dashboard worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
