package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/fortivix/guardmarket/internal/onboarding/application"
	"github.com/fortivix/guardmarket/internal/onboarding/infrastructure/messaging"
	"github.com/fortivix/guardmarket/internal/onboarding/infrastructure/persistence/mysql"
	redisrepo "github.com/fortivix/guardmarket/internal/onboarding/infrastructure/persistence/redis"
	"github.com/fortivix/guardmarket/internal/onboarding/infrastructure/storage"
	httpserver "github.com/fortivix/guardmarket/internal/onboarding/interfaces/http"
	"github.com/fortivix/guardmarket/pkg/cache"
	"github.com/fortivix/guardmarket/pkg/config"
	"github.com/fortivix/guardmarket/pkg/db"
	"github.com/fortivix/guardmarket/pkg/logger"
	"github.com/fortivix/guardmarket/pkg/metrics"
	"github.com/fortivix/guardmarket/pkg/middleware"
	"github.com/fortivix/guardmarket/pkg/mq"
	"github.com/fortivix/guardmarket/pkg/ratelimit"
	"github.com/fortivix/guardmarket/pkg/utils"
)

var configPath = flag.String("config", "configs/onboarding/config.toml", "config file path")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(cfg.ServiceName)
	if err := m.Register(); err != nil {
		logger.Fatal(ctx, "Failed to register metrics", "error", err)
	}

	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to connect database", "error", err)
	}
	defer database.Close()

	if cfg.Environment == "dev" {
		if err := database.AutoMigrate(
			&mysql.ProfileModel{},
			&mysql.VerificationModel{},
			&mysql.QuickApplicationModel{},
			&messaging.OutboxMessage{},
		); err != nil {
			logger.Error(ctx, "Failed to migrate database", "error", err)
		}
	}

	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to init redis", "error", err)
	}
	defer redisCache.Close()

	producer, err := mq.NewProducer(mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		GroupID:      cfg.Kafka.GroupID,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to create kafka producer", "error", err)
	}
	defer producer.Close()

	documentStore, err := storage.NewS3DocumentStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal(ctx, "Failed to init document store", "error", err)
	}

	draftRepo := redisrepo.NewDraftRedisRepository(redisCache.GetClient())
	profileRepo := mysql.NewProfileRepository(database)
	verificationRepo := mysql.NewVerificationRepository(database)
	applicationRepo := mysql.NewQuickApplicationRepository(database)
	publisher := messaging.NewOutboxPublisher(database.DB)

	idGen := utils.NewSnowflakeID(1)
	svc := application.NewOnboardingService(
		draftRepo, profileRepo, verificationRepo, applicationRepo,
		documentStore, publisher, idGen, m,
	)

	outboxProcessor := messaging.NewOutboxProcessor(database.DB, producer, 2*time.Second, 100)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewRedisRateLimiter(redisCache.GetClient())
		router.Use(middleware.RateLimitMiddleware(limiter, cfg.RateLimit))
	}

	handler := httpserver.NewOnboardingHandler(svc)
	handler.RegisterRoutes(router)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})
	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		outboxProcessor.Start(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Info(gctx, "HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(context.Background(), "Server exited with error", "error", err)
	}
}
