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

	"github.com/fortivix/guardmarket/internal/notification/application"
	"github.com/fortivix/guardmarket/internal/notification/domain"
	"github.com/fortivix/guardmarket/internal/notification/infrastructure/persistence/mysql"
	"github.com/fortivix/guardmarket/internal/notification/infrastructure/sender"
	eventconsumer "github.com/fortivix/guardmarket/internal/notification/interfaces/consumer"
	httpserver "github.com/fortivix/guardmarket/internal/notification/interfaces/http"
	"github.com/fortivix/guardmarket/pkg/config"
	"github.com/fortivix/guardmarket/pkg/db"
	"github.com/fortivix/guardmarket/pkg/logger"
	"github.com/fortivix/guardmarket/pkg/metrics"
	"github.com/fortivix/guardmarket/pkg/middleware"
	"github.com/fortivix/guardmarket/pkg/mq"
	"github.com/fortivix/guardmarket/pkg/utils"
)

var configPath = flag.String("config", "configs/notification/config.toml", "config file path")

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
		if err := database.AutoMigrate(&mysql.NotificationModel{}); err != nil {
			logger.Error(ctx, "Failed to migrate database", "error", err)
		}
	}

	kafkaCfg := mq.KafkaConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		SessionTimeout: cfg.Kafka.SessionTimeout,
		MaxRetries:     cfg.Kafka.MaxRetries,
		RetryBackoff:   cfg.Kafka.RetryBackoff,
	}

	producer, err := mq.NewProducer(kafkaCfg)
	if err != nil {
		logger.Fatal(ctx, "Failed to create kafka producer", "error", err)
	}
	defer producer.Close()

	kafkaConsumer, err := mq.NewConsumer(kafkaCfg, application.TopicApplicationSubmitted)
	if err != nil {
		logger.Fatal(ctx, "Failed to create kafka consumer", "error", err)
	}

	var dlq *mq.DeadLetterQueue
	if cfg.Kafka.DeadLetterTopic != "" {
		dlq = mq.NewDeadLetterQueue(producer, cfg.Kafka.DeadLetterTopic)
	}

	var mailSender domain.Sender
	if cfg.SMTP.Mock {
		mailSender = sender.NewMockSender()
	} else {
		mailSender = sender.NewSMTPSender(cfg.SMTP)
	}

	repo := mysql.NewNotificationMySQLRepository(database)
	idGen := utils.NewSnowflakeID(3)
	svc := application.NewNotificationService(repo, mailSender, cfg.SMTP.OpsRecipient, idGen, m)

	consumer := eventconsumer.NewEventConsumer(kafkaConsumer, dlq, svc)
	defer consumer.Close()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinCORSMiddleware())

	handler := httpserver.NewNotificationHandler(svc)
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
		return consumer.Start(gctx)
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
