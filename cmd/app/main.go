package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/pkg/clock"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	producerName    = "fulfillment"
	shutdownTimeout = 10 * time.Second
)

func main() {
	// The .env file is optional; real deployments set the environment.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error reading configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, configs, logger); err != nil {
		log.Fatalf("Fulfillment service stopped: %v", err)
	}
}

func run(ctx context.Context, configs cmd.Config, logger *slog.Logger) error {
	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	var redisClient goredis.Cmdable
	if configs.RedisAddr != "" {
		client, err := redis.NewClient(ctx, configs.RedisAddr, configs.RedisPassword, configs.RedisDB)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()
		redisClient = client
	}

	publisher := kafka.NewPublisher(
		kafka.NewWriter(configs.KafkaBrokers, configs.NotificationTopic),
		kafka.PublisherConfig{
			Producer:     producerName,
			PixelBaseURL: configs.PixelBaseURL,
		},
		clock.NewSystem(),
		logger,
	)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.ErrorContext(ctx, "failed to close notification publisher", "error", err)
		}
	}()

	app, err := cmd.NewCompositionRoot(configs, gormDB, redisClient, publisher, logger)
	if err != nil {
		return err
	}

	consumer := kafka.NewReceiptConsumer(
		kafka.NewReader(configs.KafkaBrokers, configs.KafkaConsumerGroup, configs.NotificationOpenedTopic),
		app.CreateRecordNotificationOpenedCommandHandler(),
		configs.KafkaConsumerWorkers,
		logger,
	)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	app.CreateHTTPServer().Register(e)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return consumer.Run(gctx) })
	g.Go(func() error {
		err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	logger.InfoContext(ctx, "Fulfillment service started", "port", configs.HTTPPort)
	return g.Wait()
}
