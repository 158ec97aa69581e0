package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pawon-ops/internal/directory"
	"pawon-ops/internal/events"
	"pawon-ops/internal/messaging/kafka/consumer"
	"pawon-ops/internal/notification"
	"pawon-ops/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer menjalankan kedua consumer inbox notifikasi: perubahan
// status cuti dan broadcast terbitnya jadwal.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	notificationRepo := notification.NewRepository(gormDB)
	notificationService := notification.NewService(notificationRepo)

	directoryRepo := directory.NewRepository(gormDB)
	directoryService := directory.NewService(directoryRepo, redisClient)

	leaveReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.LeaveStatusChangedTopic,
		GroupID:        "pawon-ops-leave-inbox",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer leaveReader.Close()

	scheduleReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.SchedulePublishedTopic,
		GroupID:        "pawon-ops-schedule-inbox",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer scheduleReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeLeaveStatusChanged(ctx, leaveReader, notificationService, directoryService, logger)
	go consumer.ConsumeSchedulePublished(ctx, scheduleReader, notificationService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
