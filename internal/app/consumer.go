package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/events"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/messaging/kafka"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/messaging/kafka/consumer"
	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer renders payslips for approved payrolls until SIGINT or
// SIGTERM.
func RunConsumer(cfg Config) error {
	logger := zap.L().Named("app.consumer")

	if len(cfg.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in, err := Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := connection.ConnectKafkaWithRetry(cfg.KafkaBrokers, cfg.ConnectRetries); err != nil {
		return err
	}

	payrollService := newPayrollService(
		in,
		newConceptService(in, logger),
		newSettingsService(in, logger),
		kafka.NewOutboxRepository(in.DB),
		logger,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          events.PayrollApprovedTopic,
		GroupID:        cfg.ConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	consumer.ConsumePayrollApproved(ctx, reader, payrollService, logger)

	logger.Info("consumer shut down")
	return nil
}
