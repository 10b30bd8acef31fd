package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"upload-server/internal/infrastructure/mq"
	"upload-server/pkg/rmqconsumer"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Tail upload and export events from the broker.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cli.cfg.EventsEnabled() {
			return fmt.Errorf("events are disabled: RABBITMQ_HOST is not set")
		}
		dsn, err := cli.cfg.AMQPDSN()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c := rmqconsumer.New(cli.cfg.MQ, cli.logger, logEvent(cli.logger))
		if err = c.Connect(dsn); err != nil {
			return err
		}
		defer c.Close()
		if err = c.Init(mq.ActionUploadCreated, mq.ActionReportExported); err != nil {
			return err
		}

		return c.DeliveryWorker(ctx)
	},
}

func logEvent(logger *zap.Logger) rmqconsumer.Handler {
	return func(_ context.Context, d amqp091.Delivery) error {
		var e mq.Event
		if err := json.Unmarshal(d.Body, &e); err != nil {
			return fmt.Errorf("decode event: %w", err)
		}
		logger.Info("event",
			zap.String("action", e.Action),
			zap.Stringer("event_id", e.Id),
			zap.Time("ts", e.TS),
			zap.Any("payload", e.Payload),
		)
		return nil
	}
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
