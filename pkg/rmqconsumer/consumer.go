package rmqconsumer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"upload-server/config"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

var ErrDeliveriesClosed = errors.New("rmqconsumer: delivery channel closed")

type (
	// Handler processes one delivery. A nil error acks it, anything else
	// rejects it without requeue.
	Handler func(ctx context.Context, d amqp091.Delivery) error

	Consumer struct {
		cfg        config.MQ
		log        *zap.Logger
		handle     Handler
		conn       *amqp091.Connection
		chConsume  *amqp091.Channel
		chDelivery <-chan amqp091.Delivery
	}
)

func New(cfg config.MQ, logger *zap.Logger, handle Handler) *Consumer {
	return &Consumer{
		cfg:    cfg,
		log:    logger,
		handle: handle,
	}
}

func (c *Consumer) Connect(dsn string) error {
	conn, err := amqp091.Dial(dsn)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	c.conn, c.chConsume = conn, ch

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

// Init binds a private, server-named queue to routingKeys so that tailing
// never competes with the durable queue's real consumers.
func (c *Consumer) Init(routingKeys ...string) error {
	if err := c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	q, err := c.chConsume.QueueDeclare(
		"",
		false,
		true,
		true,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	for _, rk := range routingKeys {
		if err = c.chConsume.QueueBind(q.Name, rk, c.cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("queue bind %s: %w", rk, err)
		}
	}

	if err = c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	c.chDelivery, err = c.chConsume.Consume(
		q.Name,
		"",
		false,
		true,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) error {
	c.log.Info("starting delivery worker")

	defer func() {
		c.log.Info("delivery worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				return ErrDeliveriesClosed
			}
			c.delivery(ctx, msg)
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *Consumer) delivery(ctx context.Context, msg amqp091.Delivery) {
	if err := c.handle(ctx, msg); err != nil {
		c.log.Error("mq handle message error", zap.Error(err), zap.String("routing_key", msg.RoutingKey))
		if nerr := msg.Nack(false, false); nerr != nil {
			c.log.Error("mq nack error", zap.Error(nerr))
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		c.log.Error("mq ack error", zap.Error(err))
	}
}

func (c *Consumer) Close() {
	if c.chConsume != nil {
		_ = c.chConsume.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
