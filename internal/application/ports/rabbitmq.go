package ports

import (
	"context"

	"github.com/rabbitmq/amqp091-go"

	"upload-server/internal/infrastructure/mq"
)

type RabbitMQ interface {
	Connect(ctx context.Context, dsn string) error
	Init() error
	PublisherWorker(ctx context.Context)
	GetConn() *amqp091.Connection
	EventEmitter
}

type EventEmitter interface {
	Emit(e mq.Event)
}
