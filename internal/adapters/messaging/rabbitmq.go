// Package messaging publishes auth attempt events to downstream brokers.
package messaging

import (
	"context"
	"io"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/oops"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/config"
)

// amqpChannel is the subset of *amqp.Channel the broker publishes through.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQBroker implements ports.AuthEventPublisher using a durable queue
// on the default exchange.
type RabbitMQBroker struct {
	conn      io.Closer
	ch        amqpChannel
	queueName string
	cb        *gobreaker.CircuitBreaker
}

func NewRabbitMQBroker(amqpURL, queueName string) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, oops.Code("RABBITMQ_DIAL_FAILED").Wrap(err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, oops.Code("RABBITMQ_CHANNEL_FAILED").Wrap(err)
	}

	// Declare the queue (idempotent)
	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, oops.Code("RABBITMQ_QUEUE_DECLARE_FAILED").With("queue", queueName).Wrap(err)
	}

	return newRabbitMQBroker(conn, ch, queueName), nil
}

func newRabbitMQBroker(conn io.Closer, ch amqpChannel, queueName string) *RabbitMQBroker {
	return &RabbitMQBroker{
		conn:      conn,
		ch:        ch,
		queueName: queueName,
		cb:        config.NewCircuitBreaker(config.BreakerRabbitMQ),
	}
}

// BreakerState exposes the publish breaker for readiness checks.
func (rmq *RabbitMQBroker) BreakerState() gobreaker.State {
	return rmq.cb.State()
}

func (rmq *RabbitMQBroker) Close() error {
	if rmq.ch != nil {
		if err := rmq.ch.Close(); err != nil {
			return err
		}
	}
	if rmq.conn != nil {
		return rmq.conn.Close()
	}
	return nil
}
