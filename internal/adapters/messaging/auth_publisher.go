package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/oops"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
)

var _ ports.AuthEventPublisher = (*RabbitMQBroker)(nil)

func (rmq *RabbitMQBroker) PublishAuthAttempt(ctx context.Context, evt ports.AuthAttemptEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return oops.Code("EVENT_ENCODE_FAILED").With("event_id", evt.EventID).Wrap(err)
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= 0 {
		return ctx.Err()
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		return nil, rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    evt.EventID,
				Type:         ports.AuthAttemptEventType,
				Timestamp:    evt.OccurredAt,
				Body:         body,
			},
		)
	})
	if err != nil {
		return oops.Code("RABBITMQ_PUBLISH_FAILED").
			With("event_id", evt.EventID).
			With("queue", rmq.queueName).
			Wrap(err)
	}
	return nil
}
