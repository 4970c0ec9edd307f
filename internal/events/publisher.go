package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"nkadime-backend/internal/logger"
)

// Publisher sends domain events to RabbitMQ. Publishing is best-effort: the
// rental mutation has already committed by the time an event goes out, so
// errors are logged and returned but must never roll anything back. A nil
// Publisher or an empty URL disables publishing entirely.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher {
	if url == "" {
		return nil
	}
	return &Publisher{url: url}
}

// Publish marshals payload and sends it to the named durable queue, declared
// idempotently on every call. Messages are marked persistent.
func (p *Publisher) Publish(ctx context.Context, queue string, payload any) error {
	if p == nil {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		logger.Warn("events: broker dial failed", "queue", queue, "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Warn("events: channel open failed", "queue", queue, "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		logger.Warn("events: queue declare failed", "queue", queue, "error", err)
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("events: marshal failed", "queue", queue, "error", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		logger.Warn("events: publish failed", "queue", queue, "error", err)
		return err
	}

	return nil
}
