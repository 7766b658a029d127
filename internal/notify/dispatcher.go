package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Dispatcher is the fire-and-forget notification boundary. Publish must never
// return control-flow errors to the booking path: a reservation is valid even
// if its receipt never gets delivered.
type Dispatcher interface {
	Publish(ctx context.Context, key string, event any)
}

// AMQPDispatcher publishes JSON events onto a topic exchange.
type AMQPDispatcher struct {
	ch       *amqp.Channel
	exchange string
	logger   *slog.Logger
}

func NewAMQPDispatcher(conn *amqp.Connection, exchange string, logger *slog.Logger) (*AMQPDispatcher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPDispatcher{ch: ch, exchange: exchange, logger: logger}, nil
}

func (d *AMQPDispatcher) Publish(ctx context.Context, key string, event any) {
	body, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("notification payload marshal failed", "key", key, "error", err)
		return
	}
	err = d.ch.PublishWithContext(ctx, d.exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		// Logged and dropped on purpose: the booking already committed.
		d.logger.Error("notification publish failed", "key", key, "error", err)
	}
}

func (d *AMQPDispatcher) Close() error {
	return d.ch.Close()
}

// NoopDispatcher stands in when no broker is configured (and in tests).
type NoopDispatcher struct {
	Logger *slog.Logger
}

func (n NoopDispatcher) Publish(ctx context.Context, key string, event any) {
	if n.Logger != nil {
		n.Logger.Debug("notification dropped, no dispatcher configured", "key", key)
	}
}
