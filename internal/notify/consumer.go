package notify

import (
	"context"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumerConfig wires the notification worker to the booking exchange.
type ConsumerConfig struct {
	RabbitURL string
	Exchange  string
	Queue     string
	Prefetch  int
}

// Consumer drains booking events and hands them to a Notifier. Failed
// deliveries are nacked and requeued; the booking itself is long since
// committed by the time anything arrives here.
type Consumer struct {
	cfg      ConsumerConfig
	notifier Notifier
	logger   *slog.Logger

	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewConsumer(cfg ConsumerConfig, n Notifier, logger *slog.Logger) *Consumer {
	return &Consumer{cfg: cfg, notifier: n, logger: logger}
}

func (c *Consumer) Connect() error {
	conn, err := amqp.Dial(c.cfg.RabbitURL)
	if err != nil {
		return fmt.Errorf("rabbit dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel failed: %w", err)
	}

	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange failed: %w", err)
	}

	q, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare queue failed: %w", err)
	}

	for _, key := range []string{RKBookingCreated, RKBookingRedeemed, RKBookingCancelled} {
		if err := ch.QueueBind(q.Name, key, c.cfg.Exchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return fmt.Errorf("bind queue key=%s failed: %w", key, err)
		}
	}

	if c.cfg.Prefetch <= 0 {
		c.cfg.Prefetch = 8
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("set qos failed: %w", err)
	}

	c.conn = conn
	c.ch = ch
	return nil
}

func (c *Consumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.cfg.Queue, "space-gym-notifier", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume failed: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := c.handleDelivery(d); err != nil {
				c.logger.Error("notification handling failed", "key", d.RoutingKey, "error", err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleDelivery(d amqp.Delivery) error {
	switch d.RoutingKey {
	case RKBookingCreated:
		ev, err := MustUnmarshal[BookingCreated](d.Body)
		if err != nil {
			return err
		}
		subject, message := RenderBookingCreated(ev)
		return c.notifier.Notify(ev.Recipient, subject, message)

	case RKBookingRedeemed:
		ev, err := MustUnmarshal[BookingRedeemed](d.Body)
		if err != nil {
			return err
		}
		subject, message := RenderBookingRedeemed(ev)
		return c.notifier.Notify("", subject, message)

	case RKBookingCancelled:
		ev, err := MustUnmarshal[BookingCancelled](d.Body)
		if err != nil {
			return err
		}
		subject, message := RenderBookingCancelled(ev)
		return c.notifier.Notify("", subject, message)

	default:
		c.logger.Info("skipping unknown routing key", "key", d.RoutingKey)
	}
	return nil
}
