package pubsub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

var _ ports.EventPublisher = (*AMQPBroker)(nil)

// AMQPBroker publishes envelopes to a fanout exchange and relays the
// exchange into the local hub through an exclusive auto-delete queue.
type AMQPBroker struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *slog.Logger
}

func NewAMQPBroker(url, exchange string, logger *slog.Logger) (*AMQPBroker, error) {
	if exchange == "" {
		exchange = DefaultTopic
	}
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if err = ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &AMQPBroker{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		logger:   logger.With("component", "amqp_broker"),
	}, nil
}

func (b *AMQPBroker) Publish(ctx context.Context, channel string, event events.Event) error {
	payload, err := encodeEnvelope(channel, event)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	err = b.ch.PublishWithContext(ctx, b.exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// Relay consumes the exchange into local until ctx is done or the connection
// drops.
func (b *AMQPBroker) Relay(ctx context.Context, local ports.EventPublisher) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq relay channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("declare relay queue: %w", err)
	}
	if err = ch.QueueBind(q.Name, "", b.exchange, false, nil); err != nil {
		return fmt.Errorf("bind relay queue: %w", err)
	}
	deliveries, err := ch.ConsumeWithContext(ctx, q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume relay queue: %w", err)
	}
	b.logger.InfoContext(ctx, "Relay started", "exchange", b.exchange, "queue", q.Name)

	for {
		select {
		case <-ctx.Done():
			b.logger.InfoContext(ctx, "Relay stopped")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("rabbitmq relay deliveries closed")
			}
			forward(ctx, local, d.Body, b.logger)
		}
	}
}

// IsAlive reports whether the connection is still open.
func (b *AMQPBroker) IsAlive() bool {
	return b.conn != nil && !b.conn.IsClosed()
}

func (b *AMQPBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	if b.ch != nil {
		if err := b.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if b.conn != nil && !b.conn.IsClosed() {
		if err := b.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
