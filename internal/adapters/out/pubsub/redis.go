package pubsub

import (
	"context"
	"fmt"
	"log/slog"

	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/ports"

	"github.com/mediocregopher/radix/v3"
)

// DefaultTopic is the broker topic carrying every envelope.
const DefaultTopic = "fooddelivery.events"

const redisPoolSize = 10

var _ ports.EventPublisher = (*RedisPublisher)(nil)

// RedisPublisher publishes envelopes with PUBLISH.
type RedisPublisher struct {
	client radix.Client
	topic  string
}

// NewRedisPool opens the connection pool shared by the publisher.
func NewRedisPool(addr string) (*radix.Pool, error) {
	pool, err := radix.NewPool("tcp", addr, redisPoolSize)
	if err != nil {
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	return pool, nil
}

func NewRedisPublisher(client radix.Client, topic string) *RedisPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &RedisPublisher{client: client, topic: topic}
}

func (p *RedisPublisher) Publish(_ context.Context, channel string, event events.Event) error {
	payload, err := encodeEnvelope(channel, event)
	if err != nil {
		return err
	}
	if err = p.client.Do(radix.FlatCmd(nil, "PUBLISH", p.topic, payload)); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// RedisRelay subscribes to the topic and feeds the local hub.
type RedisRelay struct {
	addr   string
	topic  string
	local  ports.EventPublisher
	logger *slog.Logger
}

func NewRedisRelay(addr, topic string, local ports.EventPublisher, logger *slog.Logger) *RedisRelay {
	if topic == "" {
		topic = DefaultTopic
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisRelay{
		addr:   addr,
		topic:  topic,
		local:  local,
		logger: logger.With("component", "redis_relay"),
	}
}

// Run blocks until ctx is done. The subscription reconnects on its own.
func (r *RedisRelay) Run(ctx context.Context) error {
	conn, err := radix.PersistentPubSubWithOpts("tcp", r.addr)
	if err != nil {
		return fmt.Errorf("redis subscribe connection: %w", err)
	}
	defer conn.Close()

	msgs := make(chan radix.PubSubMessage, DefaultBufferSize)
	if err = conn.Subscribe(msgs, r.topic); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", r.topic, err)
	}
	r.logger.InfoContext(ctx, "Relay started", "topic", r.topic)

	for {
		select {
		case <-ctx.Done():
			if err = conn.Unsubscribe(msgs, r.topic); err != nil {
				r.logger.WarnContext(ctx, "Failed to unsubscribe", "error", err)
			}
			r.logger.InfoContext(ctx, "Relay stopped")
			return nil
		case msg := <-msgs:
			forward(ctx, r.local, msg.Message, r.logger)
		}
	}
}
