package ports

import (
	"context"

	"fooddelivery/internal/core/domain/events"
)

// EventPublisher fans an event out to the subscribers of a channel.
// Delivery is best-effort: no persistence, no replay.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, event events.Event) error
}
