package commands

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/ports"
)

// eventNotifier publishes events after a successful commit. The write already
// happened, so failures are logged and never returned to the caller.
type eventNotifier struct {
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func newEventNotifier(publisher ports.EventPublisher, logger *slog.Logger, component string) eventNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return eventNotifier{
		publisher: publisher,
		logger:    logger.With("component", component),
	}
}

func (n eventNotifier) notify(ctx context.Context, channel string, build func() (events.Event, error)) {
	event, err := build()
	if err != nil {
		n.logger.ErrorContext(ctx, "Failed to build event", "channel", channel, "error", err)
		return
	}

	if err = n.publisher.Publish(ctx, channel, event); err != nil {
		n.logger.WarnContext(ctx, "Failed to publish event",
			"channel", channel,
			"type", event.Type,
			"error", err,
		)
	}
}
