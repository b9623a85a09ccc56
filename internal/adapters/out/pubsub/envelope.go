package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/ports"
)

// envelope is the broker payload: brokers carry a single topic, the hub
// channel travels inside the message.
type envelope struct {
	Channel string       `json:"channel"`
	Event   events.Event `json:"event"`
}

func encodeEnvelope(channel string, event events.Event) ([]byte, error) {
	if channel == "" {
		return nil, fmt.Errorf("encode envelope: channel is empty")
	}
	payload, err := json.Marshal(envelope{Channel: channel, Event: event})
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return payload, nil
}

func decodeEnvelope(payload []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Channel == "" || env.Event.Type == "" {
		return envelope{}, fmt.Errorf("decode envelope: channel and event type are required")
	}
	return env, nil
}

// forward re-publishes a broker payload into the local hub. Malformed
// payloads are logged and skipped.
func forward(ctx context.Context, local ports.EventPublisher, payload []byte, logger *slog.Logger) {
	env, err := decodeEnvelope(payload)
	if err != nil {
		logger.WarnContext(ctx, "Skipping malformed broker message", "error", err)
		return
	}
	if err = local.Publish(ctx, env.Channel, env.Event); err != nil {
		logger.WarnContext(ctx, "Failed to relay event",
			"channel", env.Channel,
			"type", env.Event.Type,
			"error", err,
		)
	}
}
