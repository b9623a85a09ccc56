// Package pubsub fans events out to the realtime connections of this process
// and relays them between instances through an optional broker.
//
// The Hub is the in-process broadcaster. With a single instance it is the
// ports.EventPublisher the command handlers use directly. With several
// instances the handlers publish to a broker (Redis, RabbitMQ or PostgreSQL
// LISTEN/NOTIFY) and every instance runs a relay that feeds its local Hub.
package pubsub

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/ports"
)

// DefaultBufferSize is the number of undelivered events a subscriber may hold.
const DefaultBufferSize = 64

// ErrHubClosed is returned by Publish after Close.
var ErrHubClosed = errors.New("pubsub hub is closed")

var _ ports.EventPublisher = (*Hub)(nil)

// Message is an event together with the channel it was published on.
type Message struct {
	Channel string
	Event   events.Event
}

// Subscriber receives the events of the channels it joined. Its buffer is
// bounded: when it is full, new events for it are dropped.
type Subscriber struct {
	messages chan Message
	closed   bool
}

// Messages is closed once the subscriber leaves the hub.
func (s *Subscriber) Messages() <-chan Message {
	return s.messages
}

// Hub is a process-wide broadcaster over named channels.
type Hub struct {
	mu         sync.RWMutex
	channels   map[string]map[*Subscriber]struct{}
	joined     map[*Subscriber]map[string]struct{}
	bufferSize int
	closed     bool
	logger     *slog.Logger
}

func NewHub(bufferSize int, logger *slog.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		channels:   make(map[string]map[*Subscriber]struct{}),
		joined:     make(map[*Subscriber]map[string]struct{}),
		bufferSize: bufferSize,
		logger:     logger.With("component", "pubsub_hub"),
	}
}

// NewSubscriber registers a subscriber that has not joined any channel yet.
func (h *Hub) NewSubscriber() (*Subscriber, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}
	s := &Subscriber{messages: make(chan Message, h.bufferSize)}
	h.joined[s] = make(map[string]struct{})
	return s, nil
}

// Subscribe adds the subscriber to a channel. Joining twice is a no-op.
func (h *Hub) Subscribe(channel string, s *Subscriber) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}
	joined, ok := h.joined[s]
	if !ok {
		return errors.New("subscriber is not registered")
	}

	members, ok := h.channels[channel]
	if !ok {
		members = make(map[*Subscriber]struct{})
		h.channels[channel] = members
	}
	members[s] = struct{}{}
	joined[channel] = struct{}{}
	return nil
}

// Unsubscribe removes the subscriber from every channel and closes its
// message stream.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.remove(s)
}

// Publish delivers the event to every current subscriber of the channel
// without blocking.
func (h *Hub) Publish(ctx context.Context, channel string, event events.Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrHubClosed
	}

	msg := Message{Channel: channel, Event: event}
	for s := range h.channels[channel] {
		select {
		case s.messages <- msg:
		default:
			h.logger.WarnContext(ctx, "Subscriber buffer is full, dropping event",
				"channel", channel,
				"type", event.Type,
			)
		}
	}
	return nil
}

// Subscribers returns the number of subscribers on a channel.
func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.channels[channel])
}

// Close disconnects every subscriber. Later calls are no-ops.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	for s := range h.joined {
		h.remove(s)
	}
	h.closed = true
	return nil
}

func (h *Hub) remove(s *Subscriber) {
	joined, ok := h.joined[s]
	if !ok {
		return
	}
	for channel := range joined {
		members := h.channels[channel]
		delete(members, s)
		if len(members) == 0 {
			delete(h.channels, channel)
		}
	}
	delete(h.joined, s)

	if !s.closed {
		s.closed = true
		close(s.messages)
	}
}
