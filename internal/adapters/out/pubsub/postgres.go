package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/ports"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// DefaultNotifyChannel is the LISTEN/NOTIFY channel carrying envelopes.
const DefaultNotifyChannel = "fooddelivery_events"

const (
	listenerMinReconnect = 10 * time.Second
	listenerMaxReconnect = time.Minute
	listenerPingInterval = 90 * time.Second
)

var _ ports.EventPublisher = (*NotifyPublisher)(nil)

// NotifyPublisher publishes envelopes with pg_notify on the application
// database.
type NotifyPublisher struct {
	db      *gorm.DB
	channel string
}

func NewNotifyPublisher(db *gorm.DB, channel string) *NotifyPublisher {
	if channel == "" {
		channel = DefaultNotifyChannel
	}
	return &NotifyPublisher{db: db, channel: channel}
}

func (p *NotifyPublisher) Publish(ctx context.Context, channel string, event events.Event) error {
	payload, err := encodeEnvelope(channel, event)
	if err != nil {
		return err
	}
	if err = p.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", p.channel, string(payload)).Error; err != nil {
		return fmt.Errorf("pg_notify: %w", err)
	}
	return nil
}

// ListenRelay feeds the local hub from LISTEN on the notify channel.
type ListenRelay struct {
	dsn     string
	channel string
	local   ports.EventPublisher
	logger  *slog.Logger
}

func NewListenRelay(dsn, channel string, local ports.EventPublisher, logger *slog.Logger) *ListenRelay {
	if channel == "" {
		channel = DefaultNotifyChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListenRelay{
		dsn:     dsn,
		channel: channel,
		local:   local,
		logger:  logger.With("component", "listen_relay"),
	}
}

// Run blocks until ctx is done. Notifications sent while the listener is
// reconnecting are lost.
func (r *ListenRelay) Run(ctx context.Context) error {
	listener := pq.NewListener(r.dsn, listenerMinReconnect, listenerMaxReconnect,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				r.logger.WarnContext(ctx, "Listener connection event", "event", ev, "error", err)
			}
		})
	defer listener.Close()

	if err := listener.Listen(r.channel); err != nil {
		return fmt.Errorf("listen %s: %w", r.channel, err)
	}
	r.logger.InfoContext(ctx, "Relay started", "channel", r.channel)

	ticker := time.NewTicker(listenerPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "Relay stopped")
			return nil
		case n := <-listener.Notify:
			// nil after a reconnect
			if n == nil {
				continue
			}
			forward(ctx, r.local, []byte(n.Extra), r.logger)
		case <-ticker.C:
			if err := listener.Ping(); err != nil {
				r.logger.WarnContext(ctx, "Listener ping failed", "error", err)
			}
		}
	}
}
