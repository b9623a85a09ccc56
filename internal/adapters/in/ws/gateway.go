// Package ws serves the realtime endpoints. A client sends JSON commands
// carrying its token; each accepted command joins the connection to a
// broadcaster channel, and events published there are written back as
// {type, content} messages.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"fooddelivery/internal/adapters/out/pubsub"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	CommandConnectToOrderQueue  = "connect_to_order_queue"
	CommandConnectToOrderClient = "connect_to_order_client"
)

const (
	defaultWriteTimeout = 10 * time.Second
	defaultPongWait     = 60 * time.Second
	maxMessageSize      = 4096
)

var errAccessDenied = errors.New("access denied")

// Broadcaster is the part of the hub a connection needs.
type Broadcaster interface {
	NewSubscriber() (*pubsub.Subscriber, error)
	Subscribe(channel string, s *pubsub.Subscriber) error
	Unsubscribe(s *pubsub.Subscriber)
}

type CourierChecker interface {
	Handle(ctx context.Context, query queries.IsCourierQuery) (bool, error)
}

type OwnershipChecker interface {
	Handle(ctx context.Context, query queries.OwnsOrderQuery) (bool, error)
}

type inbound struct {
	Command string `json:"command"`
	Token   string `json:"token"`
	OrderID string `json:"order_id"`
}

// commandFunc resolves a command to the channel to join. ok is false for
// commands the endpoint does not know.
type commandFunc func(ctx context.Context, msg inbound) (channel string, ok bool, err error)

type Gateway struct {
	hub          Broadcaster
	verifier     ports.TokenVerifier
	isCourier    CourierChecker
	ownsOrder    OwnershipChecker
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	pongWait     time.Duration
	logger       *slog.Logger
}

func NewGateway(
	hub Broadcaster,
	verifier ports.TokenVerifier,
	isCourier CourierChecker,
	ownsOrder OwnershipChecker,
	logger *slog.Logger,
) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		hub:       hub,
		verifier:  verifier,
		isCourier: isCourier,
		ownsOrder: ownsOrder,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		writeTimeout: defaultWriteTimeout,
		pongWait:     defaultPongWait,
		logger:       logger.With("component", "ws_gateway"),
	}
}

// Register mounts /ws/courier and /ws/user.
func (g *Gateway) Register(e *echo.Echo) {
	e.GET("/ws/courier", g.ServeCourier)
	e.GET("/ws/user", g.ServeUser)
}

// ServeCourier accepts connect_to_order_queue from courier accounts.
func (g *Gateway) ServeCourier(c echo.Context) error {
	return g.serve(c, "courier", g.courierCommand)
}

// ServeUser accepts connect_to_order_client from order owners.
func (g *Gateway) ServeUser(c echo.Context) error {
	return g.serve(c, "user", g.userCommand)
}

func (g *Gateway) courierCommand(ctx context.Context, msg inbound) (string, bool, error) {
	if msg.Command != CommandConnectToOrderQueue {
		return "", false, nil
	}

	identity, err := g.verifier.Verify(msg.Token)
	if err != nil {
		return "", true, err
	}
	query, err := queries.NewIsCourierQuery(identity.UserID)
	if err != nil {
		return "", true, err
	}
	ok, err := g.isCourier.Handle(ctx, query)
	if err != nil {
		return "", true, err
	}
	if !ok {
		return "", true, errAccessDenied
	}
	return events.CourierQueueChannel, true, nil
}

func (g *Gateway) userCommand(ctx context.Context, msg inbound) (string, bool, error) {
	if msg.Command != CommandConnectToOrderClient {
		return "", false, nil
	}

	identity, err := g.verifier.Verify(msg.Token)
	if err != nil {
		return "", true, err
	}
	orderID, err := kernel.UUIDFromString(msg.OrderID)
	if err != nil {
		return "", true, err
	}
	query, err := queries.NewOwnsOrderQuery(orderID, identity.UserID)
	if err != nil {
		return "", true, err
	}
	ok, err := g.ownsOrder.Handle(ctx, query)
	if err != nil {
		return "", true, err
	}
	if !ok {
		return "", true, errAccessDenied
	}
	return events.OrderChannel(orderID), true, nil
}

func (g *Gateway) serve(c echo.Context, endpoint string, handle commandFunc) error {
	conn, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already answered
		g.logger.DebugContext(c.Request().Context(), "Upgrade failed", "endpoint", endpoint, "error", err)
		return nil
	}
	logger := g.logger.With("endpoint", endpoint, "remote", c.RealIP())

	sub, err := g.hub.NewSubscriber()
	if err != nil {
		g.closeWith(conn, websocket.CloseGoingAway)
		_ = conn.Close()
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		g.writeLoop(conn, sub, logger)
	}()

	g.readLoop(c.Request().Context(), conn, sub, handle, logger)

	g.hub.Unsubscribe(sub)
	<-done
	_ = conn.Close()
	return nil
}

// readLoop owns reads. It returns when the client goes away or a command
// is rejected.
func (g *Gateway) readLoop(
	ctx context.Context,
	conn *websocket.Conn,
	sub *pubsub.Subscriber,
	handle commandFunc,
	logger *slog.Logger,
) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(g.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(g.pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.DebugContext(ctx, "Connection dropped", "error", err)
			}
			return
		}

		var msg inbound
		if err = json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		channel, known, err := handle(ctx, msg)
		if !known {
			continue
		}
		if err != nil {
			logger.InfoContext(ctx, "Command rejected", "command", msg.Command, "error", err)
			g.closeWith(conn, websocket.ClosePolicyViolation)
			return
		}

		if err = g.hub.Subscribe(channel, sub); err != nil {
			logger.WarnContext(ctx, "Subscribe failed", "channel", channel, "error", err)
			g.closeWith(conn, websocket.CloseGoingAway)
			return
		}
		logger.DebugContext(ctx, "Joined channel", "channel", channel)
	}
}

// writeLoop owns writes. It ends when the subscriber is closed or a write
// fails; a failed write closes the connection so readLoop ends too.
func (g *Gateway) writeLoop(conn *websocket.Conn, sub *pubsub.Subscriber, logger *slog.Logger) {
	ping := time.NewTicker(g.pongWait * 9 / 10)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-sub.Messages():
			if !ok {
				g.closeWith(conn, websocket.CloseNormalClosure)
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(g.writeTimeout))
			if err := conn.WriteJSON(msg.Event); err != nil {
				logger.Debug("Write failed", "channel", msg.Channel, "error", err)
				_ = conn.Close()
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(g.writeTimeout)); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

func (g *Gateway) closeWith(conn *websocket.Conn, code int) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, ""),
		time.Now().Add(g.writeTimeout))
}
