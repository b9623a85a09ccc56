package ws_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fooddelivery/internal/adapters/in/ws"
	"fooddelivery/internal/adapters/out/auth"
	"fooddelivery/internal/adapters/out/pubsub"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type courierCheckerFunc func(ctx context.Context, q queries.IsCourierQuery) (bool, error)

func (f courierCheckerFunc) Handle(ctx context.Context, q queries.IsCourierQuery) (bool, error) {
	return f(ctx, q)
}

type ownershipCheckerFunc func(ctx context.Context, q queries.OwnsOrderQuery) (bool, error)

func (f ownershipCheckerFunc) Handle(ctx context.Context, q queries.OwnsOrderQuery) (bool, error) {
	return f(ctx, q)
}

type fixture struct {
	hub      *pubsub.Hub
	verifier *auth.JWTVerifier
	server   *httptest.Server
	courier  kernel.UUID
	owner    kernel.UUID
	order    kernel.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	verifier, err := auth.NewJWTVerifier("secret")
	require.NoError(t, err)

	f := &fixture{
		hub:      pubsub.NewHub(8, nil),
		verifier: verifier,
		courier:  kernel.NewUUID(),
		owner:    kernel.NewUUID(),
		order:    kernel.NewUUID(),
	}

	isCourier := courierCheckerFunc(func(_ context.Context, q queries.IsCourierQuery) (bool, error) {
		return q.UserID().IsEqual(f.courier), nil
	})
	ownsOrder := ownershipCheckerFunc(func(_ context.Context, q queries.OwnsOrderQuery) (bool, error) {
		return q.UserID().IsEqual(f.owner) && q.OrderID().IsEqual(f.order), nil
	})

	e := echo.New()
	ws.NewGateway(f.hub, verifier, isCourier, ownsOrder, nil).Register(e)
	f.server = httptest.NewServer(e)

	t.Cleanup(func() {
		f.server.Close()
		_ = f.hub.Close()
	})
	return f
}

func (f *fixture) token(t *testing.T, userID kernel.UUID) string {
	t.Helper()
	token, err := f.verifier.Issue(ports.Identity{UserID: userID}, time.Hour)
	require.NoError(t, err)
	return token
}

func (f *fixture) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func (f *fixture) waitForSubscribers(t *testing.T, channel string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.hub.Subscribers(channel) == n
	}, 2*time.Second, 10*time.Millisecond)
}

func assertClosedByServer(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), "unexpected error: %v", err)
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestCourierQueue(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "/ws/courier")

	require.NoError(t, conn.WriteJSON(map[string]string{
		"command": ws.CommandConnectToOrderQueue,
		"token":   f.token(t, f.courier),
	}))
	f.waitForSubscribers(t, events.CourierQueueChannel, 1)

	orderID := kernel.NewUUID()
	event, err := events.NewOrderTakenEvent(orderID)
	require.NoError(t, err)
	require.NoError(t, f.hub.Publish(t.Context(), events.CourierQueueChannel, event))

	msg := readEvent(t, conn)
	assert.Equal(t, "event.ordertaken", msg["type"])
	assert.Equal(t, orderID.String(), msg["content"])
}

func TestCourierQueue_RejectsNonCourier(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "/ws/courier")

	require.NoError(t, conn.WriteJSON(map[string]string{
		"command": ws.CommandConnectToOrderQueue,
		"token":   f.token(t, f.owner),
	}))

	assertClosedByServer(t, conn)
	assert.Zero(t, f.hub.Subscribers(events.CourierQueueChannel))
}

func TestCourierQueue_RejectsBadToken(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "/ws/courier")

	require.NoError(t, conn.WriteJSON(map[string]string{
		"command": ws.CommandConnectToOrderQueue,
		"token":   "forged",
	}))

	assertClosedByServer(t, conn)
}

func TestUnknownCommandsAreIgnored(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "/ws/courier")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, conn.WriteJSON(map[string]string{"command": "dance"}))
	// the user command is unknown on the courier endpoint
	require.NoError(t, conn.WriteJSON(map[string]string{
		"command":  ws.CommandConnectToOrderClient,
		"token":    "forged",
		"order_id": f.order.String(),
	}))
	require.NoError(t, conn.WriteJSON(map[string]string{
		"command": ws.CommandConnectToOrderQueue,
		"token":   f.token(t, f.courier),
	}))

	f.waitForSubscribers(t, events.CourierQueueChannel, 1)
}

func TestOrderClient(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "/ws/user")
	channel := events.OrderChannel(f.order)

	require.NoError(t, conn.WriteJSON(map[string]string{
		"command":  ws.CommandConnectToOrderClient,
		"token":    f.token(t, f.owner),
		"order_id": f.order.String(),
	}))
	f.waitForSubscribers(t, channel, 1)

	location, err := kernel.NewLocation(50.45, 30.52)
	require.NoError(t, err)
	event, err := events.NewLocationEvent(location)
	require.NoError(t, err)
	require.NoError(t, f.hub.Publish(t.Context(), channel, event))

	msg := readEvent(t, conn)
	assert.Equal(t, "event.location", msg["type"])
	assert.Equal(t, map[string]any{"latitude": 50.45, "longitude": 30.52}, msg["content"])

	require.NoError(t, conn.Close())
	f.waitForSubscribers(t, channel, 0)
}

func TestOrderClient_RejectsStranger(t *testing.T) {
	f := newFixture(t)

	for name, msg := range map[string]map[string]string{
		"not the owner": {
			"command":  ws.CommandConnectToOrderClient,
			"token":    f.token(t, kernel.NewUUID()),
			"order_id": f.order.String(),
		},
		"malformed order id": {
			"command":  ws.CommandConnectToOrderClient,
			"token":    f.token(t, f.owner),
			"order_id": "42",
		},
	} {
		t.Run(name, func(t *testing.T) {
			conn := f.dial(t, "/ws/user")
			require.NoError(t, conn.WriteJSON(msg))
			assertClosedByServer(t, conn)
		})
	}
	assert.Zero(t, f.hub.Subscribers(events.OrderChannel(f.order)))
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "/ws/courier")

	require.NoError(t, conn.WriteJSON(map[string]string{
		"command": ws.CommandConnectToOrderQueue,
		"token":   f.token(t, f.courier),
	}))
	f.waitForSubscribers(t, events.CourierQueueChannel, 1)

	require.NoError(t, f.hub.Close())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
}
