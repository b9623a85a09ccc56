package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/restaurant"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderChannel(t *testing.T) {
	id := kernel.NewUUID()

	channel := events.OrderChannel(id)

	assert.Equal(t, "order_"+id.String(), channel)
	parsed, err := events.ParseOrderChannel(channel)
	require.NoError(t, err)
	assert.True(t, parsed.IsEqual(id))

	_, err = events.ParseOrderChannel(events.CourierQueueChannel)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewOrderStatusEvent(t *testing.T) {
	entry, err := order.NewStatusEntry(order.Delivering, time.Date(2024, 3, 8, 14, 5, 9, 0, time.UTC))
	require.NoError(t, err)

	e, err := events.NewOrderStatusEvent(entry)
	require.NoError(t, err)

	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"event.orderstatus","content":{"status":"D","timestamp":"2024-03-08 14:05:09"}}`,
		string(raw))
}

func TestNewLocationEvent(t *testing.T) {
	loc, _ := kernel.NewLocation(50.45, 30.52)

	e, err := events.NewLocationEvent(loc)
	require.NoError(t, err)

	assert.Equal(t, events.TypeLocation, e.Type)
	assert.JSONEq(t, `{"latitude":50.45,"longitude":30.52}`, string(e.Content))

	_, err = events.NewLocationEvent(kernel.Location{})
	require.Error(t, err)
}

func TestNewOrderTakenEvent(t *testing.T) {
	id := kernel.NewUUID()

	e, err := events.NewOrderTakenEvent(id)
	require.NoError(t, err)

	assert.Equal(t, events.TypeOrderTaken, e.Type)
	assert.JSONEq(t, `"`+id.String()+`"`, string(e.Content))
}

func TestNewOrderSnapshot(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	loc, _ := kernel.NewLocation(50.45, 30.52)
	r, err := restaurant.NewRestaurant(kernel.NewUUID(), "Varenychna", "Podil 3", loc, restaurant.AlwaysOpen(), nil)
	require.NoError(t, err)
	dish, err := restaurant.NewDish(kernel.NewUUID(), r.ID(), "Varenyky", 90, 250)
	require.NoError(t, err)
	line, err := order.NewLine(dish, 3)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), now)
	require.NoError(t, err)
	require.NoError(t, o.AddLine(line))
	require.NoError(t, o.Submit("Podil 7", loc, "call me", r, 3500, now))

	s, err := events.NewOrderSnapshot(o, r)
	require.NoError(t, err)

	assert.Equal(t, o.ID().String(), s.ID)
	assert.Equal(t, 270, s.Summary)
	assert.Equal(t, "call me", s.OrderDetails)
	require.NotNil(t, s.DeliveryLocation)
	assert.InDelta(t, 50.45, s.DeliveryLocation.Latitude, 1e-9)
	assert.Equal(t, "Varenychna", s.Restaurant.Name)
	require.Len(t, s.Dishes, 1)
	assert.Equal(t, events.SnapshotDish{ID: dish.ID().String(), Name: "Varenyky", Price: 90, Quantity: 3}, s.Dishes[0])

	e, err := events.NewOrderEvent(s)
	require.NoError(t, err)
	assert.Equal(t, events.TypeNewOrder, e.Type)
	var decoded events.OrderSnapshot
	require.NoError(t, json.Unmarshal(e.Content, &decoded))
	assert.Equal(t, s, decoded)
}
