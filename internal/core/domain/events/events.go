package events

import (
	"encoding/json"
	"fmt"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
)

// CourierQueueChannel is joined by couriers waiting for free orders.
const CourierQueueChannel = "courier_queue"

const orderChannelPrefix = "order_"

// TimestampLayout is the wire format of status timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

type Type string

const (
	TypeOrderStatus Type = "event.orderstatus"
	TypeLocation    Type = "event.location"
	TypeNewOrder    Type = "event.neworder"
	TypeOrderTaken  Type = "event.ordertaken"
)

// OrderChannel returns the channel of a single order.
func OrderChannel(orderID kernel.UUID) string {
	return orderChannelPrefix + orderID.String()
}

// ParseOrderChannel returns the order id of an order channel.
func ParseOrderChannel(channel string) (kernel.UUID, error) {
	raw, ok := strings.CutPrefix(channel, orderChannelPrefix)
	if !ok {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("channel",
			fmt.Errorf("%q is not an order channel", channel))
	}
	return kernel.UUIDFromString(raw)
}

// Event is the message delivered to subscribers. Content is already encoded so
// the same event can be relayed through a broker unchanged.
type Event struct {
	Type    Type            `json:"type"`
	Content json.RawMessage `json:"content"`
}

type statusContent struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type locationContent struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewOrderStatusEvent announces a new ledger entry on the order channel.
func NewOrderStatusEvent(entry order.StatusEntry) (Event, error) {
	return newEvent(TypeOrderStatus, statusContent{
		Status:    entry.Status().Code(),
		Timestamp: entry.Timestamp().Format(TimestampLayout),
	})
}

// NewLocationEvent carries a courier position to the order owner.
func NewLocationEvent(location kernel.Location) (Event, error) {
	if err := location.Validate(); err != nil {
		return Event{}, err
	}
	return newEvent(TypeLocation, locationContent{
		Latitude:  location.Latitude(),
		Longitude: location.Longitude(),
	})
}

// NewOrderEvent announces a free order to couriers.
func NewOrderEvent(snapshot OrderSnapshot) (Event, error) {
	return newEvent(TypeNewOrder, snapshot)
}

// NewOrderTakenEvent tells couriers an order is no longer free.
func NewOrderTakenEvent(orderID kernel.UUID) (Event, error) {
	if err := orderID.Validate(); err != nil {
		return Event{}, err
	}
	return newEvent(TypeOrderTaken, orderID.String())
}

func newEvent(t Type, content any) (Event, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s content: %w", t, err)
	}
	return Event{Type: t, Content: raw}, nil
}
