package commands

import (
	"context"
	"log/slog"
	"time"

	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/restaurant"
	"fooddelivery/internal/core/ports"
)

// DefaultMaxUserDistance is the delivery radius in meters used when none is configured.
const DefaultMaxUserDistance = 3500.0

// SubmitOrderCommandHandler places an order and announces it to couriers.
//
// Preconditions, checked in this order:
//   - the order exists and belongs to the user (NotFound)
//   - it is Open (InvalidState) and not empty (InvalidState)
//   - its restaurant is within maxUserDistance of the delivery location (InvalidState)
//   - the restaurant is open on its local clock (InvalidState)
//
// After commit an event.neworder with the order snapshot is published to the
// courier queue.
type SubmitOrderCommandHandler struct {
	uowFactory      OrderUoWFactory
	notifier        eventNotifier
	maxUserDistance float64
}

func NewSubmitOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	maxUserDistance float64,
	logger *slog.Logger,
) SubmitOrderCommandHandler {
	if maxUserDistance <= 0 {
		maxUserDistance = DefaultMaxUserDistance
	}
	return SubmitOrderCommandHandler{
		uowFactory:      uowFactory,
		notifier:        newEventNotifier(publisher, logger, "submit_order"),
		maxUserDistance: maxUserDistance,
	}
}

func (h SubmitOrderCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := lockOwnedOrder(ctx, orderRepo, cmd.OrderID(), cmd.UserID())
	if err != nil {
		return nil, err
	}

	// An empty or submitted order is rejected by Submit before the restaurant is used.
	var r *restaurant.Restaurant
	if restaurantID := o.RestaurantID(); restaurantID != nil && o.IsOpen() {
		if r, err = uow.RestaurantRepository().Get(ctx, *restaurantID); err != nil {
			return nil, err
		}
	}

	if err = o.Submit(cmd.Address(), cmd.Location(), cmd.Details(), r, h.maxUserDistance, time.Now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.notify(ctx, events.CourierQueueChannel, func() (events.Event, error) {
		snapshot, snapErr := events.NewOrderSnapshot(o, r)
		if snapErr != nil {
			return events.Event{}, snapErr
		}
		return events.NewOrderEvent(snapshot)
	})

	return o, nil
}
