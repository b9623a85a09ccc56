package commands

import (
	"context"
	"log/slog"
	"time"

	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/restaurant"
	"fooddelivery/internal/core/ports"
)

// RemindUnclaimedOrdersCommandHandler publishes event.neworder again for every
// free order submitted more than OlderThan ago, so couriers that joined the
// queue after the first announcement still see them. Nothing is written.
type RemindUnclaimedOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   eventNotifier
}

func NewRemindUnclaimedOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) RemindUnclaimedOrdersCommandHandler {
	return RemindUnclaimedOrdersCommandHandler{
		uowFactory: uowFactory,
		notifier:   newEventNotifier(publisher, logger, "remind_unclaimed_orders"),
	}
}

// Handle returns the number of orders announced.
func (h RemindUnclaimedOrdersCommandHandler) Handle(ctx context.Context, cmd RemindUnclaimedOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetFreeSubmittedBefore(ctx, time.Now().Add(-cmd.OlderThan()))
	if err != nil {
		return 0, err
	}

	snapshots := make([]events.OrderSnapshot, 0, len(orders))
	restaurants := make(map[kernel.UUID]*restaurant.Restaurant)
	for _, o := range orders {
		restaurantID := o.RestaurantID()
		if restaurantID == nil {
			continue
		}

		r, ok := restaurants[*restaurantID]
		if !ok {
			if r, err = uow.RestaurantRepository().Get(ctx, *restaurantID); err != nil {
				return 0, err
			}
			restaurants[*restaurantID] = r
		}

		snapshot, snapErr := events.NewOrderSnapshot(o, r)
		if snapErr != nil {
			return 0, snapErr
		}
		snapshots = append(snapshots, snapshot)
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	for _, snapshot := range snapshots {
		h.notifier.notify(ctx, events.CourierQueueChannel, func() (events.Event, error) {
			return events.NewOrderEvent(snapshot)
		})
	}

	return len(snapshots), nil
}
