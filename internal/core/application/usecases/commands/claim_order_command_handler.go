package commands

import (
	"context"
	"log/slog"
	"time"

	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
)

// ClaimOrderCommandHandler assigns a free order to a courier.
//
// Both the courier account row and the order row are locked for the whole
// transaction, always in that order, so concurrent claims on one order
// serialize and a courier cannot take two orders at once.
//
// After commit it publishes event.orderstatus on the order channel and
// event.ordertaken on the courier queue.
type ClaimOrderCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.OrderDispatcher
	notifier   eventNotifier
}

func NewClaimOrderCommandHandler(
	uowFactory UoWFactory,
	dispatcher services.OrderDispatcher,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		notifier:   newEventNotifier(publisher, logger, "claim_order"),
	}
}

func (h ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (*order.Order, error) {
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

	account, err := uow.CourierRepository().GetByUserIDForUpdate(ctx, cmd.CourierUserID())
	if err != nil {
		return nil, err
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	busy, err := orderRepo.HasActiveDelivery(ctx, account.ID())
	if err != nil {
		return nil, err
	}

	if err = h.dispatcher.Claim(o, account, cmd.CourierLocation(), busy, time.Now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	entry := o.LastStatus()
	h.notifier.notify(ctx, events.OrderChannel(o.ID()), func() (events.Event, error) {
		return events.NewOrderStatusEvent(entry)
	})
	h.notifier.notify(ctx, events.CourierQueueChannel, func() (events.Event, error) {
		return events.NewOrderTakenEvent(o.ID())
	})

	return o, nil
}
