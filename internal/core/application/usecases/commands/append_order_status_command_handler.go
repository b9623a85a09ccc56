package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// AppendOrderStatusCommandHandler records Cancelled or Delivered on an order.
// The actor is the requester's courier account, if they have one, plus the
// superuser flag; see order.Order.AppendStatus for the rules.
//
// After commit an event.orderstatus is published on the order channel.
type AppendOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	notifier   eventNotifier
}

func NewAppendOrderStatusCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AppendOrderStatusCommandHandler {
	return AppendOrderStatusCommandHandler{
		uowFactory: uowFactory,
		notifier:   newEventNotifier(publisher, logger, "append_order_status"),
	}
}

// Handle returns the recorded ledger entry.
func (h AppendOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd AppendOrderStatusCommand,
) (order.StatusEntry, error) {
	if err := cmd.Validate(); err != nil {
		return order.StatusEntry{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.StatusEntry{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	actor := order.StatusActor{IsSuperuser: cmd.IsSuperuser()}
	account, err := uow.CourierRepository().GetByUserID(ctx, cmd.UserID())
	switch {
	case err == nil:
		courierID := account.ID()
		actor.CourierID = &courierID
	case !errors.Is(err, errs.ErrObjectNotFound):
		return order.StatusEntry{}, err
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return order.StatusEntry{}, err
	}

	if err = o.AppendStatus(cmd.Status(), actor, time.Now()); err != nil {
		return order.StatusEntry{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return order.StatusEntry{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.StatusEntry{}, err
	}

	entry := o.LastStatus()
	h.notifier.notify(ctx, events.OrderChannel(o.ID()), func() (events.Event, error) {
		return events.NewOrderStatusEvent(entry)
	})

	return entry, nil
}
