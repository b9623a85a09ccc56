package commands

import (
	"context"
	"log/slog"
	"time"

	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// UpdateCourierLocationCommandHandler stores a location ping of the courier
// assigned to an order and publishes event.location on the order channel.
// Orders assigned to someone else are reported as missing.
type UpdateCourierLocationCommandHandler struct {
	uowFactory UoWFactory
	notifier   eventNotifier
}

func NewUpdateCourierLocationCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) UpdateCourierLocationCommandHandler {
	return UpdateCourierLocationCommandHandler{
		uowFactory: uowFactory,
		notifier:   newEventNotifier(publisher, logger, "update_courier_location"),
	}
}

func (h UpdateCourierLocationCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateCourierLocationCommand,
) (*courier.LocationPing, error) {
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

	courierRepo := uow.CourierRepository()
	account, err := courierRepo.GetByUserID(ctx, cmd.CourierUserID())
	if err != nil {
		return nil, err
	}

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if !o.IsAssignedTo(account.ID()) {
		return nil, errs.NewObjectNotFoundError("order", cmd.OrderID().String())
	}

	ping, err := courier.NewLocationPing(kernel.NewUUID(), account.ID(), cmd.Location(), time.Now())
	if err != nil {
		return nil, err
	}
	if err = courierRepo.AddLocation(ctx, ping); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.notify(ctx, events.OrderChannel(o.ID()), func() (events.Event, error) {
		return events.NewLocationEvent(ping.Location())
	})

	return ping, nil
}
