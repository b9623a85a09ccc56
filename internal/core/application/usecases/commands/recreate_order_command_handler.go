package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
)

// RecreateOrderCommandHandler replaces the line items of the user's open order
// (created if missing) with copies of a previous order's dishes and quantities.
// The open order is locked before it is rewritten.
//
// Preconditions, checked in this order:
//   - the previous order exists and belongs to the user (NotFound)
//   - the open order is not the previous order itself (Conflict)
//   - the previous order has line items (InvalidState)
type RecreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewRecreateOrderCommandHandler(uowFactory OrderUoWFactory) RecreateOrderCommandHandler {
	return RecreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the refreshed open order.
func (h RecreateOrderCommandHandler) Handle(ctx context.Context, cmd RecreateOrderCommand) (*order.Order, error) {
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
	previous, err := orderRepo.Get(ctx, cmd.PreviousOrderID())
	if err != nil {
		return nil, err
	}
	if !previous.IsOwnedBy(cmd.UserID()) {
		return nil, errs.NewObjectNotFoundError("order", cmd.PreviousOrderID().String())
	}

	current, err := lockOpenOrder(ctx, orderRepo, cmd.UserID())
	if err != nil {
		return nil, err
	}

	if err = current.ReplaceLinesFrom(previous); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, current); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return current, nil
}
