package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/order"
)

// RemoveOrderDishCommandHandler removes one line item, or all of them for a
// clear-cart command, from an open order.
type RemoveOrderDishCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewRemoveOrderDishCommandHandler(uowFactory OrderUoWFactory) RemoveOrderDishCommandHandler {
	return RemoveOrderDishCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h RemoveOrderDishCommandHandler) Handle(ctx context.Context, cmd RemoveOrderDishCommand) (*order.Order, error) {
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

	if cmd.ClearsCart() {
		err = o.ClearLines()
	} else {
		err = o.RemoveLine(*cmd.DishID())
	}
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
