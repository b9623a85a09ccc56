package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/order"
)

// UpdateOrderDishCommandHandler sets the quantity of an existing line item of an open order.
type UpdateOrderDishCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewUpdateOrderDishCommandHandler(uowFactory OrderUoWFactory) UpdateOrderDishCommandHandler {
	return UpdateOrderDishCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h UpdateOrderDishCommandHandler) Handle(ctx context.Context, cmd UpdateOrderDishCommand) (*order.Order, error) {
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
	if err = o.UpdateLineQuantity(cmd.DishID(), cmd.Quantity()); err != nil {
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
