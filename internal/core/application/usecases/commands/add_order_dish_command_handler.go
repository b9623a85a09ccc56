package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/order"
)

// AddOrderDishCommandHandler adds a line item to an open order.
//
// Preconditions, checked in this order:
//   - the order exists and belongs to the user (NotFound)
//   - the order is still Open (InvalidState)
//   - the dish exists (NotFound)
//   - the dish is from the same restaurant as the other line items (Conflict)
//   - the dish is not in the order yet (Conflict)
type AddOrderDishCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewAddOrderDishCommandHandler(uowFactory OrderUoWFactory) AddOrderDishCommandHandler {
	return AddOrderDishCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the updated order.
func (h AddOrderDishCommandHandler) Handle(ctx context.Context, cmd AddOrderDishCommand) (*order.Order, error) {
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
	if err = o.ValidateModifiable(); err != nil {
		return nil, err
	}

	dish, err := uow.RestaurantRepository().GetDish(ctx, cmd.DishID())
	if err != nil {
		return nil, err
	}

	line, err := order.NewLine(dish, cmd.Quantity())
	if err != nil {
		return nil, err
	}
	if err = o.AddLine(line); err != nil {
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
