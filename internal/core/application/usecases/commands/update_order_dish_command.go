package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var ErrUpdateOrderDishCommandIsNotConstructed = errors.New(
	"UpdateOrderDishCommand must be created via NewUpdateOrderDishCommand constructor",
)

// UpdateOrderDishCommand changes the quantity of a line item.
type UpdateOrderDishCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	userID   kernel.UUID
	dishID   kernel.UUID
	quantity int

	guard guard.ConstructorGuard
}

func NewUpdateOrderDishCommand(orderID, userID, dishID kernel.UUID, quantity int) (UpdateOrderDishCommand, error) {
	cmd := UpdateOrderDishCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		userID.Validate(),
		dishID.Validate(),
		order.ValidateQuantity(quantity),
	); err != nil {
		return UpdateOrderDishCommand{}, err
	}

	cmd.orderID, cmd.userID, cmd.dishID, cmd.quantity = orderID, userID, dishID, quantity
	return cmd, nil
}

func (c UpdateOrderDishCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderDishCommandIsNotConstructed)
}

func (c UpdateOrderDishCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderDishCommand) UserID() kernel.UUID {
	return c.userID
}

func (c UpdateOrderDishCommand) DishID() kernel.UUID {
	return c.dishID
}

func (c UpdateOrderDishCommand) Quantity() int {
	return c.quantity
}
