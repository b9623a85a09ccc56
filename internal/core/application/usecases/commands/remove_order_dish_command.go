package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrRemoveOrderDishCommandIsNotConstructed = errors.New(
	"RemoveOrderDishCommand must be created via NewRemoveOrderDishCommand constructor",
)

// RemoveOrderDishCommand deletes a line item. With an empty dish id it clears the
// whole cart (see NewClearCartCommand).
type RemoveOrderDishCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	userID  kernel.UUID
	dishID  *kernel.UUID

	guard guard.ConstructorGuard
}

func NewRemoveOrderDishCommand(orderID, userID, dishID kernel.UUID) (RemoveOrderDishCommand, error) {
	if err := errors.Join(orderID.Validate(), userID.Validate(), dishID.Validate()); err != nil {
		return RemoveOrderDishCommand{}, err
	}

	return RemoveOrderDishCommand{
		orderID: orderID,
		userID:  userID,
		dishID:  &dishID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// NewClearCartCommand removes every line item of the order.
func NewClearCartCommand(orderID, userID kernel.UUID) (RemoveOrderDishCommand, error) {
	if err := errors.Join(orderID.Validate(), userID.Validate()); err != nil {
		return RemoveOrderDishCommand{}, err
	}

	return RemoveOrderDishCommand{
		orderID: orderID,
		userID:  userID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RemoveOrderDishCommand) Validate() error {
	return c.guard.Validate(ErrRemoveOrderDishCommandIsNotConstructed)
}

func (c RemoveOrderDishCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RemoveOrderDishCommand) UserID() kernel.UUID {
	return c.userID
}

// DishID is nil for a clear-cart command.
func (c RemoveOrderDishCommand) DishID() *kernel.UUID {
	return c.dishID
}

// ClearsCart reports whether the command removes every line item.
func (c RemoveOrderDishCommand) ClearsCart() bool {
	return c.dishID == nil
}
