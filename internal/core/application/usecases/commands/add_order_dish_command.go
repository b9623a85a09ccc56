package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var ErrAddOrderDishCommandIsNotConstructed = errors.New(
	"AddOrderDishCommand must be created via NewAddOrderDishCommand constructor",
)

// AddOrderDishCommand puts a dish into the user's open order.
type AddOrderDishCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	userID   kernel.UUID
	dishID   kernel.UUID
	quantity int

	guard guard.ConstructorGuard
}

// NewAddOrderDishCommand creates the command. quantity must be at least order.MinQuantity.
func NewAddOrderDishCommand(orderID, userID, dishID kernel.UUID, quantity int) (AddOrderDishCommand, error) {
	cmd := AddOrderDishCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setUserID(userID),
		cmd.setDishID(dishID),
		cmd.setQuantity(quantity),
	); err != nil {
		return AddOrderDishCommand{}, err
	}

	return cmd, nil
}

func (c AddOrderDishCommand) Validate() error {
	return c.guard.Validate(ErrAddOrderDishCommandIsNotConstructed)
}

func (c AddOrderDishCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AddOrderDishCommand) UserID() kernel.UUID {
	return c.userID
}

func (c AddOrderDishCommand) DishID() kernel.UUID {
	return c.dishID
}

func (c AddOrderDishCommand) Quantity() int {
	return c.quantity
}

func (c *AddOrderDishCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *AddOrderDishCommand) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.userID = id
	return nil
}

func (c *AddOrderDishCommand) setDishID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.dishID = id
	return nil
}

func (c *AddOrderDishCommand) setQuantity(quantity int) error {
	if err := order.ValidateQuantity(quantity); err != nil {
		return err
	}
	c.quantity = quantity
	return nil
}
