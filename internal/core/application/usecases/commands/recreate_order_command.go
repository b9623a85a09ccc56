package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrRecreateOrderCommandIsNotConstructed = errors.New(
	"RecreateOrderCommand must be created via NewRecreateOrderCommand constructor",
)

// RecreateOrderCommand fills the user's cart with the dishes of a previous order.
type RecreateOrderCommand struct { //nolint:recvcheck //using for validation
	previousOrderID kernel.UUID
	userID          kernel.UUID

	guard guard.ConstructorGuard
}

func NewRecreateOrderCommand(previousOrderID, userID kernel.UUID) (RecreateOrderCommand, error) {
	if err := errors.Join(previousOrderID.Validate(), userID.Validate()); err != nil {
		return RecreateOrderCommand{}, err
	}

	return RecreateOrderCommand{
		previousOrderID: previousOrderID,
		userID:          userID,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c RecreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrRecreateOrderCommandIsNotConstructed)
}

func (c RecreateOrderCommand) PreviousOrderID() kernel.UUID {
	return c.previousOrderID
}

func (c RecreateOrderCommand) UserID() kernel.UUID {
	return c.userID
}
