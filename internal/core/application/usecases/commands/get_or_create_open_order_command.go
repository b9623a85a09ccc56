package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetOrCreateOpenOrderCommandIsNotConstructed = errors.New(
	"GetOrCreateOpenOrderCommand must be created via NewGetOrCreateOpenOrderCommand constructor",
)

// GetOrCreateOpenOrderCommand asks for the user's cart, creating it when the user
// has none.
//
// Example:
//
//	cmd, err := NewGetOrCreateOpenOrderCommand(userID)
//	if err != nil {
//	    return fmt.Errorf("invalid user: %w", err)
//	}
//	cart, created, err := handler.Handle(ctx, cmd)
type GetOrCreateOpenOrderCommand struct { //nolint:recvcheck //using for validation
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrCreateOpenOrderCommand(userID kernel.UUID) (GetOrCreateOpenOrderCommand, error) {
	cmd := GetOrCreateOpenOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setUserID(userID); err != nil {
		return GetOrCreateOpenOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c GetOrCreateOpenOrderCommand) Validate() error {
	return c.guard.Validate(ErrGetOrCreateOpenOrderCommandIsNotConstructed)
}

func (c GetOrCreateOpenOrderCommand) UserID() kernel.UUID {
	return c.userID
}

func (c *GetOrCreateOpenOrderCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}
