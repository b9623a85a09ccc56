package commands

import (
	"errors"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var ErrSubmitOrderCommandIsNotConstructed = errors.New(
	"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
)

// SubmitOrderCommand places the user's open order for delivery.
//
// Example:
//
//	loc, _ := kernel.NewLocation(50.45, 30.52)
//	cmd, err := NewSubmitOrderCommand(orderID, userID, "Khreshchatyk 1", loc, "2nd floor")
//	if err != nil {
//	    return fmt.Errorf("invalid submission: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type SubmitOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	userID   kernel.UUID
	address  string
	location kernel.Location
	details  string

	guard guard.ConstructorGuard
}

func NewSubmitOrderCommand(
	orderID kernel.UUID,
	userID kernel.UUID,
	address string,
	location kernel.Location,
	details string,
) (SubmitOrderCommand, error) {
	cmd := SubmitOrderCommand{
		details: details,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setUserID(userID),
		cmd.setAddress(address),
		cmd.setLocation(location),
	); err != nil {
		return SubmitOrderCommand{}, err
	}

	return cmd, nil
}

func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

func (c SubmitOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SubmitOrderCommand) UserID() kernel.UUID {
	return c.userID
}

func (c SubmitOrderCommand) Address() string {
	return c.address
}

func (c SubmitOrderCommand) Location() kernel.Location {
	return c.location
}

func (c SubmitOrderCommand) Details() string {
	return c.details
}

func (c *SubmitOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *SubmitOrderCommand) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.userID = id
	return nil
}

func (c *SubmitOrderCommand) setAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return order.ErrDeliveryAddressIsRequired
	}
	c.address = address
	return nil
}

func (c *SubmitOrderCommand) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}
