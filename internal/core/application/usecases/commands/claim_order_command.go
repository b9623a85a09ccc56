package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand asks to assign a free order to the requesting courier.
//
// Example:
//
//	here, _ := kernel.NewLocation(50.45, 30.52)
//	cmd, err := NewClaimOrderCommand(orderID, courierUserID, here)
//	if err != nil {
//	    return fmt.Errorf("invalid claim: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type ClaimOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	courierUserID   kernel.UUID
	courierLocation kernel.Location

	guard guard.ConstructorGuard
}

func NewClaimOrderCommand(
	orderID kernel.UUID,
	courierUserID kernel.UUID,
	courierLocation kernel.Location,
) (ClaimOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		courierUserID.Validate(),
		courierLocation.Validate(),
	); err != nil {
		return ClaimOrderCommand{}, err
	}

	return ClaimOrderCommand{
		orderID:         orderID,
		courierUserID:   courierUserID,
		courierLocation: courierLocation,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}

func (c ClaimOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ClaimOrderCommand) CourierUserID() kernel.UUID {
	return c.courierUserID
}

func (c ClaimOrderCommand) CourierLocation() kernel.Location {
	return c.courierLocation
}
