package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrUpdateCourierLocationCommandIsNotConstructed = errors.New(
	"UpdateCourierLocationCommand must be created via NewUpdateCourierLocationCommand constructor",
)

// UpdateCourierLocationCommand reports where the courier delivering an order is.
type UpdateCourierLocationCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	courierUserID kernel.UUID
	location      kernel.Location

	guard guard.ConstructorGuard
}

func NewUpdateCourierLocationCommand(
	orderID kernel.UUID,
	courierUserID kernel.UUID,
	location kernel.Location,
) (UpdateCourierLocationCommand, error) {
	if err := errors.Join(orderID.Validate(), courierUserID.Validate(), location.Validate()); err != nil {
		return UpdateCourierLocationCommand{}, err
	}

	return UpdateCourierLocationCommand{
		orderID:       orderID,
		courierUserID: courierUserID,
		location:      location,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCourierLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierLocationCommandIsNotConstructed)
}

func (c UpdateCourierLocationCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateCourierLocationCommand) CourierUserID() kernel.UUID {
	return c.courierUserID
}

func (c UpdateCourierLocationCommand) Location() kernel.Location {
	return c.location
}
