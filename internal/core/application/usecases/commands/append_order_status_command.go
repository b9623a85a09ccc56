package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var ErrAppendOrderStatusCommandIsNotConstructed = errors.New(
	"AppendOrderStatusCommand must be created via NewAppendOrderStatusCommand constructor",
)

// AppendOrderStatusCommand asks to record a status on an order on behalf of a user.
type AppendOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	userID      kernel.UUID
	status      order.Status
	isSuperuser bool

	guard guard.ConstructorGuard
}

// NewAppendOrderStatusCommand creates the command. status accepts a code ("F") or a
// name ("DELIVERED").
func NewAppendOrderStatusCommand(
	orderID kernel.UUID,
	userID kernel.UUID,
	status string,
	isSuperuser bool,
) (AppendOrderStatusCommand, error) {
	parsed, statusErr := order.ParseStatus(status)
	if err := errors.Join(orderID.Validate(), userID.Validate(), statusErr); err != nil {
		return AppendOrderStatusCommand{}, err
	}

	return AppendOrderStatusCommand{
		orderID:     orderID,
		userID:      userID,
		status:      parsed,
		isSuperuser: isSuperuser,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c AppendOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrAppendOrderStatusCommandIsNotConstructed)
}

func (c AppendOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AppendOrderStatusCommand) UserID() kernel.UUID {
	return c.userID
}

func (c AppendOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c AppendOrderStatusCommand) IsSuperuser() bool {
	return c.isSuperuser
}
