package queries

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrIsCourierQueryIsNotConstructed = errors.New(
		"IsCourierQuery must be created via NewIsCourierQuery constructor",
	)
	ErrOwnsOrderQueryIsNotConstructed = errors.New(
		"OwnsOrderQuery must be created via NewOwnsOrderQuery constructor",
	)
)

// IsCourierQuery asks whether a user has a courier account.
type IsCourierQuery struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewIsCourierQuery(userID kernel.UUID) (IsCourierQuery, error) {
	if err := userID.Validate(); err != nil {
		return IsCourierQuery{}, err
	}
	return IsCourierQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q IsCourierQuery) Validate() error {
	return q.guard.Validate(ErrIsCourierQueryIsNotConstructed)
}

func (q IsCourierQuery) UserID() kernel.UUID {
	return q.userID
}

// OwnsOrderQuery asks whether an order belongs to a user.
type OwnsOrderQuery struct {
	orderID kernel.UUID
	userID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewOwnsOrderQuery(orderID, userID kernel.UUID) (OwnsOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), userID.Validate()); err != nil {
		return OwnsOrderQuery{}, err
	}
	return OwnsOrderQuery{orderID: orderID, userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q OwnsOrderQuery) Validate() error {
	return q.guard.Validate(ErrOwnsOrderQueryIsNotConstructed)
}

func (q OwnsOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q OwnsOrderQuery) UserID() kernel.UUID {
	return q.userID
}
