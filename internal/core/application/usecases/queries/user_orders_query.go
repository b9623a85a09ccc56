package queries

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrGetUserOrderHistoryQueryIsNotConstructed = errors.New(
		"GetUserOrderHistoryQuery must be created via NewGetUserOrderHistoryQuery constructor",
	)
	ErrGetUserOrderQueryIsNotConstructed = errors.New(
		"GetUserOrderQuery must be created via NewGetUserOrderQuery constructor",
	)
	ErrGetOrderStatusesQueryIsNotConstructed = errors.New(
		"GetOrderStatusesQuery must be created via NewGetOrderStatusesQuery constructor",
	)
)

// GetUserOrderHistoryQuery asks for the submitted orders of a user.
type GetUserOrderHistoryQuery struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetUserOrderHistoryQuery(userID kernel.UUID) (GetUserOrderHistoryQuery, error) {
	if err := userID.Validate(); err != nil {
		return GetUserOrderHistoryQuery{}, err
	}
	return GetUserOrderHistoryQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetUserOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetUserOrderHistoryQueryIsNotConstructed)
}

func (q GetUserOrderHistoryQuery) UserID() kernel.UUID {
	return q.userID
}

// GetUserOrderQuery asks for the detail of one of the user's orders.
type GetUserOrderQuery struct {
	orderID kernel.UUID
	userID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetUserOrderQuery(orderID, userID kernel.UUID) (GetUserOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), userID.Validate()); err != nil {
		return GetUserOrderQuery{}, err
	}
	return GetUserOrderQuery{orderID: orderID, userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetUserOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetUserOrderQueryIsNotConstructed)
}

func (q GetUserOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetUserOrderQuery) UserID() kernel.UUID {
	return q.userID
}

// GetOrderStatusesQuery asks for the status timeline of one of the user's orders.
type GetOrderStatusesQuery struct {
	orderID kernel.UUID
	userID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderStatusesQuery(orderID, userID kernel.UUID) (GetOrderStatusesQuery, error) {
	if err := errors.Join(orderID.Validate(), userID.Validate()); err != nil {
		return GetOrderStatusesQuery{}, err
	}
	return GetOrderStatusesQuery{orderID: orderID, userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderStatusesQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatusesQueryIsNotConstructed)
}

func (q GetOrderStatusesQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderStatusesQuery) UserID() kernel.UUID {
	return q.userID
}
