package queries

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var (
	ErrGetCourierCurrentOrderQueryIsNotConstructed = errors.New(
		"GetCourierCurrentOrderQuery must be created via NewGetCourierCurrentOrderQuery constructor",
	)
	ErrGetCourierOrderHistoryQueryIsNotConstructed = errors.New(
		"GetCourierOrderHistoryQuery must be created via NewGetCourierOrderHistoryQuery constructor",
	)
	ErrGetCourierOrderQueryIsNotConstructed = errors.New(
		"GetCourierOrderQuery must be created via NewGetCourierOrderQuery constructor",
	)
)

// GetCourierCurrentOrderQuery asks for the order a courier is delivering now.
type GetCourierCurrentOrderQuery struct {
	courierUserID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCourierCurrentOrderQuery(courierUserID kernel.UUID) (GetCourierCurrentOrderQuery, error) {
	if err := courierUserID.Validate(); err != nil {
		return GetCourierCurrentOrderQuery{}, err
	}
	return GetCourierCurrentOrderQuery{courierUserID: courierUserID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCourierCurrentOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierCurrentOrderQueryIsNotConstructed)
}

func (q GetCourierCurrentOrderQuery) CourierUserID() kernel.UUID {
	return q.courierUserID
}

// GetCourierOrderHistoryQuery asks for every order ever assigned to a courier.
type GetCourierOrderHistoryQuery struct {
	courierUserID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCourierOrderHistoryQuery(courierUserID kernel.UUID) (GetCourierOrderHistoryQuery, error) {
	if err := courierUserID.Validate(); err != nil {
		return GetCourierOrderHistoryQuery{}, err
	}
	return GetCourierOrderHistoryQuery{courierUserID: courierUserID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCourierOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierOrderHistoryQueryIsNotConstructed)
}

func (q GetCourierOrderHistoryQuery) CourierUserID() kernel.UUID {
	return q.courierUserID
}

// GetCourierOrderQuery asks for one order assigned to a courier.
type GetCourierOrderQuery struct {
	orderID       kernel.UUID
	courierUserID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCourierOrderQuery(orderID, courierUserID kernel.UUID) (GetCourierOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), courierUserID.Validate()); err != nil {
		return GetCourierOrderQuery{}, err
	}
	return GetCourierOrderQuery{
		orderID:       orderID,
		courierUserID: courierUserID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q GetCourierOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierOrderQueryIsNotConstructed)
}

func (q GetCourierOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetCourierOrderQuery) CourierUserID() kernel.UUID {
	return q.courierUserID
}
