package services

import (
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
)

// DefaultMaxCourierDistance is the claim radius in meters used when none is configured.
const DefaultMaxCourierDistance = 2000.0

var (
	ErrCourierTooFar            = errs.NewInvalidStateError("you are too far from the order")
	ErrCourierAlreadyDelivering = errs.NewInvalidStateError("you are already delivering an order")
)

// OrderDispatcher is a domain service that decides whether a courier may claim
// a free order and performs the assignment.
//
// Business rules, checked in this order:
//   - The order is Preparing and nobody claimed it
//   - The courier is within maxCourierDistance meters of the delivery location
//   - The courier has no other unfinished order
//
// Example usage:
//
//	dispatcher := services.NewOrderDispatcher(2000)
//	err := dispatcher.Claim(o, account, courierLocation, hasActiveDelivery, time.Now())
//	if errors.Is(err, services.ErrCourierTooFar) {
//	    // come closer and retry
//	}
type OrderDispatcher struct {
	maxCourierDistance float64
}

// NewOrderDispatcher creates an OrderDispatcher. A non-positive distance falls back to
// DefaultMaxCourierDistance.
func NewOrderDispatcher(maxCourierDistance float64) OrderDispatcher {
	if maxCourierDistance <= 0 {
		maxCourierDistance = DefaultMaxCourierDistance
	}
	return OrderDispatcher{maxCourierDistance: maxCourierDistance}
}

func (d OrderDispatcher) MaxCourierDistance() float64 {
	return d.maxCourierDistance
}

// Claim assigns account to o and appends Delivering.
//
// Parameters:
//   - o: the order to claim (loaded under a row lock)
//   - account: the claiming courier account (loaded under a row lock)
//   - courierLocation: where the courier is now
//   - hasActiveDelivery: whether the courier already has an unfinished order
//   - now: claim time
//
// Returns:
//   - error: order.ErrOrderCannotBeClaimed, ErrCourierTooFar, ErrCourierAlreadyDelivering
//     or a validation error; the order is unchanged on error
func (d OrderDispatcher) Claim(
	o *order.Order,
	account *courier.Account,
	courierLocation kernel.Location,
	hasActiveDelivery bool,
	now time.Time,
) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := account.Validate(); err != nil {
		return err
	}
	if err := courierLocation.Validate(); err != nil {
		return err
	}

	if err := o.ValidateClaimable(); err != nil {
		return err
	}

	destination := o.DeliveryLocation()
	if destination == nil {
		return order.ErrOrderCannotBeClaimed
	}
	distance, err := courierLocation.Distance(*destination)
	if err != nil {
		return err
	}
	if distance > d.maxCourierDistance {
		return fmt.Errorf("%w: %.0fm is more than %.0fm", ErrCourierTooFar, distance, d.maxCourierDistance)
	}

	if hasActiveDelivery {
		return ErrCourierAlreadyDelivering
	}

	return o.AssignCourier(account.ID(), now)
}
