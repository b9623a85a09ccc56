// Package ports defines the contracts between the core and its adapters:
// repositories, the unit of work, event publishing and token verification.
package ports

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
)

// ErrOpenOrderExists is returned by OrderRepository.Add when the user already has an
// open order (the partial unique index on open orders rejected the insert).
var ErrOpenOrderExists = errs.NewConflictError("user already has an open order")

// OrderRepository defines the persistence contract for order aggregates,
// including their line items and status ledger.
type OrderRepository interface {
	// Add persists a new order together with its pending ledger entries.
	// Returns ErrOpenOrderExists when the user already has an open order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the order row, appends the pending ledger entries and,
	// when they changed, replaces the line items.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its line items and ledger.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get holding a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindOpenByUser returns the user's open order, the most recently created one
	// if several exist. Returns NotFound when there is none.
	FindOpenByUser(ctx context.Context, userID kernel.UUID) (*order.Order, error)

	// HasActiveDelivery reports whether the courier has an order whose latest
	// status is neither Cancelled nor Delivered.
	HasActiveDelivery(ctx context.Context, courierID kernel.UUID) (bool, error)

	// GetFreeSubmittedBefore returns unclaimed Preparing orders submitted before t.
	//
	// Example:
	//   orders, err := repo.GetFreeSubmittedBefore(ctx, time.Now().Add(-5*time.Minute))
	//   if err != nil {
	//       return fmt.Errorf("failed to get free orders: %w", err)
	//   }
	GetFreeSubmittedBefore(ctx context.Context, t time.Time) ([]*order.Order, error)
}
