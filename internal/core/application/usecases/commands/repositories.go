// Package commands contains business operations that modify system state.
// Every command follows the same pattern: a constructor-validated command value,
// a handler that runs it inside one unit of work, and events published after commit.
package commands

import (
	"context"

	"fooddelivery/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides access to courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// RestaurantRepoFactory provides read access to the catalogue within a transaction.
	RestaurantRepoFactory interface {
		RestaurantRepository() ports.RestaurantRepository
	}

	// OrderUoW is used by the customer-side commands: carts, submission, recreation.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		RestaurantRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW spans orders, couriers and the catalogue. Used by the courier-side
	// commands that need both the courier account and the order.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   account, err := uow.CourierRepository().GetByUserIDForUpdate(ctx, userID)
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		CourierRepoFactory
		OrderRepoFactory
		RestaurantRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
