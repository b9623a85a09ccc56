package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier accounts and
// their location history.
type CourierRepository interface {
	// Add persists a new courier account. The user id must be unused.
	Add(ctx context.Context, account *courier.Account) error

	// GetByUserID returns the courier account of a user or NotFound.
	GetByUserID(ctx context.Context, userID kernel.UUID) (*courier.Account, error)

	// GetByUserIDForUpdate is GetByUserID holding a row lock until the transaction ends.
	GetByUserIDForUpdate(ctx context.Context, userID kernel.UUID) (*courier.Account, error)

	// AddLocation appends a location ping.
	AddLocation(ctx context.Context, ping *courier.LocationPing) error
}
