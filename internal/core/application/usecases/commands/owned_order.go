package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// lockOwnedOrder loads and locks an order of userID. Orders of other users are
// reported as missing.
func lockOwnedOrder(ctx context.Context, repo ports.OrderRepository, orderID, userID kernel.UUID) (*order.Order, error) {
	o, err := repo.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(userID) {
		return nil, errs.NewObjectNotFoundError("order", orderID.String())
	}
	return o, nil
}
