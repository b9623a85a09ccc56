package commands

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// GetOrCreateOpenOrderCommandHandler returns the user's open order, creating an
// empty one if needed. Lookup and insert share one transaction; a concurrent insert
// for the same user is absorbed by the open-order unique index and the winner is
// re-read.
type GetOrCreateOpenOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewGetOrCreateOpenOrderCommandHandler(uowFactory OrderUoWFactory) GetOrCreateOpenOrderCommandHandler {
	return GetOrCreateOpenOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the open order and whether it was created by this call.
func (h GetOrCreateOpenOrderCommandHandler) Handle(
	ctx context.Context,
	cmd GetOrCreateOpenOrderCommand,
) (*order.Order, bool, error) {
	if err := cmd.Validate(); err != nil {
		return nil, false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, created, err := getOrCreateOpenOrder(ctx, uow.OrderRepository(), cmd.UserID())
	if err != nil {
		return nil, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}

	return o, created, nil
}

func getOrCreateOpenOrder(ctx context.Context, repo ports.OrderRepository, userID kernel.UUID) (*order.Order, bool, error) {
	existing, err := repo.FindOpenByUser(ctx, userID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}

	cart, err := order.NewOrder(kernel.NewUUID(), userID, time.Now())
	if err != nil {
		return nil, false, err
	}

	err = repo.Add(ctx, cart)
	if errors.Is(err, ports.ErrOpenOrderExists) {
		existing, err = repo.FindOpenByUser(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return cart, true, nil
}

// lockOpenOrder returns the user's open order locked for update, creating one
// if needed. A cart submitted between lookup and lock is no longer open, so the
// lookup runs again and sees the committed submission.
func lockOpenOrder(ctx context.Context, repo ports.OrderRepository, userID kernel.UUID) (*order.Order, error) {
	for range 2 {
		o, created, err := getOrCreateOpenOrder(ctx, repo, userID)
		if err != nil {
			return nil, err
		}
		if created {
			return o, nil
		}

		locked, err := repo.GetForUpdate(ctx, o.ID())
		if err != nil {
			return nil, err
		}
		if locked.IsOpen() {
			return locked, nil
		}
	}
	return nil, order.ErrOrderCannotBeModified
}
