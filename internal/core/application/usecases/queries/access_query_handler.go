package queries

import (
	"context"
	"errors"

	"fooddelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// IsCourierQueryHandler checks that a courier account exists for a user. The
// realtime gateway uses it before joining the courier queue.
type IsCourierQueryHandler struct {
	db *gorm.DB
}

func NewIsCourierQueryHandler(db *gorm.DB) IsCourierQueryHandler {
	return IsCourierQueryHandler{db: db}
}

func (h IsCourierQueryHandler) Handle(ctx context.Context, query IsCourierQuery) (bool, error) {
	if err := query.Validate(); err != nil {
		return false, err
	}

	_, err := courierAccountID(ctx, h.db, query.UserID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	return err == nil, err
}

// OwnsOrderQueryHandler checks that an order belongs to a user.
type OwnsOrderQueryHandler struct {
	db *gorm.DB
}

func NewOwnsOrderQueryHandler(db *gorm.DB) OwnsOrderQueryHandler {
	return OwnsOrderQueryHandler{db: db}
}

func (h OwnsOrderQueryHandler) Handle(ctx context.Context, query OwnsOrderQuery) (bool, error) {
	if err := query.Validate(); err != nil {
		return false, err
	}

	return ownsOrder(ctx, h.db, query.OrderID(), query.UserID())
}
