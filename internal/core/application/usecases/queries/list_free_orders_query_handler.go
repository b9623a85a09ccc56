package queries

import (
	"context"

	"fooddelivery/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// ListFreeOrdersQueryHandler returns unassigned orders whose current status is
// Preparing, oldest submission first.
type ListFreeOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListFreeOrdersQueryHandler(db *gorm.DB) ListFreeOrdersQueryHandler {
	return ListFreeOrdersQueryHandler{db: db}
}

func (h ListFreeOrdersQueryHandler) Handle(ctx context.Context, query ListFreeOrdersQuery) ([]OrderCard, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return loadOrderCards(ctx, h.db, `
		WHERE ls.status = ? AND o.courier_id IS NULL
		ORDER BY ls.created_at, o.id
	`, order.Preparing.Code())
}
