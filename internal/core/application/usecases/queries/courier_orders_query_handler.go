package queries

import (
	"context"

	"fooddelivery/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetCourierCurrentOrderQueryHandler returns the order whose current status is
// Delivering and that is assigned to the courier, or nil when there is none.
// Users without a courier account get NotFound.
type GetCourierCurrentOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetCourierCurrentOrderQueryHandler(db *gorm.DB) GetCourierCurrentOrderQueryHandler {
	return GetCourierCurrentOrderQueryHandler{db: db}
}

func (h GetCourierCurrentOrderQueryHandler) Handle(
	ctx context.Context,
	query GetCourierCurrentOrderQuery,
) (*OrderCard, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	accountID, err := courierAccountID(ctx, h.db, query.CourierUserID())
	if err != nil {
		return nil, err
	}

	cards, err := loadOrderCards(ctx, h.db, `
		WHERE o.courier_id = ? AND ls.status = ?
		ORDER BY ls.created_at DESC
		LIMIT 1
	`, accountID.Bytes(), order.Delivering.Code())
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, nil //nolint:nilnil // the courier is idle
	}

	return &cards[0], nil
}

// GetCourierOrderHistoryQueryHandler lists a courier's orders, most recent first.
type GetCourierOrderHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetCourierOrderHistoryQueryHandler(db *gorm.DB) GetCourierOrderHistoryQueryHandler {
	return GetCourierOrderHistoryQueryHandler{db: db}
}

func (h GetCourierOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetCourierOrderHistoryQuery,
) ([]OrderCard, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	accountID, err := courierAccountID(ctx, h.db, query.CourierUserID())
	if err != nil {
		return nil, err
	}

	return loadOrderCards(ctx, h.db, `
		WHERE o.courier_id = ?
		ORDER BY o.created_at DESC, o.id
	`, accountID.Bytes())
}

// GetCourierOrderQueryHandler returns the detail of an order assigned to the
// courier. Orders of other couriers are reported as missing.
type GetCourierOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetCourierOrderQueryHandler(db *gorm.DB) GetCourierOrderQueryHandler {
	return GetCourierOrderQueryHandler{db: db}
}

func (h GetCourierOrderQueryHandler) Handle(ctx context.Context, query GetCourierOrderQuery) (OrderDetail, error) {
	if err := query.Validate(); err != nil {
		return OrderDetail{}, err
	}

	accountID, err := courierAccountID(ctx, h.db, query.CourierUserID())
	if err != nil {
		return OrderDetail{}, err
	}

	card, err := loadOrderCard(ctx, h.db, query.OrderID(), `WHERE o.id = ? AND o.courier_id = ?`,
		query.OrderID().Bytes(), accountID.Bytes())
	if err != nil {
		return OrderDetail{}, err
	}

	statuses, err := loadStatuses(ctx, h.db, query.OrderID())
	if err != nil {
		return OrderDetail{}, err
	}

	return OrderDetail{OrderCard: card, Statuses: statuses}, nil
}
