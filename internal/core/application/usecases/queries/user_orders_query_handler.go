package queries

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"gorm.io/gorm"
)

// OrderDetail is the single-order view: the card, the whole status timeline and,
// while a courier is on the way, their latest reported position.
type OrderDetail struct {
	OrderCard
	Statuses        []order.StatusEntry
	CourierLocation *CourierPosition
}

// CourierPosition is the latest location ping of a courier.
type CourierPosition struct {
	Location   kernel.Location
	RecordedAt time.Time
}

// GetUserOrderHistoryQueryHandler lists a user's submitted orders, newest first.
// The open cart is not part of the history.
type GetUserOrderHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetUserOrderHistoryQueryHandler(db *gorm.DB) GetUserOrderHistoryQueryHandler {
	return GetUserOrderHistoryQueryHandler{db: db}
}

func (h GetUserOrderHistoryQueryHandler) Handle(ctx context.Context, query GetUserOrderHistoryQuery) ([]OrderCard, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return loadOrderCards(ctx, h.db, `
		WHERE o.user_id = ? AND ls.status <> ?
		ORDER BY o.created_at DESC, o.id
	`, query.UserID().Bytes(), order.Open.Code())
}

// GetUserOrderQueryHandler returns the detail of an order owned by the user.
type GetUserOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetUserOrderQueryHandler(db *gorm.DB) GetUserOrderQueryHandler {
	return GetUserOrderQueryHandler{db: db}
}

func (h GetUserOrderQueryHandler) Handle(ctx context.Context, query GetUserOrderQuery) (OrderDetail, error) {
	if err := query.Validate(); err != nil {
		return OrderDetail{}, err
	}

	card, err := loadOrderCard(ctx, h.db, query.OrderID(), `WHERE o.id = ? AND o.user_id = ?`,
		query.OrderID().Bytes(), query.UserID().Bytes())
	if err != nil {
		return OrderDetail{}, err
	}

	statuses, err := loadStatuses(ctx, h.db, query.OrderID())
	if err != nil {
		return OrderDetail{}, err
	}
	detail := OrderDetail{OrderCard: card, Statuses: statuses}

	if card.CourierID != nil && card.Status == order.Delivering {
		if detail.CourierLocation, err = latestCourierPosition(ctx, h.db, *card.CourierID); err != nil {
			return OrderDetail{}, err
		}
	}

	return detail, nil
}

// GetOrderStatusesQueryHandler returns the status timeline of an order owned by
// the user, oldest first.
type GetOrderStatusesQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderStatusesQueryHandler(db *gorm.DB) GetOrderStatusesQueryHandler {
	return GetOrderStatusesQueryHandler{db: db}
}

func (h GetOrderStatusesQueryHandler) Handle(ctx context.Context, query GetOrderStatusesQuery) ([]order.StatusEntry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	owns, err := ownsOrder(ctx, h.db, query.OrderID(), query.UserID())
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	return loadStatuses(ctx, h.db, query.OrderID())
}

func loadStatuses(ctx context.Context, db *gorm.DB, orderID kernel.UUID) ([]order.StatusEntry, error) {
	rows, err := db.WithContext(ctx).Raw(`
		SELECT status, created_at
		FROM order_statuses
		WHERE order_id = ?
		ORDER BY created_at,
			CASE status WHEN 'O' THEN 1 WHEN 'P' THEN 2 WHEN 'D' THEN 3 ELSE 4 END
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]order.StatusEntry, 0)
	for rows.Next() {
		var (
			code string
			at   time.Time
		)
		if err = rows.Scan(&code, &at); err != nil {
			return nil, err
		}

		status, parseErr := order.ParseStatus(code)
		if parseErr != nil {
			return nil, parseErr
		}
		entry, entryErr := order.NewStatusEntry(status, at)
		if entryErr != nil {
			return nil, entryErr
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func latestCourierPosition(ctx context.Context, db *gorm.DB, courierID kernel.UUID) (*CourierPosition, error) {
	var rows []struct {
		Latitude  float64
		Longitude float64
		CreatedAt time.Time
	}
	err := db.WithContext(ctx).Raw(`
		SELECT latitude, longitude, created_at
		FROM courier_locations
		WHERE courier_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, courierID.Bytes()).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil //nolint:nilnil // no ping yet
	}

	loc, err := kernel.NewLocation(rows[0].Latitude, rows[0].Longitude)
	if err != nil {
		return nil, err
	}
	return &CourierPosition{Location: loc, RecordedAt: rows[0].CreatedAt}, nil
}

func ownsOrder(ctx context.Context, db *gorm.DB, orderID, userID kernel.UUID) (bool, error) {
	var owns bool
	err := db.WithContext(ctx).Raw(
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id = ? AND user_id = ?)`,
		orderID.Bytes(), userID.Bytes(),
	).Scan(&owns).Error
	return owns, err
}
