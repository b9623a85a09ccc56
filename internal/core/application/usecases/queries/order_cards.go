// Package queries contains read operations for retrieving system state.
// Handlers read straight from the database with SQL and return read models
// shaped for the HTTP and realtime surfaces; they never modify state.
package queries

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// latestStatusesSQL selects the current ledger entry of every order. Timestamps
// are strictly increasing per order; the rank breaks ties in legacy data.
const latestStatusesSQL = `
	SELECT DISTINCT ON (order_id) order_id, status, created_at
	FROM order_statuses
	ORDER BY order_id, created_at DESC,
		CASE status WHEN 'O' THEN 1 WHEN 'P' THEN 2 WHEN 'D' THEN 3 ELSE 4 END DESC`

// orderCardsSQL joins each order with its current status and the restaurant of
// its first line item. Callers append a WHERE and an ORDER BY clause.
const orderCardsSQL = `
	SELECT
		o.id,
		o.user_id,
		o.courier_id,
		o.summary,
		o.details,
		o.delivery_address,
		o.delivery_latitude,
		o.delivery_longitude,
		o.created_at,
		ls.status,
		ls.created_at,
		r.id,
		r.name,
		r.address,
		r.latitude,
		r.longitude
	FROM orders o
	JOIN (` + latestStatusesSQL + `) ls ON ls.order_id = o.id
	LEFT JOIN LATERAL (
		SELECT d.restaurant_id
		FROM order_dishes od
		JOIN dishes d ON d.id = od.dish_id
		WHERE od.order_id = o.id
		LIMIT 1
	) first_dish ON TRUE
	LEFT JOIN restaurants r ON r.id = first_dish.restaurant_id
`

// RestaurantCard is the restaurant an order is cooked in.
type RestaurantCard struct {
	ID       kernel.UUID
	Name     string
	Address  string
	Location kernel.Location
}

// DishCard is one line item with the dish's current name and price.
type DishCard struct {
	ID       kernel.UUID
	Name     string
	Price    int
	Quantity int
}

// OrderCard is the list view of an order.
type OrderCard struct {
	ID               kernel.UUID
	UserID           kernel.UUID
	CourierID        *kernel.UUID
	Summary          int
	Details          string
	DeliveryAddress  string
	DeliveryLocation *kernel.Location
	CreatedAt        time.Time
	Status           order.Status
	StatusAt         time.Time
	Restaurant       *RestaurantCard
	Dishes           []DishCard
}

// loadOrderCards runs orderCardsSQL with the given filter and attaches line items.
func loadOrderCards(ctx context.Context, db *gorm.DB, filter string, args ...any) ([]OrderCard, error) {
	rows, err := db.WithContext(ctx).Raw(orderCardsSQL+filter, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := make([]OrderCard, 0)
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			id, userID                   uuid.UUID
			courierID, restaurantID      *uuid.UUID
			card                         OrderCard
			status                       string
			deliveryLat, deliveryLon     *float64
			restaurantName, address      *string
			restaurantLat, restaurantLon *float64
		)

		if err = rows.Scan(
			&id,
			&userID,
			&courierID,
			&card.Summary,
			&card.Details,
			&card.DeliveryAddress,
			&deliveryLat,
			&deliveryLon,
			&card.CreatedAt,
			&status,
			&card.StatusAt,
			&restaurantID,
			&restaurantName,
			&address,
			&restaurantLat,
			&restaurantLon,
		); err != nil {
			return nil, err
		}

		if card.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if card.UserID, err = kernel.UUIDFromBytes(userID[:]); err != nil {
			return nil, err
		}
		if card.CourierID, err = optionalUUID(courierID); err != nil {
			return nil, err
		}
		if card.Status, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		if card.DeliveryLocation, err = optionalLocation(deliveryLat, deliveryLon); err != nil {
			return nil, err
		}

		if restaurantID != nil && restaurantName != nil && restaurantLat != nil && restaurantLon != nil {
			rc := RestaurantCard{Name: *restaurantName}
			if rc.ID, err = kernel.UUIDFromBytes(restaurantID[:]); err != nil {
				return nil, err
			}
			if rc.Location, err = kernel.NewLocation(*restaurantLat, *restaurantLon); err != nil {
				return nil, err
			}
			if address != nil {
				rc.Address = *address
			}
			card.Restaurant = &rc
		}

		card.Dishes = make([]DishCard, 0)
		index[id] = len(cards)
		cards = append(cards, card)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if len(cards) == 0 {
		return cards, nil
	}
	if err = attachDishes(ctx, db, cards, index); err != nil {
		return nil, err
	}

	return cards, nil
}

func attachDishes(ctx context.Context, db *gorm.DB, cards []OrderCard, index map[uuid.UUID]int) error {
	ids := make([]uuid.UUID, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}

	rows, err := db.WithContext(ctx).Raw(`
		SELECT od.order_id, d.id, d.name, d.price, od.quantity
		FROM order_dishes od
		JOIN dishes d ON d.id = od.dish_id
		WHERE od.order_id IN ?
		ORDER BY od.order_id, d.name, d.id
	`, ids).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID, dishID uuid.UUID
			dish            DishCard
		)
		if err = rows.Scan(&orderID, &dishID, &dish.Name, &dish.Price, &dish.Quantity); err != nil {
			return err
		}
		if dish.ID, err = kernel.UUIDFromBytes(dishID[:]); err != nil {
			return err
		}
		i := index[orderID]
		cards[i].Dishes = append(cards[i].Dishes, dish)
	}

	return rows.Err()
}

// loadOrderCard returns exactly one card or NotFound.
func loadOrderCard(ctx context.Context, db *gorm.DB, orderID kernel.UUID, filter string, args ...any) (OrderCard, error) {
	cards, err := loadOrderCards(ctx, db, filter, args...)
	if err != nil {
		return OrderCard{}, err
	}
	if len(cards) == 0 {
		return OrderCard{}, errs.NewObjectNotFoundError("order", orderID.String())
	}
	return cards[0], nil
}

// courierAccountID resolves the courier account of a user or returns NotFound.
func courierAccountID(ctx context.Context, db *gorm.DB, userID kernel.UUID) (kernel.UUID, error) {
	var ids []uuid.UUID
	err := db.WithContext(ctx).Raw(`SELECT id FROM courier_accounts WHERE user_id = ?`, userID.Bytes()).
		Scan(&ids).Error
	if err != nil {
		return kernel.UUID{}, err
	}
	if len(ids) == 0 {
		return kernel.UUID{}, errs.NewObjectNotFoundError("courier", userID.String())
	}
	return kernel.UUIDFromBytes(ids[0][:])
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent value
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalLocation(lat, lon *float64) (*kernel.Location, error) {
	if lat == nil || lon == nil {
		return nil, nil //nolint:nilnil // absent value
	}
	loc, err := kernel.NewLocation(*lat, *lon)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
