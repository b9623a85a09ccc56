// Package orderrepo provides data transfer objects and mapping functions for order persistence:
// the orders row, its line items and its append-only status ledger.
package orderrepo

import (
	"time"

	"fooddelivery/internal/adapters/out/postgres/courierrepo"
	"fooddelivery/internal/adapters/out/postgres/restaurantrepo"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the orders table. IsOpen mirrors "latest status is Open" and
// backs the partial unique index that allows one open order per user.
type OrderDTO struct {
	ID               uuid.UUID                      `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID                      `gorm:"type:uuid;not null;index;uniqueIndex:idx_orders_open_user,where:is_open"`
	CourierID        *uuid.UUID                     `gorm:"type:uuid;index"`
	Courier          *courierrepo.CourierAccountDTO `gorm:"foreignKey:CourierID;constraint:OnDelete:SET NULL"`
	IsOpen           bool                           `gorm:"not null;default:true"`
	Summary          int                            `gorm:"not null;default:0"`
	DeliveryAddress  string                         `gorm:"not null;default:''"`
	DeliveryLocation LocationDTO                    `gorm:"embedded;embeddedPrefix:delivery_"`
	Details          string                         `gorm:"not null;default:''"`
	CreatedAt        time.Time                      `gorm:"not null;index"`
	Lines            []OrderDishDTO                 `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Statuses         []OrderStatusDTO               `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// LocationDTO is the delivery coordinate, NULL until the order is submitted.
type LocationDTO struct {
	Latitude  *float64
	Longitude *float64
}

// OrderDishDTO is a line item. Name and price are read from the dish.
type OrderDishDTO struct {
	OrderID  uuid.UUID              `gorm:"type:uuid;primaryKey"`
	DishID   uuid.UUID              `gorm:"type:uuid;primaryKey"`
	Dish     restaurantrepo.DishDTO `gorm:"foreignKey:DishID;constraint:OnDelete:RESTRICT"`
	Quantity int                    `gorm:"not null;check:quantity >= 1"`
}

func (OrderDishDTO) TableName() string {
	return "order_dishes"
}

// OrderStatusDTO is one ledger row, unique per (order, status).
type OrderStatusDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status    string    `gorm:"type:char(1);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

func (OrderStatusDTO) TableName() string {
	return "order_statuses"
}

// fromDomain converts the order row. Lines and statuses are written separately.
func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	var location LocationDTO
	if loc := aggregate.DeliveryLocation(); loc != nil {
		lat, lon := loc.Latitude(), loc.Longitude()
		location = LocationDTO{Latitude: &lat, Longitude: &lon}
	}

	return OrderDTO{
		ID:               aggregate.ID().Bytes(),
		UserID:           aggregate.UserID().Bytes(),
		CourierID:        courierID,
		IsOpen:           aggregate.IsOpen(),
		Summary:          aggregate.Summary(),
		DeliveryAddress:  aggregate.DeliveryAddress(),
		DeliveryLocation: location,
		Details:          aggregate.Details(),
		CreatedAt:        aggregate.CreatedAt(),
	}
}

func linesFromDomain(aggregate *order.Order) []OrderDishDTO {
	lines := aggregate.Lines()
	dtos := make([]OrderDishDTO, 0, len(lines))
	for _, l := range lines {
		dtos = append(dtos, OrderDishDTO{
			OrderID:  aggregate.ID().Bytes(),
			DishID:   l.DishID().Bytes(),
			Quantity: l.Quantity(),
		})
	}
	return dtos
}

func statusesFromDomain(orderID kernel.UUID, entries []order.StatusEntry) []OrderStatusDTO {
	dtos := make([]OrderStatusDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, OrderStatusDTO{
			OrderID:   orderID.Bytes(),
			Status:    e.Status().Code(),
			CreatedAt: e.Timestamp(),
		})
	}
	return dtos
}

// toDomain rebuilds the aggregate. Lines must be loaded with their Dish.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	var location *kernel.Location
	if dto.DeliveryLocation.Latitude != nil && dto.DeliveryLocation.Longitude != nil {
		loc, locErr := kernel.NewLocation(*dto.DeliveryLocation.Latitude, *dto.DeliveryLocation.Longitude)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	lines := make([]*order.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		dishID, dishErr := kernel.UUIDFromBytes(l.DishID[:])
		if dishErr != nil {
			return nil, dishErr
		}
		restaurantID, restErr := kernel.UUIDFromBytes(l.Dish.RestaurantID[:])
		if restErr != nil {
			return nil, restErr
		}
		line, lineErr := order.RestoreLine(dishID, restaurantID, l.Dish.Name, l.Dish.Price, l.Quantity)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	statuses := make([]order.StatusEntry, 0, len(dto.Statuses))
	for _, s := range dto.Statuses {
		entry, entryErr := order.NewStatusEntry(order.Status(s.Status), s.CreatedAt)
		if entryErr != nil {
			return nil, entryErr
		}
		statuses = append(statuses, entry)
	}

	return order.RestoreOrder(
		id,
		userID,
		courierID,
		dto.Summary,
		dto.DeliveryAddress,
		location,
		dto.Details,
		dto.CreatedAt,
		lines,
		statuses,
	)
}
