package http

import (
	"time"

	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/events"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Error is the body of every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type SubmitOrderRequest struct {
	DeliveryAddress  string   `json:"delivery_address"`
	DeliveryLocation Location `json:"delivery_location"`
	Details          string   `json:"details"`
}

type AddDishRequest struct {
	DishID   openapi_types.UUID `json:"dish_id"`
	Quantity *int               `json:"quantity,omitempty"`
}

type UpdateDishRequest struct {
	Quantity int `json:"quantity"`
}

type AppendStatusRequest struct {
	Status string `json:"status"`
}

type StatusEntry struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type OrderLine struct {
	DishID   openapi_types.UUID `json:"dish_id"`
	Name     string             `json:"name"`
	Price    int                `json:"price"`
	Quantity int                `json:"quantity"`
	Subtotal int                `json:"subtotal"`
}

type Order struct {
	ID               openapi_types.UUID  `json:"id"`
	UserID           openapi_types.UUID  `json:"user_id"`
	CourierID        *openapi_types.UUID `json:"courier_id,omitempty"`
	Summary          int                 `json:"summary"`
	Total            int                 `json:"total"`
	DeliveryAddress  string              `json:"delivery_address,omitempty"`
	DeliveryLocation *Location           `json:"delivery_location,omitempty"`
	Details          string              `json:"details,omitempty"`
	Status           string              `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
	Dishes           []OrderLine         `json:"dishes"`
}

type Restaurant struct {
	ID       openapi_types.UUID `json:"id"`
	Name     string             `json:"name"`
	Address  string             `json:"address"`
	Location Location           `json:"location"`
}

type OrderCard struct {
	ID               openapi_types.UUID  `json:"id"`
	UserID           openapi_types.UUID  `json:"user_id"`
	CourierID        *openapi_types.UUID `json:"courier_id,omitempty"`
	Summary          int                 `json:"summary"`
	Details          string              `json:"details,omitempty"`
	DeliveryAddress  string              `json:"delivery_address,omitempty"`
	DeliveryLocation *Location           `json:"delivery_location,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	Status           string              `json:"status"`
	StatusAt         time.Time           `json:"status_at"`
	Restaurant       *Restaurant         `json:"restaurant,omitempty"`
	Dishes           []OrderLine         `json:"dishes"`
}

type CourierPosition struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}

type OrderDetail struct {
	OrderCard
	Statuses        []StatusEntry    `json:"statuses"`
	CourierLocation *CourierPosition `json:"courier_location,omitempty"`
}

type NearbyRestaurant struct {
	ID       openapi_types.UUID `json:"id"`
	Name     string             `json:"name"`
	Address  string             `json:"address"`
	Location Location           `json:"location"`
	Distance float64            `json:"distance"`
	IsOpen   bool               `json:"is_open"`
	Hours    string             `json:"hours,omitempty"`
}

func toLocation(l kernel.Location) Location {
	return Location{Latitude: l.Latitude(), Longitude: l.Longitude()}
}

func toOptionalLocation(l *kernel.Location) *Location {
	if l == nil {
		return nil
	}
	loc := toLocation(*l)
	return &loc
}

func toOptionalUUID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func toStatusEntry(e order.StatusEntry) StatusEntry {
	return StatusEntry{
		Status:    e.Status().Code(),
		Timestamp: e.Timestamp().Format(events.TimestampLayout),
	}
}

func toStatusEntries(entries []order.StatusEntry) []StatusEntry {
	result := make([]StatusEntry, len(entries))
	for i, e := range entries {
		result[i] = toStatusEntry(e)
	}
	return result
}

func toOrder(o *order.Order) Order {
	lines := o.Lines()
	dishes := make([]OrderLine, len(lines))
	for i, line := range lines {
		dishes[i] = OrderLine{
			DishID:   line.DishID().Bytes(),
			Name:     line.Name(),
			Price:    line.Price(),
			Quantity: line.Quantity(),
			Subtotal: line.Subtotal(),
		}
	}

	return Order{
		ID:               o.ID().Bytes(),
		UserID:           o.UserID().Bytes(),
		CourierID:        toOptionalUUID(o.Courier()),
		Summary:          o.Summary(),
		Total:            o.Total(),
		DeliveryAddress:  o.DeliveryAddress(),
		DeliveryLocation: toOptionalLocation(o.DeliveryLocation()),
		Details:          o.Details(),
		Status:           o.CurrentStatus().Code(),
		CreatedAt:        o.CreatedAt(),
		Dishes:           dishes,
	}
}

func toOrderCard(card queries.OrderCard) OrderCard {
	dishes := make([]OrderLine, len(card.Dishes))
	for i, d := range card.Dishes {
		dishes[i] = OrderLine{
			DishID:   d.ID.Bytes(),
			Name:     d.Name,
			Price:    d.Price,
			Quantity: d.Quantity,
			Subtotal: d.Price * d.Quantity,
		}
	}

	result := OrderCard{
		ID:               card.ID.Bytes(),
		UserID:           card.UserID.Bytes(),
		CourierID:        toOptionalUUID(card.CourierID),
		Summary:          card.Summary,
		Details:          card.Details,
		DeliveryAddress:  card.DeliveryAddress,
		DeliveryLocation: toOptionalLocation(card.DeliveryLocation),
		CreatedAt:        card.CreatedAt,
		Status:           card.Status.Code(),
		StatusAt:         card.StatusAt,
		Dishes:           dishes,
	}
	if card.Restaurant != nil {
		result.Restaurant = &Restaurant{
			ID:       card.Restaurant.ID.Bytes(),
			Name:     card.Restaurant.Name,
			Address:  card.Restaurant.Address,
			Location: toLocation(card.Restaurant.Location),
		}
	}
	return result
}

func toOrderCards(cards []queries.OrderCard) []OrderCard {
	result := make([]OrderCard, len(cards))
	for i, card := range cards {
		result[i] = toOrderCard(card)
	}
	return result
}

func toOrderDetail(detail queries.OrderDetail) OrderDetail {
	result := OrderDetail{
		OrderCard: toOrderCard(detail.OrderCard),
		Statuses:  toStatusEntries(detail.Statuses),
	}
	if detail.CourierLocation != nil {
		result.CourierLocation = &CourierPosition{
			Latitude:   detail.CourierLocation.Location.Latitude(),
			Longitude:  detail.CourierLocation.Location.Longitude(),
			RecordedAt: detail.CourierLocation.RecordedAt,
		}
	}
	return result
}

func toCourierPosition(ping *courier.LocationPing) CourierPosition {
	return CourierPosition{
		Latitude:   ping.Location().Latitude(),
		Longitude:  ping.Location().Longitude(),
		RecordedAt: ping.RecordedAt(),
	}
}

func toNearbyRestaurants(restaurants []queries.NearbyRestaurant) []NearbyRestaurant {
	result := make([]NearbyRestaurant, len(restaurants))
	for i, r := range restaurants {
		result[i] = NearbyRestaurant{
			ID:       r.ID.Bytes(),
			Name:     r.Name,
			Address:  r.Address,
			Location: toLocation(r.Location),
			Distance: r.Distance,
			IsOpen:   r.IsOpen,
			Hours:    r.Hours,
		}
	}
	return result
}
