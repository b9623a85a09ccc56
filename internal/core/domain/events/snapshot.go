package events

import (
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/restaurant"
)

// Point is a coordinate as sent to clients.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type SnapshotRestaurant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Location Point  `json:"location"`
}

type SnapshotDish struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

// OrderSnapshot is what a courier needs to decide on a free order.
type OrderSnapshot struct {
	ID               string             `json:"id"`
	Summary          int                `json:"summary"`
	OrderDetails     string             `json:"order_details"`
	DeliveryAddress  string             `json:"delivery_address"`
	DeliveryLocation *Point             `json:"delivery_location"`
	Restaurant       SnapshotRestaurant `json:"restaurant"`
	Dishes           []SnapshotDish     `json:"dishes"`
}

// NewOrderSnapshot builds the snapshot of a submitted order and its restaurant.
func NewOrderSnapshot(o *order.Order, r *restaurant.Restaurant) (OrderSnapshot, error) {
	if err := o.Validate(); err != nil {
		return OrderSnapshot{}, err
	}
	if err := r.Validate(); err != nil {
		return OrderSnapshot{}, err
	}

	s := OrderSnapshot{
		ID:              o.ID().String(),
		Summary:         o.Summary(),
		OrderDetails:    o.Details(),
		DeliveryAddress: o.DeliveryAddress(),
		Restaurant: SnapshotRestaurant{
			ID:      r.ID().String(),
			Name:    r.Name(),
			Address: r.Address(),
			Location: Point{
				Latitude:  r.Location().Latitude(),
				Longitude: r.Location().Longitude(),
			},
		},
		Dishes: make([]SnapshotDish, 0, len(o.Lines())),
	}
	if loc := o.DeliveryLocation(); loc != nil {
		s.DeliveryLocation = &Point{Latitude: loc.Latitude(), Longitude: loc.Longitude()}
	}
	for _, l := range o.Lines() {
		s.Dishes = append(s.Dishes, SnapshotDish{
			ID:       l.DishID().String(),
			Name:     l.Name(),
			Price:    l.Price(),
			Quantity: l.Quantity(),
		})
	}
	return s, nil
}
