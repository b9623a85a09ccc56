package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/restaurant"
)

// RestaurantRepository gives the core read access to restaurants and dishes.
// Add and AddDish exist for seeding; the core never changes the catalogue.
type RestaurantRepository interface {
	Add(ctx context.Context, r *restaurant.Restaurant) error
	AddDish(ctx context.Context, d *restaurant.Dish) error

	// Get returns a restaurant or NotFound.
	Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error)

	// GetDish returns a dish or NotFound.
	GetDish(ctx context.Context, id kernel.UUID) (*restaurant.Dish, error)
}
