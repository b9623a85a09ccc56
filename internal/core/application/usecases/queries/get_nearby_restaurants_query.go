package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetNearbyRestaurantsQueryIsNotConstructed = errors.New(
	"GetNearbyRestaurantsQuery must be created via NewGetNearbyRestaurantsQuery constructor",
)

// GetNearbyRestaurantsQuery asks for restaurants that deliver to a location.
//
// Example:
//
//	here, _ := kernel.NewLocation(50.45, 30.52)
//	query, err := NewGetNearbyRestaurantsQuery(here, time.Now())
//	restaurants, err := handler.Handle(ctx, query)
type GetNearbyRestaurantsQuery struct {
	location kernel.Location
	at       time.Time

	guard guard.ConstructorGuard
}

// NewGetNearbyRestaurantsQuery creates the query. at is the moment the open
// state is computed for.
func NewGetNearbyRestaurantsQuery(location kernel.Location, at time.Time) (GetNearbyRestaurantsQuery, error) {
	if err := location.Validate(); err != nil {
		return GetNearbyRestaurantsQuery{}, err
	}
	return GetNearbyRestaurantsQuery{location: location, at: at, guard: guard.NewConstructorGuard()}, nil
}

func (q GetNearbyRestaurantsQuery) Validate() error {
	return q.guard.Validate(ErrGetNearbyRestaurantsQueryIsNotConstructed)
}

func (q GetNearbyRestaurantsQuery) Location() kernel.Location {
	return q.location
}

func (q GetNearbyRestaurantsQuery) At() time.Time {
	return q.at
}

// NearbyRestaurant is a restaurant within delivery range.
type NearbyRestaurant struct {
	ID       kernel.UUID
	Name     string
	Address  string
	Location kernel.Location
	Distance float64
	IsOpen   bool
	// Hours is "HH:MM-HH:MM", empty when the restaurant never closes.
	Hours string
}
