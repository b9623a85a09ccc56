package queries

import (
	"context"
	"math"
	"slices"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/restaurant"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const metersPerLatitudeDegree = 111_320.0

// GetNearbyRestaurantsQueryHandler returns restaurants within maxDistance meters,
// nearest first. A latitude band narrows the scan; the exact haversine check is
// done in Go.
type GetNearbyRestaurantsQueryHandler struct {
	db          *gorm.DB
	maxDistance float64
	defaultTZ   *time.Location
}

func NewGetNearbyRestaurantsQueryHandler(
	db *gorm.DB,
	maxDistance float64,
	defaultTZ *time.Location,
) GetNearbyRestaurantsQueryHandler {
	if defaultTZ == nil {
		defaultTZ = time.UTC
	}
	return GetNearbyRestaurantsQueryHandler{db: db, maxDistance: maxDistance, defaultTZ: defaultTZ}
}

func (h GetNearbyRestaurantsQueryHandler) Handle(
	ctx context.Context,
	query GetNearbyRestaurantsQuery,
) ([]NearbyRestaurant, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	band := h.maxDistance / metersPerLatitudeDegree
	lat := query.Location().Latitude()

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, name, address, latitude, longitude, open_from, open_to, timezone
		FROM restaurants
		WHERE latitude BETWEEN ? AND ?
	`, math.Max(lat-band, -90), math.Min(lat+band, 90)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]NearbyRestaurant, 0)
	for rows.Next() {
		var (
			id                  uuid.UUID
			name, address       string
			latitude, longitude float64
			openFrom, openTo    *datatypes.Time
			timezone            *string
		)
		if err = rows.Scan(&id, &name, &address, &latitude, &longitude, &openFrom, &openTo, &timezone); err != nil {
			return nil, err
		}

		r, buildErr := h.buildRestaurant(id, name, address, latitude, longitude, openFrom, openTo, timezone)
		if buildErr != nil {
			return nil, buildErr
		}

		distance, distErr := r.DistanceTo(query.Location())
		if distErr != nil {
			return nil, distErr
		}
		if distance > h.maxDistance {
			continue
		}

		nearby := NearbyRestaurant{
			ID:       r.ID(),
			Name:     r.Name(),
			Address:  r.Address(),
			Location: r.Location(),
			Distance: distance,
			IsOpen:   r.IsOpenAt(query.At()),
		}
		if hours := r.OpeningHours(); hours.IsSet() {
			nearby.Hours = hours.String()
		}
		result = append(result, nearby)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(result, func(a, b NearbyRestaurant) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})

	return result, nil
}

func (h GetNearbyRestaurantsQueryHandler) buildRestaurant(
	id uuid.UUID,
	name, address string,
	latitude, longitude float64,
	openFrom, openTo *datatypes.Time,
	timezone *string,
) (*restaurant.Restaurant, error) {
	restaurantID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	loc, err := kernel.NewLocation(latitude, longitude)
	if err != nil {
		return nil, err
	}

	hours := restaurant.AlwaysOpen()
	if openFrom != nil && openTo != nil {
		if hours, err = restaurant.NewOpeningHours(time.Duration(*openFrom), time.Duration(*openTo)); err != nil {
			return nil, err
		}
	}

	tz := h.defaultTZ
	if timezone != nil && *timezone != "" {
		if tz, err = time.LoadLocation(*timezone); err != nil {
			return nil, err
		}
	}

	return restaurant.RestoreRestaurant(restaurantID, name, address, loc, hours, tz)
}
