package restaurant

import (
	"errors"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

var (
	ErrNameIsRequired             = errs.NewValueIsRequiredError("name")
	ErrRestaurantIsNotConstructed = errors.New("Restaurant must be created via NewRestaurant or RestoreRestaurant")
)

// Restaurant is the seller every dish of an order belongs to.
type Restaurant struct {
	id       kernel.UUID
	name     string
	address  string
	location kernel.Location
	hours    OpeningHours
	timezone *time.Location

	isConstructed bool
}

// NewRestaurant creates a restaurant. A nil timezone means UTC.
//
// Example:
//
//	loc, _ := kernel.NewLocation(55.75, 37.61)
//	hours, _ := restaurant.NewOpeningHours(9*time.Hour, 23*time.Hour)
//	r, err := restaurant.NewRestaurant(kernel.NewUUID(), "Pelmeni", "Tverskaya 1", loc, hours, moscow)
func NewRestaurant(
	id kernel.UUID,
	name string,
	address string,
	location kernel.Location,
	hours OpeningHours,
	timezone *time.Location,
) (*Restaurant, error) {
	r := &Restaurant{
		address:       address,
		hours:         hours,
		timezone:      timezone,
		isConstructed: true,
	}
	if r.timezone == nil {
		r.timezone = time.UTC
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setLocation(location),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRestaurant rebuilds a restaurant loaded from persistence.
func RestoreRestaurant(
	id kernel.UUID,
	name string,
	address string,
	location kernel.Location,
	hours OpeningHours,
	timezone *time.Location,
) (*Restaurant, error) {
	return NewRestaurant(id, name, address, location, hours, timezone)
}

func (r *Restaurant) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRestaurantIsNotConstructed
	}
	return nil
}

func (r *Restaurant) ID() kernel.UUID {
	return r.id
}

func (r *Restaurant) Name() string {
	return r.name
}

func (r *Restaurant) Address() string {
	return r.address
}

func (r *Restaurant) Location() kernel.Location {
	return r.location
}

func (r *Restaurant) OpeningHours() OpeningHours {
	return r.hours
}

func (r *Restaurant) Timezone() *time.Location {
	return r.timezone
}

// IsOpenAt evaluates the opening window on the restaurant's local clock.
func (r *Restaurant) IsOpenAt(now time.Time) bool {
	return r.hours.IsOpenAt(now.In(r.timezone))
}

// DistanceTo returns the distance in meters from the restaurant to loc.
func (r *Restaurant) DistanceTo(loc kernel.Location) (float64, error) {
	return r.location.Distance(loc)
}

func (r *Restaurant) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Restaurant) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	r.name = name
	return nil
}

func (r *Restaurant) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	r.location = location
	return nil
}
