package kernel

import (
	"errors"
	"fmt"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// ErrLocationIsNotConstructed is returned when a zero-value Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError("location must be created via NewLocation constructor")

// Location is a WGS84 point. It is an immutable value object; the zero value is invalid.
//
// Example:
//
//	loc, err := kernel.NewLocation(55.7558, 37.6173)
//	if err != nil {
//	    // latitude or longitude out of range
//	}
type Location struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewLocation creates a Location, validating latitude in [-90, 90] and longitude in [-180, 180].
//
// Parameters:
//   - latitude: degrees north
//   - longitude: degrees east
//
// Returns:
//   - Location: a valid location
//   - error: ValueIsOutOfRangeError for each coordinate outside its range
func NewLocation(latitude float64, longitude float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLatitude(latitude), loc.setLongitude(longitude)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// Validate checks that the Location was created through NewLocation.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func (l Location) Latitude() float64 {
	return l.latitude
}

func (l Location) Longitude() float64 {
	return l.longitude
}

// String returns "Location(lat,lon)".
func (l Location) String() string {
	return fmt.Sprintf("Location(%.6f,%.6f)", l.latitude, l.longitude)
}

// IsEqual reports whether both locations point at the same coordinates.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l.latitude == other.latitude && l.longitude == other.longitude, nil
}

// Distance returns the great-circle distance in meters between two locations
// (haversine on a sphere with radius orb.EarthRadius).
//
// Distance is symmetric and Distance(l, l) == 0. Callers compare it against a
// threshold with <=, so a point exactly on the threshold is accepted.
//
// Example:
//
//	restaurant, _ := kernel.NewLocation(55.7558, 37.6173)
//	customer, _ := kernel.NewLocation(55.7600, 37.6200)
//	meters, err := restaurant.Distance(customer)
func (l Location) Distance(other Location) (float64, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	return geo.DistanceHaversine(l.point(), other.point()), nil
}

// IsWithin reports whether other is at most maxMeters away.
func (l Location) IsWithin(other Location, maxMeters float64) (bool, error) {
	d, err := l.Distance(other)
	if err != nil {
		return false, err
	}
	return d <= maxMeters, nil
}

func (l Location) point() orb.Point {
	return orb.Point{l.longitude, l.latitude}
}

func (l *Location) setLatitude(latitude float64) error {
	if latitude < MinLatitude || latitude > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}

	l.latitude = latitude
	return nil
}

func (l *Location) setLongitude(longitude float64) error {
	if longitude < MinLongitude || longitude > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}

	l.longitude = longitude
	return nil
}
