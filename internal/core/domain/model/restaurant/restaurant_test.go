package restaurant_test

import (
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/restaurant"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestOpeningHours_IsOpenAt(t *testing.T) {
	day, err := restaurant.NewOpeningHours(9*time.Hour, 22*time.Hour)
	require.NoError(t, err)
	night, err := restaurant.NewOpeningHours(22*time.Hour, 6*time.Hour)
	require.NoError(t, err)
	roundTheClock, err := restaurant.NewOpeningHours(8*time.Hour, 8*time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		hours restaurant.OpeningHours
		now   time.Time
		open  bool
	}{
		{"no window", restaurant.AlwaysOpen(), at(3, 0), true},
		{"day before opening", day, at(8, 59), false},
		{"day at opening", day, at(9, 0), true},
		{"day midday", day, at(13, 30), true},
		{"day at closing", day, at(22, 0), false},
		{"night before midnight", night, at(23, 0), true},
		{"night after midnight", night, at(2, 0), true},
		{"night at closing", night, at(6, 0), false},
		{"night daytime", night, at(12, 0), false},
		{"equal bounds", roundTheClock, at(19, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.open, tt.hours.IsOpenAt(tt.now))
		})
	}
}

func TestNewOpeningHours_OutOfRange(t *testing.T) {
	_, err := restaurant.NewOpeningHours(-time.Minute, time.Hour)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = restaurant.NewOpeningHours(time.Hour, 24*time.Hour)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestRestaurant_IsOpenAt_UsesLocalClock(t *testing.T) {
	tz := time.FixedZone("UTC+3", 3*60*60)
	loc, _ := kernel.NewLocation(55.75, 37.61)
	hours, _ := restaurant.NewOpeningHours(10*time.Hour, 20*time.Hour)

	r, err := restaurant.NewRestaurant(kernel.NewUUID(), "Pelmennaya", "Tverskaya 1", loc, hours, tz)
	require.NoError(t, err)

	// 08:00 UTC is 11:00 local.
	assert.True(t, r.IsOpenAt(at(8, 0)))
	// 18:00 UTC is 21:00 local.
	assert.False(t, r.IsOpenAt(at(18, 0)))
}

func TestNewRestaurant_Validation(t *testing.T) {
	loc, _ := kernel.NewLocation(1, 1)

	_, err := restaurant.NewRestaurant(kernel.UUID{}, " ", "", kernel.Location{}, restaurant.AlwaysOpen(), nil)

	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	require.ErrorIs(t, err, restaurant.ErrNameIsRequired)
	require.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)

	r, err := restaurant.NewRestaurant(kernel.NewUUID(), "Grill", "", loc, restaurant.AlwaysOpen(), nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, r.Timezone())
}

func TestNewDish(t *testing.T) {
	restaurantID := kernel.NewUUID()

	d, err := restaurant.NewDish(kernel.NewUUID(), restaurantID, "Borscht", 350, 300)
	require.NoError(t, err)
	assert.Equal(t, 350, d.Price())
	assert.True(t, d.RestaurantID().IsEqual(restaurantID))

	_, err = restaurant.NewDish(kernel.NewUUID(), restaurantID, "Water", 0, 500)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = restaurant.NewDish(kernel.NewUUID(), restaurantID, "", 10, 0)
	require.ErrorIs(t, err, restaurant.ErrDishNameIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	var zero *restaurant.Dish
	require.ErrorIs(t, zero.Validate(), restaurant.ErrDishIsNotConstructed)
}
