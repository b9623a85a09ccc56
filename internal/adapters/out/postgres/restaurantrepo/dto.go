// Package restaurantrepo persists restaurants and dishes.
package restaurantrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/restaurant"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RestaurantDTO is the restaurants row. A NULL opening window means always open,
// a NULL timezone means the configured default.
type RestaurantDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"not null"`
	Address   string          `gorm:"not null;default:''"`
	Latitude  float64         `gorm:"not null"`
	Longitude float64         `gorm:"not null"`
	OpenFrom  *datatypes.Time `gorm:"type:time"`
	OpenTo    *datatypes.Time `gorm:"type:time"`
	Timezone  *string
}

func (RestaurantDTO) TableName() string {
	return "restaurants"
}

// DishDTO is the dishes row.
type DishDTO struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Restaurant   RestaurantDTO `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	Name         string        `gorm:"not null"`
	Price        int           `gorm:"not null;check:price >= 1"`
	Gramme       int           `gorm:"not null;check:gramme >= 1"`
}

func (DishDTO) TableName() string {
	return "dishes"
}

func fromDomain(r *restaurant.Restaurant) RestaurantDTO {
	dto := RestaurantDTO{
		ID:        r.ID().Bytes(),
		Name:      r.Name(),
		Address:   r.Address(),
		Latitude:  r.Location().Latitude(),
		Longitude: r.Location().Longitude(),
	}
	if hours := r.OpeningHours(); hours.IsSet() {
		from, to := datatypes.Time(hours.From()), datatypes.Time(hours.To())
		dto.OpenFrom, dto.OpenTo = &from, &to
	}
	if tz := r.Timezone(); tz != nil && tz != time.UTC {
		name := tz.String()
		dto.Timezone = &name
	}
	return dto
}

func toDomain(dto RestaurantDTO, defaultTZ *time.Location) (*restaurant.Restaurant, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	loc, err := kernel.NewLocation(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	hours := restaurant.AlwaysOpen()
	if dto.OpenFrom != nil && dto.OpenTo != nil {
		hours, err = restaurant.NewOpeningHours(time.Duration(*dto.OpenFrom), time.Duration(*dto.OpenTo))
		if err != nil {
			return nil, err
		}
	}

	tz := defaultTZ
	if dto.Timezone != nil && *dto.Timezone != "" {
		if tz, err = time.LoadLocation(*dto.Timezone); err != nil {
			return nil, err
		}
	}

	return restaurant.RestoreRestaurant(id, dto.Name, dto.Address, loc, hours, tz)
}

func dishFromDomain(d *restaurant.Dish) DishDTO {
	return DishDTO{
		ID:           d.ID().Bytes(),
		RestaurantID: d.RestaurantID().Bytes(),
		Name:         d.Name(),
		Price:        d.Price(),
		Gramme:       d.Gramme(),
	}
}

func dishToDomain(dto DishDTO) (*restaurant.Dish, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}
	return restaurant.NewDish(id, restaurantID, dto.Name, dto.Price, dto.Gramme)
}
