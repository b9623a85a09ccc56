package restaurantrepo

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/restaurant"
	"fooddelivery/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRestaurantRepository implements ports.RestaurantRepository using GORM.
type GormRestaurantRepository struct {
	db        *gorm.DB
	defaultTZ *time.Location
}

// NewGormRestaurantRepository creates a repository. Restaurants without a stored
// timezone are read in defaultTZ (UTC when nil).
func NewGormRestaurantRepository(db *gorm.DB, defaultTZ *time.Location) *GormRestaurantRepository {
	if defaultTZ == nil {
		defaultTZ = time.UTC
	}
	return &GormRestaurantRepository{
		db:        db,
		defaultTZ: defaultTZ,
	}
}

func (r *GormRestaurantRepository) Add(ctx context.Context, aggregate *restaurant.Restaurant) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return nil
}

func (r *GormRestaurantRepository) AddDish(ctx context.Context, dish *restaurant.Dish) error {
	if err := dish.Validate(); err != nil {
		return err
	}

	dto := dishFromDomain(dish)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dto).Error; err != nil {
		return err
	}

	return nil
}

func (r *GormRestaurantRepository) Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RestaurantDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("restaurant", id.String())
		}
		return nil, err
	}

	return toDomain(dto, r.defaultTZ)
}

func (r *GormRestaurantRepository) GetDish(ctx context.Context, id kernel.UUID) (*restaurant.Dish, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DishDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("dish", id.String())
		}
		return nil, err
	}

	return dishToDomain(dto)
}

// ToDomain converts a stored restaurant row, for read models that load rows themselves.
func ToDomain(dto RestaurantDTO, defaultTZ *time.Location) (*restaurant.Restaurant, error) {
	if defaultTZ == nil {
		defaultTZ = time.UTC
	}
	return toDomain(dto, defaultTZ)
}
