package postgres

import (
	"fmt"

	"fooddelivery/internal/adapters/out/postgres/courierrepo"
	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/adapters/out/postgres/restaurantrepo"

	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&restaurantrepo.RestaurantDTO{},
		&restaurantrepo.DishDTO{},
		&courierrepo.CourierAccountDTO{},
		&courierrepo.CourierLocationDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderDishDTO{},
		&orderrepo.OrderStatusDTO{},
	}
}

// Migrate creates or updates the schema with AutoMigrate. Indexes come from the
// DTO tags; the single open order per user is the partial unique index tagged
// on OrderDTO.UserID.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
