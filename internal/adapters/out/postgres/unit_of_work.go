// Package postgres provides the GORM-based Unit of Work and the schema migration
// for the order lifecycle.
//
// Usage:
//
//	factory := postgres.NewGormUnitOfWorkFactory(db, time.UTC)
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, id)
//	// ... mutate o
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance owns one transaction; goroutines must not share one.
package postgres

import (
	"context"
	"time"

	"fooddelivery/internal/adapters/out/postgres/courierrepo"
	"fooddelivery/internal/adapters/out/postgres/orderrepo"
	"fooddelivery/internal/adapters/out/postgres/restaurantrepo"
	"fooddelivery/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	defaultTZ *time.Location
}

// NewGormUnitOfWorkFactory creates a factory. defaultTZ is the timezone of
// restaurants that have none stored.
func NewGormUnitOfWorkFactory(db *gorm.DB, defaultTZ *time.Location) *GormUnitOfWorkFactory {
	if defaultTZ == nil {
		defaultTZ = time.UTC
	}
	return &GormUnitOfWorkFactory{db: db, defaultTZ: defaultTZ}
}

// Create produces a new UnitOfWork instance with its own transaction state.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:        f.db,
		defaultTZ: f.defaultTZ,
	}
}

// GormUnitOfWork coordinates one database transaction shared by its repositories.
type GormUnitOfWork struct {
	db        *gorm.DB
	tx        *gorm.DB
	defaultTZ *time.Location
}

// Begin starts the transaction. A second call is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction. After commit the unit of work has no transaction.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. Handlers defer it after Begin, so after a
// successful Commit it returns gorm.ErrInvalidTransaction and does nothing.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) CourierRepository() ports.CourierRepository {
	return courierrepo.NewGormCourierRepository(uow.conn())
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

func (uow *GormUnitOfWork) RestaurantRepository() ports.RestaurantRepository {
	return restaurantrepo.NewGormRestaurantRepository(uow.conn(), uow.defaultTZ)
}

// conn returns the transaction if one is active, the pool otherwise.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
