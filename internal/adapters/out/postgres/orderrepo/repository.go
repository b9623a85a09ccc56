package orderrepo

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/adapters/out/postgres/pgerr"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts the order with ON CONFLICT DO NOTHING so that a concurrent open
// order of the same user is reported as ports.ErrOpenOrderExists instead of
// aborting the transaction.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	dto := fromDomain(aggregate)
	result := db.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrOpenOrderExists
	}

	if err := r.writeChildren(db, aggregate, false); err != nil {
		return err
	}

	aggregate.MarkPersisted()
	return nil
}

// Update saves the order row, appends new ledger entries and replaces the line
// items if they changed.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	dto := fromDomain(aggregate)
	result := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"courier_id":         dto.CourierID,
		"is_open":            dto.IsOpen,
		"summary":            dto.Summary,
		"delivery_address":   dto.DeliveryAddress,
		"delivery_latitude":  dto.DeliveryLocation.Latitude,
		"delivery_longitude": dto.DeliveryLocation.Longitude,
		"details":            dto.Details,
	})
	if result.Error != nil {
		if pgerr.IsUniqueViolation(result.Error) {
			return ports.ErrOpenOrderExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	if err := r.writeChildren(db, aggregate, true); err != nil {
		return err
	}

	aggregate.MarkPersisted()
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves an order by ID and locks its row.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// FindOpenByUser returns the most recently created open order of the user.
func (r *GormOrderRepository) FindOpenByUser(ctx context.Context, userID kernel.UUID) (*order.Order, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.preload(r.db.WithContext(ctx)).
		Where("user_id = ? AND is_open", userID.Bytes()).
		Order("created_at DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("open order", userID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// HasActiveDelivery reports whether the courier has an order without a Cancelled
// or Delivered ledger entry.
func (r *GormOrderRepository) HasActiveDelivery(ctx context.Context, courierID kernel.UUID) (bool, error) {
	if err := courierID.Validate(); err != nil {
		return false, err
	}

	var exists bool
	err := r.db.WithContext(ctx).Raw(`
		SELECT EXISTS (
			SELECT 1 FROM orders o
			WHERE o.courier_id = ?
			  AND NOT EXISTS (
				SELECT 1 FROM order_statuses s
				WHERE s.order_id = o.id AND s.status IN ?
			  )
		)`, courierID.Bytes(), finishedCodes()).Scan(&exists).Error
	if err != nil {
		return false, err
	}

	return exists, nil
}

// GetFreeSubmittedBefore returns unclaimed orders that have been Preparing since before t.
func (r *GormOrderRepository) GetFreeSubmittedBefore(ctx context.Context, t time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.preload(r.db.WithContext(ctx)).
		Where("courier_id IS NULL").
		Where(`EXISTS (SELECT 1 FROM order_statuses s
			WHERE s.order_id = orders.id AND s.status = ? AND s.created_at < ?)`, order.Preparing.Code(), t.UTC()).
		Where(`NOT EXISTS (SELECT 1 FROM order_statuses s
			WHERE s.order_id = orders.id AND s.status IN ?)`, []string{
			order.Delivering.Code(), order.Cancelled.Code(), order.Delivered.Code(),
		}).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) get(db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.preload(db).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines.Dish").Preload("Statuses")
}

// writeChildren appends pending ledger entries and, when replaceLines is set and
// the line items changed, rewrites them.
func (r *GormOrderRepository) writeChildren(db *gorm.DB, aggregate *order.Order, replaceLines bool) error {
	if statuses := statusesFromDomain(aggregate.ID(), aggregate.PendingStatuses()); len(statuses) > 0 {
		if err := db.Create(&statuses).Error; err != nil {
			if pgerr.IsUniqueViolation(err) {
				return order.ErrStatusAlreadyRecorded
			}
			return err
		}
	}

	if !aggregate.LinesChanged() {
		return nil
	}
	if replaceLines {
		if err := db.Where("order_id = ?", aggregate.ID().Bytes()).Delete(&OrderDishDTO{}).Error; err != nil {
			return err
		}
	}
	if lines := linesFromDomain(aggregate); len(lines) > 0 {
		if err := db.Omit(clause.Associations).Create(&lines).Error; err != nil {
			if pgerr.IsUniqueViolation(err) {
				return order.ErrDishAlreadyInOrder
			}
			return err
		}
	}
	return nil
}

func finishedCodes() []string {
	return []string{order.Cancelled.Code(), order.Delivered.Code()}
}
