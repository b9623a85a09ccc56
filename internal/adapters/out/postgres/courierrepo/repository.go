package courierrepo

import (
	"context"
	"errors"

	"fooddelivery/internal/adapters/out/postgres/pgerr"
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCourierRepository implements ports.CourierRepository using GORM.
type GormCourierRepository struct {
	db *gorm.DB
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

// Add saves a new courier account. A second account for the same user is a Conflict.
func (r *GormCourierRepository) Add(ctx context.Context, account *courier.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	dto := fromDomain(account)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewConflictErrorWithCause("courier account already exists", err)
		}
		return err
	}

	return nil
}

// GetByUserID retrieves the courier account of a user.
func (r *GormCourierRepository) GetByUserID(ctx context.Context, userID kernel.UUID) (*courier.Account, error) {
	return r.getByUserID(r.db.WithContext(ctx), userID)
}

// GetByUserIDForUpdate locks the account row, serializing claims of one courier.
func (r *GormCourierRepository) GetByUserIDForUpdate(ctx context.Context, userID kernel.UUID) (*courier.Account, error) {
	return r.getByUserID(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

// AddLocation appends a location ping.
func (r *GormCourierRepository) AddLocation(ctx context.Context, ping *courier.LocationPing) error {
	if err := ping.Validate(); err != nil {
		return err
	}

	dto := locationFromDomain(ping)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dto).Error; err != nil {
		return err
	}

	return nil
}

func (r *GormCourierRepository) getByUserID(db *gorm.DB, userID kernel.UUID) (*courier.Account, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	var dto CourierAccountDTO
	if err := db.First(&dto, "user_id = ?", userID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier account", userID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
