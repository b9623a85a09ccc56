// Package courierrepo provides data transfer objects and mapping functions for courier
// account persistence and the courier location history.
package courierrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierAccountDTO represents the database structure for courier accounts.
// A user has at most one courier account.
type CourierAccountDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	FirstName string    `gorm:"type:varchar(255);not null"`
	Phone     string    `gorm:"type:varchar(32);not null;default:''"`
}

// TableName overrides GORM's default naming convention.
func (CourierAccountDTO) TableName() string {
	return "courier_accounts"
}

// CourierLocationDTO is one append-only location ping. The latest row is the
// courier's live position.
type CourierLocationDTO struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	CourierID uuid.UUID         `gorm:"type:uuid;not null;index:idx_courier_locations_latest,priority:1"`
	Courier   CourierAccountDTO `gorm:"foreignKey:CourierID;constraint:OnDelete:CASCADE"`
	Latitude  float64           `gorm:"not null"`
	Longitude float64           `gorm:"not null"`
	CreatedAt time.Time         `gorm:"not null;index:idx_courier_locations_latest,priority:2,sort:desc"`
}

func (CourierLocationDTO) TableName() string {
	return "courier_locations"
}

func fromDomain(account *courier.Account) CourierAccountDTO {
	return CourierAccountDTO{
		ID:        account.ID().Bytes(),
		UserID:    account.UserID().Bytes(),
		FirstName: account.FirstName(),
		Phone:     account.Phone(),
	}
}

func toDomain(dto CourierAccountDTO) (*courier.Account, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	return courier.RestoreAccount(id, userID, dto.FirstName, dto.Phone)
}

func locationFromDomain(ping *courier.LocationPing) CourierLocationDTO {
	return CourierLocationDTO{
		ID:        ping.ID().Bytes(),
		CourierID: ping.CourierID().Bytes(),
		Latitude:  ping.Location().Latitude(),
		Longitude: ping.Location().Longitude(),
		CreatedAt: ping.RecordedAt(),
	}
}
