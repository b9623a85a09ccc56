package courier

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

var (
	ErrRecordedAtIsRequired         = errs.NewValueIsRequiredError("recorded at")
	ErrLocationPingIsNotConstructed = errors.New("LocationPing must be created via NewLocationPing")
)

// LocationPing is a courier position reported at a point in time.
type LocationPing struct {
	id         kernel.UUID
	courierID  kernel.UUID
	location   kernel.Location
	recordedAt time.Time

	isConstructed bool
}

func NewLocationPing(
	id kernel.UUID,
	courierID kernel.UUID,
	location kernel.Location,
	recordedAt time.Time,
) (*LocationPing, error) {
	p := &LocationPing{isConstructed: true}

	if err := errors.Join(
		p.setID(id),
		p.setCourierID(courierID),
		p.setLocation(location),
		p.setRecordedAt(recordedAt),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *LocationPing) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrLocationPingIsNotConstructed
	}
	return nil
}

func (p *LocationPing) ID() kernel.UUID {
	return p.id
}

func (p *LocationPing) CourierID() kernel.UUID {
	return p.courierID
}

func (p *LocationPing) Location() kernel.Location {
	return p.location
}

func (p *LocationPing) RecordedAt() time.Time {
	return p.recordedAt
}

func (p *LocationPing) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *LocationPing) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.courierID = id
	return nil
}

func (p *LocationPing) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	p.location = location
	return nil
}

func (p *LocationPing) setRecordedAt(t time.Time) error {
	if t.IsZero() {
		return ErrRecordedAtIsRequired
	}
	p.recordedAt = t.UTC()
	return nil
}
