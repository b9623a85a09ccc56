package order

import (
	"errors"
	"fmt"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/restaurant"
	"fooddelivery/internal/pkg/errs"
)

// MinQuantity is the smallest quantity of a line item.
const MinQuantity = 1

// Line is a line item: a dish and how many of it. The dish's restaurant, name and
// current price are carried along so the aggregate can enforce the single-restaurant
// rule and compute the summary without extra lookups.
type Line struct {
	dishID       kernel.UUID
	restaurantID kernel.UUID
	name         string
	price        int
	quantity     int
}

// NewLine creates a line for dish with the given quantity.
func NewLine(dish *restaurant.Dish, quantity int) (*Line, error) {
	if err := dish.Validate(); err != nil {
		return nil, err
	}
	return RestoreLine(dish.ID(), dish.RestaurantID(), dish.Name(), dish.Price(), quantity)
}

// RestoreLine rebuilds a line loaded from persistence.
func RestoreLine(dishID kernel.UUID, restaurantID kernel.UUID, name string, price int, quantity int) (*Line, error) {
	if err := errors.Join(dishID.Validate(), restaurantID.Validate(), ValidateQuantity(quantity)); err != nil {
		return nil, err
	}

	return &Line{
		dishID:       dishID,
		restaurantID: restaurantID,
		name:         name,
		price:        price,
		quantity:     quantity,
	}, nil
}

func (l *Line) DishID() kernel.UUID {
	return l.dishID
}

func (l *Line) RestaurantID() kernel.UUID {
	return l.restaurantID
}

func (l *Line) Name() string {
	return l.name
}

func (l *Line) Price() int {
	return l.price
}

func (l *Line) Quantity() int {
	return l.quantity
}

// Subtotal is price × quantity.
func (l *Line) Subtotal() int {
	return l.price * l.quantity
}

func (l *Line) clone() *Line {
	c := *l
	return &c
}

// ValidateQuantity checks quantity is at least MinQuantity.
func ValidateQuantity(quantity int) error {
	if quantity < MinQuantity {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is less than %d", quantity, MinQuantity))
	}
	return nil
}
