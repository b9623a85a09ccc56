package restaurant

import (
	"errors"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

const MinDishPrice = 1

var (
	ErrDishNameIsRequired   = errs.NewValueIsRequiredError("dish name")
	ErrDishIsNotConstructed = errors.New("Dish must be created via NewDish constructor")
)

// Dish is a priced item of one restaurant. Prices are whole currency units.
type Dish struct {
	id           kernel.UUID
	restaurantID kernel.UUID
	name         string
	price        int
	gramme       int

	isConstructed bool
}

// NewDish validates price >= 1 and gramme >= 1.
func NewDish(id kernel.UUID, restaurantID kernel.UUID, name string, price int, gramme int) (*Dish, error) {
	d := &Dish{isConstructed: true}

	if err := errors.Join(
		d.setID(id),
		d.setRestaurantID(restaurantID),
		d.setName(name),
		d.setPrice(price),
		d.setGramme(gramme),
	); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Dish) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDishIsNotConstructed
	}
	return nil
}

func (d *Dish) ID() kernel.UUID {
	return d.id
}

func (d *Dish) RestaurantID() kernel.UUID {
	return d.restaurantID
}

func (d *Dish) Name() string {
	return d.name
}

func (d *Dish) Price() int {
	return d.price
}

func (d *Dish) Gramme() int {
	return d.gramme
}

func (d *Dish) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Dish) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.restaurantID = id
	return nil
}

func (d *Dish) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrDishNameIsRequired
	}
	d.name = name
	return nil
}

func (d *Dish) setPrice(price int) error {
	if price < MinDishPrice {
		return errs.NewValueIsOutOfRangeError("price", price, MinDishPrice, "unbounded")
	}
	d.price = price
	return nil
}

func (d *Dish) setGramme(gramme int) error {
	if gramme < 1 {
		return errs.NewValueIsOutOfRangeError("gramme", gramme, 1, "unbounded")
	}
	d.gramme = gramme
	return nil
}
