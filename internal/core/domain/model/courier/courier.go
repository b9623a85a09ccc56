package courier

import (
	"errors"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

var (
	ErrFirstNameIsRequired     = errs.NewValueIsRequiredError("first name")
	ErrAccountIsNotConstructed = errors.New("Account must be created via NewAccount or RestoreAccount")
)

// Account is the courier profile of a user. One user has at most one account.
//
// Example:
//
//	acc, err := courier.NewAccount(kernel.NewUUID(), userID, "Ivan", "+70000000000")
type Account struct {
	id        kernel.UUID
	userID    kernel.UUID
	firstName string
	phone     string

	isConstructed bool
}

// NewAccount validates ids and requires a first name. Phone is optional.
func NewAccount(id kernel.UUID, userID kernel.UUID, firstName string, phone string) (*Account, error) {
	a := &Account{
		phone:         phone,
		isConstructed: true,
	}

	if err := errors.Join(
		a.setID(id),
		a.setUserID(userID),
		a.setFirstName(firstName),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAccount rebuilds an account loaded from persistence.
func RestoreAccount(id kernel.UUID, userID kernel.UUID, firstName string, phone string) (*Account, error) {
	return NewAccount(id, userID, firstName, phone)
}

func (a *Account) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAccountIsNotConstructed
	}
	return nil
}

func (a *Account) ID() kernel.UUID {
	return a.id
}

func (a *Account) UserID() kernel.UUID {
	return a.userID
}

func (a *Account) FirstName() string {
	return a.firstName
}

func (a *Account) Phone() string {
	return a.phone
}

func (a *Account) IsEqual(other *Account) bool {
	return other != nil && a.id.IsEqual(other.id)
}

func (a *Account) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Account) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.userID = id
	return nil
}

func (a *Account) setFirstName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrFirstNameIsRequired
	}
	a.firstName = name
	return nil
}
