package ports

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
)

// ErrUnauthorized is returned for a missing, malformed, expired or forged token.
var ErrUnauthorized = errors.New("unauthorized")

// Identity is the authenticated caller.
type Identity struct {
	UserID      kernel.UUID
	IsSuperuser bool
}

// TokenVerifier turns a bearer token into an Identity.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}
