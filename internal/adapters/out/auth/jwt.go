// Package auth verifies the bearer tokens issued by the identity service.
package auth

import (
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

var _ ports.TokenVerifier = (*JWTVerifier)(nil)

// Claims are the HS256 token claims. The subject is the user id.
type Claims struct {
	IsSuperuser bool `json:"is_superuser,omitempty"`
	jwt.RegisteredClaims
}

type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

// Verify returns ports.ErrUnauthorized for every rejected token; the reason
// is kept in the wrapped chain.
func (v *JWTVerifier) Verify(token string) (ports.Identity, error) {
	if token == "" {
		return ports.Identity{}, ports.ErrUnauthorized
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithExpirationRequired())
	if err != nil {
		return ports.Identity{}, fmt.Errorf("%w: %w", ports.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return ports.Identity{}, ports.ErrUnauthorized
	}

	userID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return ports.Identity{}, fmt.Errorf("%w: subject: %w", ports.ErrUnauthorized, err)
	}

	return ports.Identity{UserID: userID, IsSuperuser: claims.IsSuperuser}, nil
}

// Issue signs a token for the user. The service itself never issues tokens;
// it exists for local tooling and tests.
func (v *JWTVerifier) Issue(identity ports.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		IsSuperuser: identity.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
