package auth_test

import (
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/auth"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newVerifier(t *testing.T) *auth.JWTVerifier {
	t.Helper()
	v, err := auth.NewJWTVerifier(secret)
	require.NoError(t, err)
	return v
}

func TestNewJWTVerifier_RequiresSecret(t *testing.T) {
	_, err := auth.NewJWTVerifier("")
	require.Error(t, err)
}

func TestJWTVerifier_Verify(t *testing.T) {
	v := newVerifier(t)
	userID := kernel.NewUUID()

	t.Run("user", func(t *testing.T) {
		token, err := v.Issue(ports.Identity{UserID: userID}, time.Hour)
		require.NoError(t, err)

		identity, err := v.Verify(token)

		require.NoError(t, err)
		assert.True(t, identity.UserID.IsEqual(userID))
		assert.False(t, identity.IsSuperuser)
	})

	t.Run("superuser", func(t *testing.T) {
		token, err := v.Issue(ports.Identity{UserID: userID, IsSuperuser: true}, time.Hour)
		require.NoError(t, err)

		identity, err := v.Verify(token)

		require.NoError(t, err)
		assert.True(t, identity.IsSuperuser)
	})
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v := newVerifier(t)
	now := time.Now()

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}
	valid := jwt.RegisteredClaims{
		Subject:   kernel.NewUUID().String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	expired, err := v.Issue(ports.Identity{UserID: kernel.NewUUID()}, -time.Minute)
	require.NoError(t, err)

	tests := map[string]string{
		"empty":          "",
		"garbage":        "not.a.token",
		"expired":        expired,
		"wrong secret":   sign(jwt.SigningMethodHS256, []byte("other"), valid),
		"none algorithm": sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid),
		"no expiry": sign(jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
			Subject: kernel.NewUUID().String(),
		}),
		"subject is not a uuid": sign(jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}),
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			require.ErrorIs(t, err, ports.ErrUnauthorized)
		})
	}
}
