package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	t.Run("expired token", func(t *testing.T) {
		raw := signedToken(t, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		})
		assert.True(t, Expired(raw, now))
	})

	t.Run("live token", func(t *testing.T) {
		raw := signedToken(t, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		})
		assert.False(t, Expired(raw, now))
	})

	t.Run("token without exp", func(t *testing.T) {
		raw := signedToken(t, jwt.RegisteredClaims{Subject: "7"})
		assert.False(t, Expired(raw, now))
	})

	t.Run("garbage is not considered expired", func(t *testing.T) {
		assert.False(t, Expired("no-es-un-jwt", now))
	})
}

func TestSubject(t *testing.T) {
	raw := signedToken(t, jwt.RegisteredClaims{Subject: "7"})
	assert.Equal(t, "7", Subject(raw))
	assert.Empty(t, Subject("no-es-un-jwt"))
}
