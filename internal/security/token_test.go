package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"fleetdesk-backend/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func mintToken(t *testing.T, secret string, claims *UserClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("error signing token: %v", err)
	}
	return signed
}

func TestTokenManager_ValidateToken(t *testing.T) {
	tm := NewTokenManager(testSecret)

	t.Run("Valid", func(t *testing.T) {
		signed := mintToken(t, testSecret, &UserClaims{
			UserID: 9,
			Email:  "owner@example.com",
			Role:   domain.UserRoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		claims, err := tm.ValidateToken(signed)
		assert.NoError(t, err)
		assert.Equal(t, int32(9), claims.UserID)
		assert.Equal(t, domain.UserRoleAdmin, claims.Role)
	})

	t.Run("Expired", func(t *testing.T) {
		signed := mintToken(t, testSecret, &UserClaims{
			UserID: 9,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})

		_, err := tm.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		signed := mintToken(t, "another-secret-another-secret-ab", &UserClaims{UserID: 9})

		_, err := tm.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tm.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
