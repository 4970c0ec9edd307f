package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, 1)

	token, err := tm.GenerateAccessToken(42, "renter@example.com", false)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "renter@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.ID, "JTI should be set")
}

func TestTokenManager_AdminClaim(t *testing.T) {
	tm := NewTokenManager(testSecret, 1)

	token, err := tm.GenerateAccessToken(7, "admin@example.com", true)
	assert.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	assert.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	tm := NewTokenManager(testSecret, 1)

	_, err := tm.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, 1)
	other := NewTokenManager("ffffffffffffffffffffffffffffffff", 1)

	token, err := tm.GenerateAccessToken(1, "x@example.com", false)
	assert.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
