package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/memberdir/internal/pkg/apperrors"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret!"))

	_, err = HashPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "memberdir"})

	token, expiresIn, err := svc.GenerateAccessToken(Subject{MemberID: 7, Email: "a@b.com", AccessLevel: "Admin"})
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.MemberID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "Admin", claims.AccessLevel)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour})
		token, _, err := other.GenerateAccessToken(Subject{MemberID: 1, Email: "x@y.z"})
		require.NoError(t, err)

		_, err = svc.ValidateAndExtractClaims(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Minute})
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := past.GenerateAccessToken(Subject{MemberID: 1, Email: "x@y.z"})
		require.NoError(t, err)

		_, err = svc.ValidateAndExtractClaims(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := svc.ValidateAndExtractClaims("")
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	tok, err = ExtractBearerToken("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
