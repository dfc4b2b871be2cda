package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treehouse-books/treehouse-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("treehouse123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword(hash, "treehouse123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-hash", "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService(strings.Repeat("ab", 32), 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	user := &domain.User{ID: "user-1", Username: "maya", IsAdmin: true}
	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "maya", claims.Username)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc, err := NewTokenService(strings.Repeat("ab", 32), -time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(&domain.User{ID: "user-1", Username: "maya"})
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestNewTokenServiceRejectsBadKey(t *testing.T) {
	_, err := NewTokenService("short", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(strings.Repeat("zz", 32), time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestHashRefreshTokenIsStable(t *testing.T) {
	svc, err := NewTokenService(strings.Repeat("ab", 32), time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateRefreshToken()
	require.NoError(t, err)

	assert.Equal(t, HashRefreshToken(token), HashRefreshToken(token))
	other, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, HashRefreshToken(token), HashRefreshToken(other))
}
