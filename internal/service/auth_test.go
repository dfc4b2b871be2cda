package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainerrors "github.com/treehouse-books/treehouse-server/internal/errors"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, RegisterRequest{
		Username: "maya",
		Email:    "maya@example.com",
		Password: "treehouse",
		Age:      10,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "maya", resp.User.Username)

	login, err := env.auth.Login(ctx, LoginRequest{Username: "maya", Password: "treehouse"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, RegisterRequest{
		Username: "maya", Email: "maya@example.com", Password: "treehouse", Age: 10,
	})
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, RegisterRequest{
		Username: "Maya", Email: "other@example.com", Password: "treehouse", Age: 9,
	})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, RegisterRequest{
		Username: "maya", Email: "maya@example.com", Password: "treehouse", Age: 10,
	})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, LoginRequest{Username: "maya", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	// Unknown usernames fail identically.
	_, err = env.auth.Login(ctx, LoginRequest{Username: "nobody", Password: "whatever"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestRefreshRotatesTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, RegisterRequest{
		Username: "maya", Email: "maya@example.com", Password: "treehouse", Age: 10,
	})
	require.NoError(t, err)

	refreshed, err := env.auth.Refresh(ctx, RefreshRequest{
		UserID:       resp.User.ID,
		RefreshToken: resp.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	// The old token is dead after rotation.
	_, err = env.auth.Refresh(ctx, RefreshRequest{
		UserID:       resp.User.ID,
		RefreshToken: resp.RefreshToken,
	})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestLogoutInvalidatesRefresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, RegisterRequest{
		Username: "maya", Email: "maya@example.com", Password: "treehouse", Age: 10,
	})
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, resp.User.ID))

	_, err = env.auth.Refresh(ctx, RefreshRequest{
		UserID:       resp.User.ID,
		RefreshToken: resp.RefreshToken,
	})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(context.Background(), RegisterRequest{
		Username: "ab", Email: "not-an-email", Password: "x", Age: 10,
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
