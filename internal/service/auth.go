// Package service provides the business logic layer of the Treehouse server.
package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/treehouse-books/treehouse-server/internal/auth"
	"github.com/treehouse-books/treehouse-server/internal/domain"
	"github.com/treehouse-books/treehouse-server/internal/dto"
	domainerrors "github.com/treehouse-books/treehouse-server/internal/errors"
	"github.com/treehouse-books/treehouse-server/internal/id"
	"github.com/treehouse-books/treehouse-server/internal/store"
	"github.com/treehouse-books/treehouse-server/internal/validation"
)

// AuthService handles registration, login, and token refresh.
type AuthService struct {
	store     *store.Store
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store *store.Store, tokens *auth.TokenService, validator *validation.Validator, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:     store,
		tokens:    tokens,
		validator: validator,
		logger:    logger,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
	Age      int    `json:"age" validate:"required,gte=3,lte=100"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest contains the refresh token presented by a client.
type RefreshRequest struct {
	UserID       string `json:"user_id" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User         *dto.UserResponse `json:"user"`
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	ExpiresIn    int64             `json:"expires_in"` // Access token lifetime in seconds
}

// Register creates a new reader account and signs them in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid password")
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		ID:           userID,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Age:          req.Age,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		switch {
		case domainerrors.Is(err, store.ErrUsernameTaken):
			return nil, domainerrors.Conflict("username is already taken")
		case domainerrors.Is(err, store.ErrEmailTaken):
			return nil, domainerrors.Conflict("email is already registered")
		default:
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	return s.issueTokens(ctx, user)
}

// Login verifies credentials and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if domainerrors.Is(err, store.ErrUserNotFound) {
			// Same error as a bad password, don't leak which usernames exist.
			return nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return s.issueTokens(ctx, user)
}

// Refresh rotates the token pair. The presented refresh token must match the
// stored hash and be unexpired; each refresh invalidates the previous token.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, req.UserID)
	if err != nil {
		if domainerrors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	presented := auth.HashRefreshToken(req.RefreshToken)
	if user.RefreshTokenHash == "" ||
		subtle.ConstantTimeCompare([]byte(presented), []byte(user.RefreshTokenHash)) != 1 {
		return nil, domainerrors.Unauthorized("invalid refresh token")
	}
	if time.Now().After(user.RefreshExpiresAt) {
		return nil, domainerrors.TokenExpired("refresh token expired")
	}

	return s.issueTokens(ctx, user)
}

// Logout invalidates the user's refresh token.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	_, err := s.store.MutateUser(ctx, userID, func(u *domain.User) error {
		u.RefreshTokenHash = ""
		u.RefreshExpiresAt = time.Time{}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// issueTokens generates a token pair and persists the refresh token hash.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*AuthResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	updated, err := s.store.MutateUser(ctx, user.ID, func(u *domain.User) error {
		u.RefreshTokenHash = auth.HashRefreshToken(refreshToken)
		u.RefreshExpiresAt = time.Now().Add(s.tokens.RefreshTokenDuration())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResponse{
		User:         dto.NewUserResponse(updated),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTokenDuration().Seconds()),
	}, nil
}
