package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/treehouse-books/treehouse-server/internal/domain"
	domainerrors "github.com/treehouse-books/treehouse-server/internal/errors"
	"github.com/treehouse-books/treehouse-server/internal/store"
)

// defaultLeaderboardSize caps the leaderboard when no limit is given.
const defaultLeaderboardSize = 10

// UserService handles profile reads, the points leaderboard, and book
// completion.
type UserService struct {
	store  *store.Store
	points *PointsService
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *store.Store, points *PointsService, logger *slog.Logger) *UserService {
	return &UserService{store: store, points: points, logger: logger}
}

// Get returns one user by ID.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	Rank         int            `json:"rank"`
	UserID       string         `json:"user_id"`
	Username     string         `json:"username"`
	ProfilePhoto string         `json:"profile_photo,omitempty"`
	Points       int            `json:"points"`
	Badges       []domain.Badge `json:"badges"`
}

// Leaderboard returns the top users by points, descending. Ties keep
// username order so ranks are stable across calls.
func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].Points != users[j].Points {
			return users[i].Points > users[j].Points
		}
		return users[i].Username < users[j].Username
	})

	if len(users) > limit {
		users = users[:limit]
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		badges := u.Badges
		if badges == nil {
			badges = []domain.Badge{}
		}
		entries[i] = LeaderboardEntry{
			Rank:         i + 1,
			UserID:       u.ID,
			Username:     u.Username,
			ProfilePhoto: u.ProfilePhoto,
			Points:       u.Points,
			Badges:       badges,
		}
	}
	return entries, nil
}

// CompleteBook marks a book finished for the user and awards points on first
// completion. The book must exist in the catalog.
func (s *UserService) CompleteBook(ctx context.Context, userID, bookID string) (*domain.User, bool, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		if domainerrors.Is(err, store.ErrBookNotFound) {
			return nil, false, domainerrors.NotFound("book not found")
		}
		return nil, false, fmt.Errorf("look up book: %w", err)
	}

	user, completed, err := s.points.RecordBookCompleted(ctx, userID, bookID)
	if err != nil {
		return nil, false, err
	}
	if completed {
		s.logger.Info("Book completed", "user_id", userID, "book_id", bookID)
	}
	return user, completed, nil
}

// CompletedBooks returns the catalog entries the user has finished. Books
// that have since vanished from the catalog are skipped.
func (s *UserService) CompletedBooks(ctx context.Context, userID string) ([]*domain.Book, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	books := make([]*domain.Book, 0, len(user.CompletedBooks))
	for _, bookID := range user.CompletedBooks {
		book, err := s.store.GetBook(ctx, bookID)
		if err != nil {
			if domainerrors.Is(err, store.ErrBookNotFound) {
				continue
			}
			return nil, fmt.Errorf("get completed book %s: %w", bookID, err)
		}
		books = append(books, book)
	}
	return books, nil
}
