package store

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treehouse-books/treehouse-server/internal/domain"
)

// newTestStore creates a store backed by a temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBookCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := &domain.Book{
		ID:       "book-1",
		Title:    "The Wind in the Willows",
		Author:   "Kenneth Grahame",
		Genres:   []domain.Genre{domain.GenreAdventure, domain.GenreFiction},
		Tags:     []string{"animals", "river"},
		AgeRange: domain.DefaultAgeRange,
	}

	require.NoError(t, s.CreateBook(ctx, book))

	t.Run("duplicate create fails", func(t *testing.T) {
		err := s.CreateBook(ctx, book)
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("get returns stored document", func(t *testing.T) {
		got, err := s.GetBook(ctx, "book-1")
		require.NoError(t, err)
		assert.Equal(t, "The Wind in the Willows", got.Title)
		assert.Equal(t, []string{"animals", "river"}, got.Tags)
	})

	t.Run("get missing book", func(t *testing.T) {
		_, err := s.GetBook(ctx, "book-missing")
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("update persists changes", func(t *testing.T) {
		book.Description = "A tale of the riverbank."
		require.NoError(t, s.UpdateBook(ctx, book))

		got, err := s.GetBook(ctx, "book-1")
		require.NoError(t, err)
		assert.Equal(t, "A tale of the riverbank.", got.Description)
	})

	t.Run("update missing book", func(t *testing.T) {
		err := s.UpdateBook(ctx, &domain.Book{ID: "book-missing"})
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("list returns snapshot", func(t *testing.T) {
		require.NoError(t, s.CreateBook(ctx, &domain.Book{ID: "book-2", Title: "Fire"}))

		books, err := s.ListBooks(ctx)
		require.NoError(t, err)
		assert.Len(t, books, 2)
	})
}

func TestMutateBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateBook(ctx, &domain.Book{ID: "book-1", Title: "Wind"}))

	got, err := s.MutateBook(ctx, "book-1", func(b *domain.Book) error {
		b.Drawings = append(b.Drawings, domain.Drawing{ID: "drw-1", UserID: "user-1"})
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, got.Drawings, 1)

	// A failing mutation must not persist partial changes.
	_, err = s.MutateBook(ctx, "book-1", func(b *domain.Book) error {
		b.Title = "clobbered"
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	got2, err := s.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Wind", got2.Title)

	_, err = s.MutateBook(ctx, "book-missing", func(*domain.Book) error { return nil })
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestUserUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := &domain.User{
		ID:       "user-1",
		Username: "Maya",
		Email:    "maya@example.com",
		Age:      10,
	}
	require.NoError(t, s.CreateUser(ctx, user))

	t.Run("username is case-insensitively unique", func(t *testing.T) {
		err := s.CreateUser(ctx, &domain.User{ID: "user-2", Username: "maya", Email: "other@example.com"})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("email is case-insensitively unique", func(t *testing.T) {
		err := s.CreateUser(ctx, &domain.User{ID: "user-2", Username: "milo", Email: "MAYA@example.com"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("lookup by username and email", func(t *testing.T) {
		byName, err := s.GetUserByUsername(ctx, "MAYA")
		require.NoError(t, err)
		assert.Equal(t, "user-1", byName.ID)

		byEmail, err := s.GetUserByEmail(ctx, "maya@EXAMPLE.com")
		require.NoError(t, err)
		assert.Equal(t, "user-1", byEmail.ID)
	})

	t.Run("missing lookups", func(t *testing.T) {
		_, err := s.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestListUsersSkipsIndexKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &domain.User{ID: "user-1", Username: "a", Email: "a@x.com"}))
	require.NoError(t, s.CreateUser(ctx, &domain.User{ID: "user-2", Username: "b", Email: "b@x.com"}))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestMutateUserAwardsPoints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &domain.User{ID: "user-1", Username: "a", Email: "a@x.com"}))

	got, err := s.MutateUser(ctx, "user-1", func(u *domain.User) error {
		u.AwardPoints(domain.ActionUploadDrawing, 10, map[string]any{"book_id": "book-1"})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 10, got.Points)
	require.Len(t, got.PointsHistory, 1)
	assert.Equal(t, domain.ActionUploadDrawing, got.PointsHistory[0].Action)
}

func TestVocabulary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entries := []domain.VocabularyEntry{
		{ID: "vocab-1", BookID: "book-1", Word: "meadow", Definition: "a grassy field", Options: "a tall tree, a small pond", CorrectAnswer: "a grassy field"},
		{ID: "vocab-2", BookID: "book-1", Word: "paddle", Definition: "to row gently", Options: "to sleep, to shout", CorrectAnswer: "to row gently"},
	}
	require.NoError(t, s.AddVocabulary(ctx, "book-1", entries))
	require.NoError(t, s.AddVocabulary(ctx, "book-2", []domain.VocabularyEntry{
		{ID: "vocab-3", BookID: "book-2", Word: "ember"},
	}))

	got, err := s.ListVocabulary(ctx, "book-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	empty, err := s.ListVocabulary(ctx, "book-9")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
