package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treehouse-books/treehouse-server/internal/domain"
	domainerrors "github.com/treehouse-books/treehouse-server/internal/errors"
)

func TestCreateBookProjectsGraphAndSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, CreateBookRequest{
		Title:  "The Dragon's Map",
		Author: "Ines Okoro",
		Genres: []string{"Fantasy", "Adventure"},
		Tags:   []string{"dragons"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, book.ID)
	assert.Equal(t, domain.DefaultAgeRange, book.AgeRange)

	// Graph projection picked the book up through the write-path hook.
	tagged, err := env.graph.BooksByTag(ctx, "dragons")
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, book.ID, tagged[0].ID)

	// Search index too.
	count, err := env.index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestCreateBookRejectsUnknownGenre(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.books.CreateBook(context.Background(), CreateBookRequest{
		Title:  "Bad",
		Author: "Author",
		Genres: []string{"Horror"},
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUpdateBookRefreshesProjection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.CreateBook(ctx, CreateBookRequest{
		Title:  "One",
		Author: "A",
		Tags:   []string{"dragons"},
	})
	require.NoError(t, err)

	newTags := []string{"maps"}
	_, err = env.books.UpdateBook(ctx, book.ID, UpdateBookRequest{Tags: &newTags})
	require.NoError(t, err)

	stale, err := env.graph.BooksByTag(ctx, "dragons")
	require.NoError(t, err)
	assert.Empty(t, stale)

	fresh, err := env.graph.BooksByTag(ctx, "maps")
	require.NoError(t, err)
	assert.Len(t, fresh, 1)
}

func TestUpdateMissingBook(t *testing.T) {
	env := newTestEnv(t)

	title := "New"
	_, err := env.books.UpdateBook(context.Background(), "book-missing", UpdateBookRequest{Title: &title})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAddTagsSuppressesDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedBook(t, "book-1", "One")

	book, err := env.books.AddTags(ctx, "book-1", []string{"dragons", "maps", "maps", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"dragons", "maps"}, book.Tags)
}

func TestDrawingLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedBook(t, "book-1", "One")
	env.seedUser(t, "artist", "maya")
	env.seedUser(t, "fan", "milo")

	drawing, err := env.books.AddDrawing(ctx, "book-1", "artist", AddDrawingRequest{
		ImageURL: "https://cdn.example.com/drawings/1.png",
	})
	require.NoError(t, err)

	t.Run("upload awards artist points", func(t *testing.T) {
		artist, err := env.users.Get(ctx, "artist")
		require.NoError(t, err)
		assert.Equal(t, 10, artist.Points)
	})

	t.Run("like awards owner and is idempotent", func(t *testing.T) {
		liked, err := env.books.LikeDrawing(ctx, "book-1", drawing.ID, "fan")
		require.NoError(t, err)
		assert.Equal(t, []string{"fan"}, liked.Likes)

		// Second like from the same user changes nothing.
		liked, err = env.books.LikeDrawing(ctx, "book-1", drawing.ID, "fan")
		require.NoError(t, err)
		assert.Len(t, liked.Likes, 1)

		artist, err := env.users.Get(ctx, "artist")
		require.NoError(t, err)
		assert.Equal(t, 15, artist.Points)
		assert.Equal(t, 1, artist.TotalLikes)
	})

	t.Run("self-like earns nothing", func(t *testing.T) {
		_, err := env.books.LikeDrawing(ctx, "book-1", drawing.ID, "artist")
		require.NoError(t, err)

		artist, err := env.users.Get(ctx, "artist")
		require.NoError(t, err)
		assert.Equal(t, 15, artist.Points)
	})

	t.Run("unlike keeps points", func(t *testing.T) {
		unliked, err := env.books.UnlikeDrawing(ctx, "book-1", drawing.ID, "fan")
		require.NoError(t, err)
		assert.NotContains(t, unliked.Likes, "fan")

		artist, err := env.users.Get(ctx, "artist")
		require.NoError(t, err)
		assert.Equal(t, 15, artist.Points)
		assert.Equal(t, 0, artist.TotalLikes)
	})

	t.Run("like missing drawing", func(t *testing.T) {
		_, err := env.books.LikeDrawing(ctx, "book-1", "drw-missing", "fan")
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	})
}

func TestCommentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedBook(t, "book-1", "One")
	env.seedUser(t, "artist", "maya")
	env.seedUser(t, "fan", "milo")

	drawing, err := env.books.AddDrawing(ctx, "book-1", "artist", AddDrawingRequest{
		ImageURL: "https://cdn.example.com/drawings/1.png",
	})
	require.NoError(t, err)

	comment, err := env.books.AddComment(ctx, "book-1", drawing.ID, "fan", AddCommentRequest{
		Content: "  love the colors!  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "love the colors!", comment.Content)
	assert.Equal(t, "milo", comment.Username)

	t.Run("owner earns comment points, commenter gets helper badge", func(t *testing.T) {
		artist, err := env.users.Get(ctx, "artist")
		require.NoError(t, err)
		assert.Equal(t, 12, artist.Points)

		fan, err := env.users.Get(ctx, "fan")
		require.NoError(t, err)
		assert.Contains(t, fan.Badges, domain.BadgeHelper)
		assert.Equal(t, 0, fan.Points)
	})

	t.Run("overlong comment rejected", func(t *testing.T) {
		long := make([]byte, domain.MaxCommentLength+1)
		for i := range long {
			long[i] = 'x'
		}
		_, err := env.books.AddComment(ctx, "book-1", drawing.ID, "fan", AddCommentRequest{Content: string(long)})
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		err := env.books.DeleteComment(ctx, "book-1", drawing.ID, comment.ID, "artist", false)
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	})

	t.Run("admin can delete", func(t *testing.T) {
		err := env.books.DeleteComment(ctx, "book-1", drawing.ID, comment.ID, "someone-else", true)
		require.NoError(t, err)

		comments, err := env.books.ListComments(ctx, "book-1", drawing.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}
