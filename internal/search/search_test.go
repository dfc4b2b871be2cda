package search

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treehouse-books/treehouse-server/internal/domain"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex(Options{
		DataPath: t.TempDir(),
		Logger:   slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func seedIndex(t *testing.T, idx *Index) {
	t.Helper()
	now := time.Now()
	books := []*domain.Book{
		{
			ID:          "book-1",
			Title:       "The Dragon's Map",
			Author:      "Ines Okoro",
			Description: "A young explorer follows an old map across stormy seas.",
			Genres:      []domain.Genre{domain.GenreFantasy, domain.GenreAdventure},
			Tags:        []string{"dragons", "maps"},
			CreatedAt:   now.Add(-time.Hour),
		},
		{
			ID:          "book-2",
			Title:       "Mystery at Willow Creek",
			Author:      "Sam Hale",
			Description: "Three friends investigate strange lights at the creek.",
			Genres:      []domain.Genre{domain.GenreMystery},
			Tags:        []string{"friendship"},
			CreatedAt:   now,
		},
		{
			ID:          "book-3",
			Title:       "Dragons of the North",
			Author:      "Ines Okoro",
			Genres:      []domain.Genre{domain.GenreFantasy},
			Tags:        []string{"dragons"},
			CreatedAt:   now.Add(-2 * time.Hour),
		},
	}
	docs := make([]*Document, len(books))
	for i, b := range books {
		docs[i] = BookToDocument(b)
	}
	require.NoError(t, idx.IndexDocuments(docs))
}

func TestSearchByTitle(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams()
	params.Query = "dragon"

	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(result.Hits), 2)

	ids := make([]string, len(result.Hits))
	for i, hit := range result.Hits {
		ids[i] = hit.ID
	}
	assert.Contains(t, ids, "book-1")
	assert.Contains(t, ids, "book-3")
	assert.NotContains(t, ids, "book-2")
}

func TestSearchByAuthor(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams()
	params.Query = "Okoro"

	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, result.Hits, 2)
}

func TestSearchGenreFilter(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams()
	params.Genres = []string{"mystery"}

	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "book-2", result.Hits[0].ID)
}

func TestSearchTagFilter(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams()
	params.Tags = []string{"dragons"}

	result, err := idx.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, result.Hits, 2)
}

func TestSearchEmptyQueryMatchesAll(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	result, err := idx.Search(context.Background(), DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), result.Total)
}

func TestDeleteDocument(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	require.NoError(t, idx.DeleteDocument("book-1"))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}
