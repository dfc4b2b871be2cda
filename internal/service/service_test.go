package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/treehouse-books/treehouse-server/internal/auth"
	"github.com/treehouse-books/treehouse-server/internal/domain"
	"github.com/treehouse-books/treehouse-server/internal/graph"
	"github.com/treehouse-books/treehouse-server/internal/search"
	"github.com/treehouse-books/treehouse-server/internal/store"
	"github.com/treehouse-books/treehouse-server/internal/validation"
)

// testEnv wires real stores in temp directories so service tests exercise
// the same stack the server runs.
type testEnv struct {
	store   *store.Store
	graph   *graph.Store
	syncer  *graph.Syncer
	index   *search.Index
	points  *PointsService
	books   *BookService
	users   *UserService
	quiz    *QuizService
	vocab   *VocabularyService
	auth    *AuthService
	recs    *RecommendationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	dir := t.TempDir()

	catalog, err := store.New(filepath.Join(dir, "catalog"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = catalog.Close() })

	graphStore, err := graph.Open(filepath.Join(dir, "graph.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = graphStore.Close() })

	index, err := search.NewIndex(search.Options{DataPath: dir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	tokens, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	syncer := graph.NewSyncer(graphStore, catalog, logger)
	validator := validation.New()
	points := NewPointsService(catalog, logger)

	return &testEnv{
		store:  catalog,
		graph:  graphStore,
		syncer: syncer,
		index:  index,
		points: points,
		books:  NewBookService(catalog, points, syncer, index, validator, logger),
		users:  NewUserService(catalog, points, logger),
		quiz:   NewQuizService(catalog, points, logger),
		vocab:  NewVocabularyService(catalog, validator, logger),
		auth:   NewAuthService(catalog, tokens, validator, logger),
		recs:   NewRecommendationService(graphStore, syncer, logger),
	}
}

func (e *testEnv) seedUser(t *testing.T, id, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		Age:       10,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, e.store.CreateUser(context.Background(), user))
	return user
}

func (e *testEnv) seedBook(t *testing.T, id, title string) *domain.Book {
	t.Helper()
	book := &domain.Book{
		ID:       id,
		Title:    title,
		Author:   "Test Author",
		Genres:   []domain.Genre{domain.GenreFantasy},
		Tags:     []string{"dragons"},
		AgeRange: domain.DefaultAgeRange,
	}
	require.NoError(t, e.store.CreateBook(context.Background(), book))
	return book
}
