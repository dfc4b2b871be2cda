package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/treehouse-books/treehouse-server/internal/domain"
)

// Catalog is the slice of the catalog store the sync job reads from.
type Catalog interface {
	ListBooks(ctx context.Context) ([]*domain.Book, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
}

// Syncer rebuilds the graph projection from the catalog.
type Syncer struct {
	store   *Store
	catalog Catalog
	logger  *slog.Logger
}

// NewSyncer creates a sync job over the given projection store and catalog.
func NewSyncer(store *Store, catalog Catalog, logger *slog.Logger) *Syncer {
	return &Syncer{store: store, catalog: catalog, logger: logger}
}

// Sync performs a full wipe-and-rebuild of the book side of the graph.
//
// The wipe is one atomic transaction, then each book is projected in its own
// transaction. A book that fails to project is logged and skipped; the sync
// continues and still reports success. A mid-sync crash therefore leaves a
// partially rebuilt graph, which the next full sync repairs.
func (s *Syncer) Sync(ctx context.Context) error {
	if err := s.store.DeleteAllBooks(ctx); err != nil {
		return fmt.Errorf("clear book nodes: %w", err)
	}

	books, err := s.catalog.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}

	s.logger.Info("Syncing catalog to graph", "books", len(books))

	synced := 0
	for _, book := range books {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.store.AddBook(ctx, book); err != nil {
			s.logger.Error("Failed to sync book",
				"book_id", book.ID,
				"title", book.Title,
				"error", err)
			continue
		}
		synced++
	}

	s.logger.Info("Graph sync completed", "synced", synced, "total", len(books))
	return nil
}

// UpdateOne refreshes the projection of a single book after a catalog write.
// The stale node is deleted first, then the book is re-read and re-inserted.
// A book gone from the catalog returns NotFound with its node already
// removed, so the projection never keeps an entry the catalog lost.
func (s *Syncer) UpdateOne(ctx context.Context, bookID string) error {
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return fmt.Errorf("remove stale book node: %w", err)
	}

	book, err := s.catalog.GetBook(ctx, bookID)
	if err != nil {
		return err
	}

	if err := s.store.AddBook(ctx, book); err != nil {
		return fmt.Errorf("project book: %w", err)
	}

	s.logger.Debug("Updated book in graph", "book_id", bookID)
	return nil
}
