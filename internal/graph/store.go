// Package graph provides the property-graph projection of the book catalog
// and the recommendation queries that run against it.
//
// The projection holds Book, Author, Genre and Tag nodes with WRITTEN_BY,
// IN_GENRE and HAS_TAG edges. It is derived data with no independent source
// of truth: the sync job rebuilds it from the catalog store at any time.
package graph

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/treehouse-books/treehouse-server/internal/domain"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Node labels.
const (
	LabelBook   = "Book"
	LabelAuthor = "Author"
	LabelGenre  = "Genre"
	LabelTag    = "Tag"
	LabelUser   = "User"
)

// Edge types.
const (
	EdgeWrittenBy = "WRITTEN_BY"
	EdgeInGenre   = "IN_GENRE"
	EdgeHasTag    = "HAS_TAG"
	// EdgeRead links a User to a Book they finished. Nothing in this package
	// writes these edges; the personalized recommendation query reads them.
	EdgeRead = "READ"
)

// Store provides the SQLite-backed graph projection.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the graph projection database at the given path.
// It configures WAL mode, sets pragmas, and runs schema migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if logger != nil {
		logger.Info("Graph projection store opened", "path", path)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddBook projects one catalog book into the graph within a single write
// transaction: a fresh Book node, a merged Author node with a WRITTEN_BY
// edge, and merged Genre/Tag nodes with IN_GENRE/HAS_TAG edges. Empty genre
// or tag lists create zero edges and are not an error.
func (s *Store) AddBook(ctx context.Context, book *domain.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add-book tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx,
		`INSERT INTO nodes (label, node_key, title, author) VALUES (?, ?, ?, ?)`,
		LabelBook, book.ID, book.Title, book.Author)
	if err != nil {
		return fmt.Errorf("insert book node: %w", err)
	}
	bookNodeID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("book node id: %w", err)
	}

	authorNodeID, err := mergeNode(ctx, tx, LabelAuthor, book.Author)
	if err != nil {
		return fmt.Errorf("merge author node: %w", err)
	}
	if err := createEdge(ctx, tx, bookNodeID, authorNodeID, EdgeWrittenBy); err != nil {
		return fmt.Errorf("create WRITTEN_BY edge: %w", err)
	}

	for _, genre := range book.Genres {
		genreNodeID, err := mergeNode(ctx, tx, LabelGenre, string(genre))
		if err != nil {
			return fmt.Errorf("merge genre node %q: %w", genre, err)
		}
		if err := createEdge(ctx, tx, bookNodeID, genreNodeID, EdgeInGenre); err != nil {
			return fmt.Errorf("create IN_GENRE edge: %w", err)
		}
	}

	for _, tag := range book.Tags {
		tagNodeID, err := mergeNode(ctx, tx, LabelTag, tag)
		if err != nil {
			return fmt.Errorf("merge tag node %q: %w", tag, err)
		}
		if err := createEdge(ctx, tx, bookNodeID, tagNodeID, EdgeHasTag); err != nil {
			return fmt.Errorf("create HAS_TAG edge: %w", err)
		}
	}

	return tx.Commit()
}

// DeleteAllBooks removes every Book node and its relationships in one
// atomic write transaction. Author, Genre and Tag nodes are preserved, so
// nodes no longer referenced by any book accumulate as orphans until they
// are reused. That staleness is a documented property of the projection.
func (s *Store) DeleteAllBooks(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin wipe tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Detach first: drop every edge touching a Book node, then the nodes.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM edges WHERE source_id IN (SELECT id FROM nodes WHERE label = ?)
		                     OR target_id IN (SELECT id FROM nodes WHERE label = ?)`,
		LabelBook, LabelBook)
	if err != nil {
		return fmt.Errorf("detach book nodes: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE label = ?`, LabelBook); err != nil {
		return fmt.Errorf("delete book nodes: %w", err)
	}

	return tx.Commit()
}

// DeleteBook removes the single Book node keyed by bookID and its
// relationships. Deleting an absent book is a no-op.
func (s *Store) DeleteBook(ctx context.Context, bookID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		DELETE FROM edges WHERE source_id IN (SELECT id FROM nodes WHERE label = ? AND node_key = ?)
		                     OR target_id IN (SELECT id FROM nodes WHERE label = ? AND node_key = ?)`,
		LabelBook, bookID, LabelBook, bookID)
	if err != nil {
		return fmt.Errorf("detach book node: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM nodes WHERE label = ? AND node_key = ?`, LabelBook, bookID)
	if err != nil {
		return fmt.Errorf("delete book node: %w", err)
	}

	return tx.Commit()
}

// mergeNode implements merge-or-create: reuse the node with this label and
// key if one exists, otherwise insert it. The find-else-insert runs inside
// the caller's transaction; the schema itself enforces no uniqueness.
func mergeNode(ctx context.Context, tx *sql.Tx, label, key string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM nodes WHERE label = ? AND node_key = ? LIMIT 1`, label, key).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO nodes (label, node_key) VALUES (?, ?)`, label, key)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// createEdge inserts a directed edge inside the caller's transaction.
func createEdge(ctx context.Context, tx *sql.Tx, sourceID, targetID int64, edgeType string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO edges (source_id, target_id, type) VALUES (?, ?, ?)`,
		sourceID, targetID, edgeType)
	return err
}
