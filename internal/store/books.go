package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/treehouse-books/treehouse-server/internal/domain"
)

// CreateBook stores a new book document. The caller assigns the ID.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(bookPrefix + book.ID)
	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("failed to marshal book: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing book: %w", err)
		}
		return txn.Set(key, data)
	})
}

// GetBook retrieves a book by ID.
// Returns ErrBookNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var book domain.Book
	err := s.get([]byte(bookPrefix+id), &book)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return &book, nil
}

// UpdateBook overwrites an existing book document.
// Returns ErrBookNotFound if the book does not exist.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(bookPrefix + book.ID)
	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("failed to marshal book: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrBookNotFound
		} else if err != nil {
			return fmt.Errorf("failed to check existing book: %w", err)
		}
		return txn.Set(key, data)
	})
}

// ListBooks returns the full current catalog snapshot.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return listPrefix[domain.Book](s, bookPrefix)
}

// MutateBook applies fn to the book inside a single write transaction,
// persisting the result. The read-modify-write is atomic with respect to
// other MutateBook calls, which keeps embedded likes/comments consistent
// under concurrent requests.
func (s *Store) MutateBook(ctx context.Context, id string, fn func(*domain.Book) error) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := []byte(bookPrefix + id)
	var book domain.Book

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrBookNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get book: %w", err)
		}

		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &book)
		}); err != nil {
			return fmt.Errorf("failed to unmarshal book: %w", err)
		}

		if err := fn(&book); err != nil {
			return err
		}

		data, err := json.Marshal(&book)
		if err != nil {
			return fmt.Errorf("failed to marshal book: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}
