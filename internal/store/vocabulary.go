package store

import (
	"context"
	"encoding/json/v2"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/treehouse-books/treehouse-server/internal/domain"
)

// vocabKey builds the composite key for one vocabulary entry.
// Entries are grouped by book so ListVocabulary is a single prefix scan.
func vocabKey(bookID, entryID string) []byte {
	return []byte(vocabPrefix + bookID + ":" + entryID)
}

// AddVocabulary appends entries to a book's standalone vocabulary collection.
func (s *Store) AddVocabulary(ctx context.Context, bookID string, entries []domain.VocabularyEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for i := range entries {
			data, err := json.Marshal(&entries[i])
			if err != nil {
				return fmt.Errorf("failed to marshal vocabulary entry: %w", err)
			}
			if err := txn.Set(vocabKey(bookID, entries[i].ID), data); err != nil {
				return fmt.Errorf("failed to set vocabulary entry: %w", err)
			}
		}
		return nil
	})
}

// ListVocabulary returns every vocabulary entry for a book.
// An empty result is not an error; the quiz layer decides what that means.
func (s *Store) ListVocabulary(ctx context.Context, bookID string) ([]*domain.VocabularyEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return listPrefix[domain.VocabularyEntry](s, vocabPrefix+bookID+":")
}
