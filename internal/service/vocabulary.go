package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/treehouse-books/treehouse-server/internal/domain"
	domainerrors "github.com/treehouse-books/treehouse-server/internal/errors"
	"github.com/treehouse-books/treehouse-server/internal/id"
	"github.com/treehouse-books/treehouse-server/internal/store"
	"github.com/treehouse-books/treehouse-server/internal/validation"
)

// VocabularyService manages per-book vocabulary collections.
type VocabularyService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewVocabularyService creates a new vocabulary service.
func NewVocabularyService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *VocabularyService {
	return &VocabularyService{store: store, validator: validator, logger: logger}
}

// VocabularyEntryRequest is one entry of a bulk upload.
type VocabularyEntryRequest struct {
	Word          string            `json:"word" validate:"required,max=100"`
	Definition    string            `json:"definition" validate:"required,max=500"`
	Options       string            `json:"options" validate:"required"` // comma-separated distractors
	CorrectAnswer string            `json:"correct_answer" validate:"required,max=500"`
	Etymology     string            `json:"etymology" validate:"max=500"`
	Translations  map[string]string `json:"translations" validate:"omitempty,dive,max=500"`
	Context       string            `json:"context" validate:"max=1000"`
}

// BulkAddRequest is the JSON body of a vocabulary upload.
type BulkAddRequest struct {
	Entries []VocabularyEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

// BulkAdd validates and stores a batch of vocabulary entries for a book.
func (s *VocabularyService) BulkAdd(ctx context.Context, bookID string, req BulkAddRequest) ([]*domain.VocabularyEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// The book must exist; vocabulary for phantom books would poison quizzes.
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		if domainerrors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("look up book: %w", err)
	}

	entries := make([]domain.VocabularyEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entryID, err := id.Generate("vocab")
		if err != nil {
			return nil, fmt.Errorf("generate vocabulary ID: %w", err)
		}
		entries = append(entries, domain.VocabularyEntry{
			ID:            entryID,
			BookID:        bookID,
			Word:          strings.TrimSpace(e.Word),
			Definition:    strings.TrimSpace(e.Definition),
			Options:       e.Options,
			CorrectAnswer: strings.TrimSpace(e.CorrectAnswer),
			Etymology:     e.Etymology,
			Translations:  e.Translations,
			Context:       e.Context,
		})
	}

	if err := s.store.AddVocabulary(ctx, bookID, entries); err != nil {
		return nil, fmt.Errorf("store vocabulary: %w", err)
	}

	s.logger.Info("Vocabulary added", "book_id", bookID, "entries", len(entries))

	out := make([]*domain.VocabularyEntry, len(entries))
	for i := range entries {
		out[i] = &entries[i]
	}
	return out, nil
}

// List returns a book's vocabulary entries.
func (s *VocabularyService) List(ctx context.Context, bookID string) ([]*domain.VocabularyEntry, error) {
	entries, err := s.store.ListVocabulary(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list vocabulary: %w", err)
	}
	return entries, nil
}
