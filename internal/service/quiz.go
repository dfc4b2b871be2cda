package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/treehouse-books/treehouse-server/internal/domain"
	domainerrors "github.com/treehouse-books/treehouse-server/internal/errors"
	"github.com/treehouse-books/treehouse-server/internal/store"
)

// maxQuizQuestions caps a generated quiz regardless of vocabulary size.
const maxQuizQuestions = 10

// QuizService generates vocabulary quizzes and records completions.
type QuizService struct {
	store  *store.Store
	points *PointsService
	logger *slog.Logger
}

// NewQuizService creates a new quiz service.
func NewQuizService(store *store.Store, points *PointsService, logger *slog.Logger) *QuizService {
	return &QuizService{store: store, points: points, logger: logger}
}

// QuizQuestion is one multiple-choice question. The correct answer ships with
// the question so the client can grade immediately and show explanations.
type QuizQuestion struct {
	EntryID       string   `json:"entry_id"`
	Word          string   `json:"word"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Etymology     string   `json:"etymology,omitempty"`
	Context       string   `json:"context,omitempty"`
}

// Quiz is a generated quiz for one book.
type Quiz struct {
	BookID    string         `json:"book_id"`
	Questions []QuizQuestion `json:"questions"`
}

// Generate builds a quiz from the book's vocabulary collection: entries are
// shuffled, capped at maxQuizQuestions, and each question's options are the
// entry's distractors plus the correct answer in random order.
func (s *QuizService) Generate(ctx context.Context, bookID string) (*Quiz, error) {
	entries, err := s.store.ListVocabulary(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list vocabulary: %w", err)
	}
	if len(entries) == 0 {
		return nil, domainerrors.NotFound("no vocabulary found for this book")
	}

	rand.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})
	if len(entries) > maxQuizQuestions {
		entries = entries[:maxQuizQuestions]
	}

	quiz := &Quiz{
		BookID:    bookID,
		Questions: make([]QuizQuestion, 0, len(entries)),
	}
	for _, entry := range entries {
		options := append(entry.OptionList(), entry.CorrectAnswer)
		rand.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		quiz.Questions = append(quiz.Questions, QuizQuestion{
			EntryID:       entry.ID,
			Word:          entry.Word,
			Options:       options,
			CorrectAnswer: entry.CorrectAnswer,
			Etymology:     entry.Etymology,
			Context:       entry.Context,
		})
	}

	return quiz, nil
}

// CompleteRequest reports a finished quiz.
type CompleteRequest struct {
	Score int `json:"score" validate:"gte=0"`
	Total int `json:"total" validate:"gte=0"`
}

// Complete awards quiz completion points.
func (s *QuizService) Complete(ctx context.Context, userID, bookID string, req CompleteRequest) (*domain.User, error) {
	user, err := s.points.RecordQuizCompleted(ctx, userID, bookID, req.Score, req.Total)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Quiz completed", "user_id", userID, "book_id", bookID, "score", req.Score)
	return user, nil
}
