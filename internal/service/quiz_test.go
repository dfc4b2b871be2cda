package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainerrors "github.com/treehouse-books/treehouse-server/internal/errors"
)

func seedVocabulary(t *testing.T, env *testEnv, bookID string, words int) {
	t.Helper()
	env.seedBook(t, bookID, "Quiz Book")

	entries := make([]VocabularyEntryRequest, 0, words)
	for i := range words {
		entries = append(entries, VocabularyEntryRequest{
			Word:          string(rune('a' + i)),
			Definition:    "the right answer",
			Options:       "wrong one, wrong two, wrong three",
			CorrectAnswer: "the right answer",
		})
	}
	_, err := env.vocab.BulkAdd(context.Background(), bookID, BulkAddRequest{Entries: entries})
	require.NoError(t, err)
}

func TestGenerateQuiz(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedVocabulary(t, env, "book-1", 4)

	quiz, err := env.quiz.Generate(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "book-1", quiz.BookID)
	require.Len(t, quiz.Questions, 4)

	for _, q := range quiz.Questions {
		assert.Len(t, q.Options, 4, "three distractors plus the correct answer")
		assert.Contains(t, q.Options, q.CorrectAnswer)
	}
}

func TestGenerateQuizCapsQuestions(t *testing.T) {
	env := newTestEnv(t)
	seedVocabulary(t, env, "book-1", 15)

	quiz, err := env.quiz.Generate(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, maxQuizQuestions)
}

func TestGenerateQuizWithoutVocabulary(t *testing.T) {
	env := newTestEnv(t)
	env.seedBook(t, "book-1", "Empty Book")

	_, err := env.quiz.Generate(context.Background(), "book-1")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestBulkAddRequiresExistingBook(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.vocab.BulkAdd(context.Background(), "book-missing", BulkAddRequest{
		Entries: []VocabularyEntryRequest{{
			Word: "w", Definition: "d", Options: "a, b", CorrectAnswer: "d",
		}},
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestBulkAddKeepsTranslationsAndEtymology(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedBook(t, "book-1", "Word Book")

	added, err := env.vocab.BulkAdd(ctx, "book-1", BulkAddRequest{
		Entries: []VocabularyEntryRequest{{
			Word:          "valiente",
			Definition:    "brave",
			Options:       "tired, loud, green",
			CorrectAnswer: "brave",
			Etymology:     "from Latin valere",
			Translations:  map[string]string{"es": "valiente", "fr": "courageux"},
		}},
	})
	require.NoError(t, err)
	require.Len(t, added, 1)

	entries, err := env.vocab.List(ctx, "book-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "valiente", entries[0].Translations["es"])
	assert.Equal(t, "courageux", entries[0].Translations["fr"])
	assert.Equal(t, "from Latin valere", entries[0].Etymology)
}

func TestQuizCompleteAwardsPoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "user-1", "maya")

	user, err := env.quiz.Complete(ctx, "user-1", "book-1", CompleteRequest{Score: 8, Total: 10})
	require.NoError(t, err)
	assert.Equal(t, 15, user.Points)
}
