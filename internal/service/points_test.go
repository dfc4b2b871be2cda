package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treehouse-books/treehouse-server/internal/domain"
)

func TestRecordDrawingUploadAwardsPointsAndLadder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "user-1", "maya")

	user, err := env.points.RecordDrawingUpload(ctx, "user-1", "book-1", "drw-1")
	require.NoError(t, err)

	assert.Equal(t, 10, user.Points)
	assert.Contains(t, user.Badges, domain.BadgeArtist)
	assert.Contains(t, user.Achievements, domain.AchievementBeginnerArtist)

	for i := 2; i <= 5; i++ {
		user, err = env.points.RecordDrawingUpload(ctx, "user-1", "book-1", fmt.Sprintf("drw-%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, 50, user.Points)
	assert.Contains(t, user.Achievements, domain.AchievementRegularArtist)
	assert.NotContains(t, user.Achievements, domain.AchievementMasterArtist)
}

func TestStarBadgeAtHundredPoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "user-1", "maya")

	var user *domain.User
	var err error
	for i := range 10 {
		user, err = env.points.RecordDrawingUpload(ctx, "user-1", "book-1", fmt.Sprintf("drw-%d", i))
		require.NoError(t, err)
	}

	assert.Equal(t, 100, user.Points)
	assert.Contains(t, user.Badges, domain.BadgeStar)
}

func TestPopularDrawingAchievement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "user-1", "maya")

	user, err := env.points.RecordLikeReceived(ctx, "user-1", "book-1", "drw-1", 9)
	require.NoError(t, err)
	assert.NotContains(t, user.Achievements, domain.AchievementPopularDrawing)
	assert.Equal(t, 1, user.TotalLikes)

	user, err = env.points.RecordLikeReceived(ctx, "user-1", "book-1", "drw-1", 10)
	require.NoError(t, err)
	assert.Contains(t, user.Achievements, domain.AchievementPopularDrawing)
	assert.Equal(t, 10, user.Points)
}

func TestRecordBookCompletedIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "user-1", "maya")

	user, completed, err := env.points.RecordBookCompleted(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, 20, user.Points)
	assert.Contains(t, user.Badges, domain.BadgeReader)

	user, completed, err = env.points.RecordBookCompleted(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, 20, user.Points, "no double award for the same book")
	assert.Len(t, user.CompletedBooks, 1)
}

func TestBookwormAchievement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "user-1", "maya")

	var user *domain.User
	for i := range 5 {
		var err error
		user, _, err = env.points.RecordBookCompleted(ctx, "user-1", fmt.Sprintf("book-%d", i))
		require.NoError(t, err)
	}
	assert.Contains(t, user.Achievements, domain.AchievementBookworm)
	assert.Equal(t, 100, user.Points)
	assert.Contains(t, user.Badges, domain.BadgeStar)
}

func TestPointsHistoryCarriesMetadata(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "user-1", "maya")

	user, err := env.points.RecordQuizCompleted(ctx, "user-1", "book-1", 8, 10)
	require.NoError(t, err)

	require.Len(t, user.PointsHistory, 1)
	event := user.PointsHistory[0]
	assert.Equal(t, domain.ActionCompleteQuiz, event.Action)
	assert.Equal(t, 15, event.Points)
	assert.Equal(t, "book-1", event.Metadata["book_id"])
}
