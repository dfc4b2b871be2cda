package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/treehouse-books/treehouse-server/internal/domain"
	"github.com/treehouse-books/treehouse-server/internal/store"
)

// Achievement and badge thresholds.
const (
	beginnerArtistUploads = 1
	regularArtistUploads  = 5
	masterArtistUploads   = 15
	popularDrawingLikes   = 10
	bookwormBooks         = 5
	starPoints            = 100
)

// PointsService centralizes every points award and the badge and achievement
// rules that hang off them. Each award runs inside a single user mutation so
// concurrent awards can't drop history entries.
type PointsService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewPointsService creates a new points service.
func NewPointsService(store *store.Store, logger *slog.Logger) *PointsService {
	return &PointsService{store: store, logger: logger}
}

// award applies one points action plus any follow-on badge checks.
func (s *PointsService) award(ctx context.Context, userID string, action domain.PointsAction, metadata map[string]any, extra func(*domain.User)) (*domain.User, error) {
	user, err := s.store.MutateUser(ctx, userID, func(u *domain.User) error {
		u.AwardPoints(action, domain.PointsForAction[action], metadata)
		if extra != nil {
			extra(u)
		}
		if u.Points >= starPoints {
			u.GrantBadge(domain.BadgeStar)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("award %s to %s: %w", action, userID, err)
	}

	s.logger.Debug("Points awarded",
		"user_id", userID,
		"action", action,
		"points", domain.PointsForAction[action],
		"balance", user.Points)
	return user, nil
}

// countAction tallies how many times an action appears in the user's history.
// The history is the source of truth for upload counts, so the artist
// achievements don't need a separate counter.
func countAction(u *domain.User, action domain.PointsAction) int {
	n := 0
	for _, e := range u.PointsHistory {
		if e.Action == action {
			n++
		}
	}
	return n
}

// RecordDrawingUpload awards upload points and evaluates the artist ladder.
func (s *PointsService) RecordDrawingUpload(ctx context.Context, userID, bookID, drawingID string) (*domain.User, error) {
	meta := map[string]any{"book_id": bookID, "drawing_id": drawingID}
	return s.award(ctx, userID, domain.ActionUploadDrawing, meta, func(u *domain.User) {
		u.GrantBadge(domain.BadgeArtist)

		switch countAction(u, domain.ActionUploadDrawing) {
		case beginnerArtistUploads:
			u.GrantAchievement(domain.AchievementBeginnerArtist)
		case regularArtistUploads:
			u.GrantAchievement(domain.AchievementRegularArtist)
		case masterArtistUploads:
			u.GrantAchievement(domain.AchievementMasterArtist)
		}
	})
}

// RecordCommentReceived awards points to the drawing's owner when someone
// comments on their artwork.
func (s *PointsService) RecordCommentReceived(ctx context.Context, ownerID, bookID, drawingID string) (*domain.User, error) {
	meta := map[string]any{"book_id": bookID, "drawing_id": drawingID}
	return s.award(ctx, ownerID, domain.ActionReceiveComment, meta, nil)
}

// RecordCommentWritten grants the helper badge to the comment's author.
// Writing comments earns no points; the drawing owner gets those.
func (s *PointsService) RecordCommentWritten(ctx context.Context, userID string) error {
	_, err := s.store.MutateUser(ctx, userID, func(u *domain.User) error {
		u.GrantBadge(domain.BadgeHelper)
		return nil
	})
	if err != nil {
		return fmt.Errorf("grant helper badge to %s: %w", userID, err)
	}
	return nil
}

// RecordLikeReceived awards like points to the drawing's owner and checks the
// popular-drawing achievement against the drawing's current like count.
func (s *PointsService) RecordLikeReceived(ctx context.Context, ownerID, bookID, drawingID string, likeCount int) (*domain.User, error) {
	meta := map[string]any{"book_id": bookID, "drawing_id": drawingID}
	return s.award(ctx, ownerID, domain.ActionReceiveLike, meta, func(u *domain.User) {
		u.TotalLikes++
		if likeCount >= popularDrawingLikes {
			u.GrantAchievement(domain.AchievementPopularDrawing)
		}
	})
}

// RecordLikeRemoved decrements the owner's like tally. Points already
// awarded for the like are not clawed back.
func (s *PointsService) RecordLikeRemoved(ctx context.Context, ownerID string) error {
	_, err := s.store.MutateUser(ctx, ownerID, func(u *domain.User) error {
		if u.TotalLikes > 0 {
			u.TotalLikes--
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record like removed for %s: %w", ownerID, err)
	}
	return nil
}

// RecordQuizCompleted awards quiz completion points.
func (s *PointsService) RecordQuizCompleted(ctx context.Context, userID, bookID string, score, total int) (*domain.User, error) {
	meta := map[string]any{"book_id": bookID, "score": score, "total": total}
	return s.award(ctx, userID, domain.ActionCompleteQuiz, meta, nil)
}

// RecordBookCompleted marks a book finished and awards completion points.
// Completing the same book twice is a no-op and awards nothing.
func (s *PointsService) RecordBookCompleted(ctx context.Context, userID, bookID string) (*domain.User, bool, error) {
	completed := false
	user, err := s.store.MutateUser(ctx, userID, func(u *domain.User) error {
		if !u.CompleteBook(bookID) {
			return nil
		}
		completed = true
		u.AwardPoints(domain.ActionCompleteBook, domain.PointsForAction[domain.ActionCompleteBook],
			map[string]any{"book_id": bookID})
		u.GrantBadge(domain.BadgeReader)
		if len(u.CompletedBooks) >= bookwormBooks {
			u.GrantAchievement(domain.AchievementBookworm)
		}
		if u.Points >= starPoints {
			u.GrantBadge(domain.BadgeStar)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("complete book %s for %s: %w", bookID, userID, err)
	}
	return user, completed, nil
}
