package domain

import (
	"slices"
	"time"
)

// Badge is a closed enumeration of badges a reader can hold.
type Badge string

// Badges.
const (
	BadgeReader Badge = "READER"
	BadgeArtist Badge = "ARTIST"
	BadgeHelper Badge = "HELPER"
	BadgeStar   Badge = "STAR"
)

// Achievement is a closed enumeration of milestone achievements.
type Achievement string

// Achievements.
const (
	AchievementBeginnerArtist Achievement = "BEGINNER_ARTIST"
	AchievementRegularArtist  Achievement = "REGULAR_ARTIST"
	AchievementMasterArtist   Achievement = "MASTER_ARTIST"
	AchievementPopularDrawing Achievement = "POPULAR_DRAWING"
	AchievementBookworm       Achievement = "BOOKWORM"
)

// PointsAction identifies why points were awarded.
type PointsAction string

// Point-earning actions and their values.
const (
	ActionUploadDrawing  PointsAction = "UPLOAD_DRAWING"
	ActionReceiveComment PointsAction = "RECEIVE_COMMENT"
	ActionReceiveLike    PointsAction = "RECEIVE_LIKE"
	ActionCompleteQuiz   PointsAction = "COMPLETE_QUIZ"
	ActionCompleteBook   PointsAction = "COMPLETE_BOOK"
)

// PointsForAction maps each action to its award. Unknown actions award zero.
var PointsForAction = map[PointsAction]int{
	ActionUploadDrawing:  10,
	ActionReceiveComment: 2,
	ActionReceiveLike:    5,
	ActionCompleteQuiz:   15,
	ActionCompleteBook:   20,
}

// PointsEvent is one entry in a user's points history log.
type PointsEvent struct {
	Action    PointsAction   `json:"action"`
	Points    int            `json:"points"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// User is a registered reader (or admin). Stored as JSON in the catalog
// store, so the credential hashes carry JSON names; API responses go through
// dto.NewUserResponse which filters them.
type User struct {
	ID               string        `json:"id"`
	Username         string        `json:"username"`
	Email            string        `json:"email"`
	PasswordHash     string        `json:"password_hash,omitempty"`
	Age              int           `json:"age"`
	ProfilePhoto     string        `json:"profile_photo,omitempty"`
	Points           int           `json:"points"`
	PointsHistory    []PointsEvent `json:"points_history"`
	Badges           []Badge       `json:"badges"`
	Achievements     []Achievement `json:"achievements"`
	TotalLikes       int           `json:"total_likes"`
	CompletedBooks   []string      `json:"completed_books"`
	IsAdmin          bool          `json:"is_admin"`
	RefreshTokenHash string        `json:"refresh_token_hash,omitempty"`
	RefreshExpiresAt time.Time     `json:"refresh_expires_at,omitzero"`
	CreatedAt        time.Time     `json:"created_at"`
}

// AwardPoints appends a history event and bumps the balance.
func (u *User) AwardPoints(action PointsAction, points int, metadata map[string]any) {
	u.Points += points
	u.PointsHistory = append(u.PointsHistory, PointsEvent{
		Action:    action,
		Points:    points,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	})
}

// GrantAchievement adds an achievement if not already held.
// Returns true if it was newly granted.
func (u *User) GrantAchievement(a Achievement) bool {
	if slices.Contains(u.Achievements, a) {
		return false
	}
	u.Achievements = append(u.Achievements, a)
	return true
}

// GrantBadge adds a badge if not already held. Returns true if newly granted.
func (u *User) GrantBadge(b Badge) bool {
	if slices.Contains(u.Badges, b) {
		return false
	}
	u.Badges = append(u.Badges, b)
	return true
}

// CompleteBook records a finished book. Returns false if already recorded.
func (u *User) CompleteBook(bookID string) bool {
	if slices.Contains(u.CompletedBooks, bookID) {
		return false
	}
	u.CompletedBooks = append(u.CompletedBooks, bookID)
	return true
}
