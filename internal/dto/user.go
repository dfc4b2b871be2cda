// Package dto contains response shapes for the HTTP API. Domain entities
// that carry stored-only fields (credential hashes) are converted here before
// they leave the server.
package dto

import (
	"time"

	"github.com/treehouse-books/treehouse-server/internal/domain"
)

// UserResponse is a user as exposed by the API: everything except the
// credential hashes.
type UserResponse struct {
	ID             string               `json:"id"`
	Username       string               `json:"username"`
	Email          string               `json:"email"`
	Age            int                  `json:"age"`
	ProfilePhoto   string               `json:"profile_photo,omitempty"`
	Points         int                  `json:"points"`
	PointsHistory  []domain.PointsEvent `json:"points_history"`
	Badges         []domain.Badge       `json:"badges"`
	Achievements   []domain.Achievement `json:"achievements"`
	TotalLikes     int                  `json:"total_likes"`
	CompletedBooks []string             `json:"completed_books"`
	IsAdmin        bool                 `json:"is_admin"`
	CreatedAt      time.Time            `json:"created_at"`
}

// NewUserResponse converts a domain user for API output.
// Nil slices become empty so clients always see arrays.
func NewUserResponse(u *domain.User) *UserResponse {
	resp := &UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Age:            u.Age,
		ProfilePhoto:   u.ProfilePhoto,
		Points:         u.Points,
		PointsHistory:  u.PointsHistory,
		Badges:         u.Badges,
		Achievements:   u.Achievements,
		TotalLikes:     u.TotalLikes,
		CompletedBooks: u.CompletedBooks,
		IsAdmin:        u.IsAdmin,
		CreatedAt:      u.CreatedAt,
	}
	if resp.PointsHistory == nil {
		resp.PointsHistory = []domain.PointsEvent{}
	}
	if resp.Badges == nil {
		resp.Badges = []domain.Badge{}
	}
	if resp.Achievements == nil {
		resp.Achievements = []domain.Achievement{}
	}
	if resp.CompletedBooks == nil {
		resp.CompletedBooks = []string{}
	}
	return resp
}
