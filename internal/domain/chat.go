package domain

import "time"

// ChatMessage is one message in the shared treehouse chat room.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
