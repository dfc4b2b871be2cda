package api

import (
	"net/http"

	"github.com/treehouse-books/treehouse-server/internal/http/response"
	"github.com/treehouse-books/treehouse-server/internal/id"
)

// handleChatWS upgrades the connection and joins the shared chat room.
// Browser WebSocket clients cannot set headers, so the access token arrives
// as a query parameter. Connections without a valid token join as guests.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	userID, username := s.chatIdentity(r)
	if userID == "" {
		guestID, err := id.Generate("guest")
		if err != nil {
			response.InternalError(w, "failed to assign guest identity", s.logger)
			return
		}
		userID, username = guestID, "guest"
	}

	s.hub.ServeWS(w, r, userID, username)
}

// chatIdentity resolves the caller from the token query parameter.
// Returns empty strings when no valid token is present.
func (s *Server) chatIdentity(r *http.Request) (string, string) {
	token := r.URL.Query().Get("token")
	if token == "" {
		return "", ""
	}

	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return "", ""
	}
	return claims.UserID, claims.Username
}
