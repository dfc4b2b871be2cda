package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/treehouse-books/treehouse-server/internal/dto"
	"github.com/treehouse-books/treehouse-server/internal/http/response"
)

// handleGetCurrentUser returns the authenticated user's profile.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.userService.Get(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, dto.NewUserResponse(user), s.logger)
}

// handleLeaderboard returns the top readers by points.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, "limit must be a positive integer", s.logger)
			return
		}
		limit = parsed
	}

	board, err := s.userService.Leaderboard(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, board, s.logger)
}

// handleCompleteBook marks a book as finished for the caller.
func (s *Server) handleCompleteBook(w http.ResponseWriter, r *http.Request) {
	user, completed, err := s.userService.CompleteBook(r.Context(),
		getUserID(r.Context()), chi.URLParam(r, "bookID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"user":      dto.NewUserResponse(user),
		"completed": completed,
	}, s.logger)
}

// handleListCompletedBooks returns the books the caller has finished.
func (s *Server) handleListCompletedBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.userService.CompletedBooks(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}
