package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/treehouse-books/treehouse-server/internal/dto"
	"github.com/treehouse-books/treehouse-server/internal/http/response"
	"github.com/treehouse-books/treehouse-server/internal/service"
)

// handleGenerateQuiz builds a quiz from a book's vocabulary.
func (s *Server) handleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := s.quizService.Generate(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, quiz, s.logger)
}

// handleCompleteQuiz awards quiz completion points to the caller.
func (s *Server) handleCompleteQuiz(w http.ResponseWriter, r *http.Request) {
	var req service.CompleteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	user, err := s.quizService.Complete(r.Context(),
		getUserID(r.Context()), chi.URLParam(r, "bookID"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, dto.NewUserResponse(user), s.logger)
}
