package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/treehouse-books/treehouse-server/internal/http/response"
	"github.com/treehouse-books/treehouse-server/internal/service"
)

// handleBulkAddVocabulary stores a batch of vocabulary entries for a book.
func (s *Server) handleBulkAddVocabulary(w http.ResponseWriter, r *http.Request) {
	var req service.BulkAddRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	entries, err := s.vocabService.BulkAdd(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, entries, s.logger)
}

// handleListVocabulary returns a book's vocabulary entries.
func (s *Server) handleListVocabulary(w http.ResponseWriter, r *http.Request) {
	entries, err := s.vocabService.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entries, s.logger)
}
