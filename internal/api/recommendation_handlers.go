package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/treehouse-books/treehouse-server/internal/http/response"
)

// handleSyncGraph rebuilds the graph projection from the catalog.
func (s *Server) handleSyncGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.recommendation.Sync(r.Context()); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{
		"status": "graph synchronized",
	}, s.logger)
}

// handleSimilarBooks returns books sharing genres or tags with the given book.
func (s *Server) handleSimilarBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.recommendation.SimilarBooks(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handleBooksByTag returns books carrying an exact tag.
func (s *Server) handleBooksByTag(w http.ResponseWriter, r *http.Request) {
	books, err := s.recommendation.BooksByTag(r.Context(), chi.URLParam(r, "tag"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handleUserRecommendations returns recommendations from the caller's reading
// history.
func (s *Server) handleUserRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.recommendation.ForUser(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, recs, s.logger)
}

// handleExportGraph returns the graph as nodes and links for visualization,
// optionally filtered by node type and value.
func (s *Server) handleExportGraph(w http.ResponseWriter, r *http.Request) {
	result, err := s.recommendation.Export(r.Context(),
		r.URL.Query().Get("nodeType"), r.URL.Query().Get("value"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
