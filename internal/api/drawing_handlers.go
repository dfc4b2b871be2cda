package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/treehouse-books/treehouse-server/internal/http/response"
	"github.com/treehouse-books/treehouse-server/internal/service"
)

// handleAddDrawing attaches an uploaded drawing to a book.
func (s *Server) handleAddDrawing(w http.ResponseWriter, r *http.Request) {
	var req service.AddDrawingRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	drawing, err := s.bookService.AddDrawing(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, drawing, s.logger)
}

// handleLikeDrawing records the caller's like on a drawing.
func (s *Server) handleLikeDrawing(w http.ResponseWriter, r *http.Request) {
	drawing, err := s.bookService.LikeDrawing(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "drawingID"), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, drawing, s.logger)
}

// handleUnlikeDrawing removes the caller's like from a drawing.
func (s *Server) handleUnlikeDrawing(w http.ResponseWriter, r *http.Request) {
	drawing, err := s.bookService.UnlikeDrawing(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "drawingID"), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, drawing, s.logger)
}

// handleListComments returns a drawing's comments.
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.bookService.ListComments(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "drawingID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, comments, s.logger)
}

// handleAddComment attaches a comment to a drawing.
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req service.AddCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	comment, err := s.bookService.AddComment(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "drawingID"), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, comment, s.logger)
}

// handleDeleteComment removes a comment. Only the author or an admin may
// delete it.
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	err := s.bookService.DeleteComment(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "drawingID"), chi.URLParam(r, "commentID"),
		getUserID(r.Context()), isAdmin(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
