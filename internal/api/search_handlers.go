package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/treehouse-books/treehouse-server/internal/http/response"
	"github.com/treehouse-books/treehouse-server/internal/search"
)

// handleSearch runs a full-text search over the catalog.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	result, err := s.index.Search(r.Context(), params)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

func parseSearchParams(r *http.Request) (search.Params, error) {
	q := r.URL.Query()

	params := search.DefaultParams()
	params.Query = strings.TrimSpace(q.Get("q"))
	params.Genres = splitCSV(q.Get("genres"))
	params.Tags = splitCSV(q.Get("tags"))

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			return params, badQueryParam("limit")
		}
		params.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return params, badQueryParam("offset")
		}
		params.Offset = offset
	}
	if sort := q.Get("sort"); sort != "" {
		params.SortBy = sort
	}
	if order := q.Get("order"); order != "" {
		params.SortOrder = order
	}

	return params, nil
}

// splitCSV splits a comma-separated query value, dropping empty entries.
func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
