package api

import (
	"encoding/json/v2"
	"net/http"

	domainerrors "github.com/treehouse-books/treehouse-server/internal/errors"
)

// decodeJSON parses the request body into dst using json/v2.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.UnmarshalRead(r.Body, dst); err != nil {
		return domainerrors.Validation("invalid JSON request body")
	}
	return nil
}

func badQueryParam(name string) error {
	return domainerrors.Validationf("invalid query parameter: %s", name)
}
