package response

import (
	"encoding/json/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/treehouse-books/treehouse-server/internal/errors"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessKeepsEmptyCollections(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, []string{}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	// Empty result sets stay a JSON array, clients never see a missing key.
	require.Contains(t, body, "data")
	assert.Equal(t, []any{}, body["data"])
	assert.Equal(t, true, body["success"])
}

func TestSuccessWithPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"id": "book-1"}, nil)

	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "book-1", data["id"])
}

func TestHandleErrorShape(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, domainerrors.NotFound("book not found"), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)

	assert.Equal(t, "book not found", body["error"])
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "data")
}

func TestHandleErrorIncludesValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := domainerrors.ValidationWithDetails("validation failed", map[string]string{
		"username": "username is required",
	})
	HandleError(rec, err, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)

	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "username is required", details["username"])
}
