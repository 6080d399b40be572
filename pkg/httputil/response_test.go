package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yuvi-2309/Foodie-Finder/pkg/errors"
	"github.com/yuvi-2309/Foodie-Finder/pkg/logger"
	"github.com/yuvi-2309/Foodie-Finder/pkg/validator"
)

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body DetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"id": "r1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"r1"}`, rec.Body.String())
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/restaurants/r9", nil)

	WriteError(rec, r, apperrors.NotFound("restaurant", "r9"), logger.Discard())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `restaurant with id r9 not found`, decodeDetail(t, rec))
}

func TestWriteError_ValidationError(t *testing.T) {
	type form struct {
		Rating int `validate:"gte=1,lte=5"`
	}
	err := validator.Validate(form{Rating: 7})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/reviews/", nil)
	WriteError(rec, r, err, logger.Discard())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeDetail(t, rec), "Rating")
}

func TestWriteError_InternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/restaurants/", nil)

	WriteError(rec, r, errors.New("pq: connection refused"), logger.Discard())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "an internal error occurred", decodeDetail(t, rec))
}

func TestWriteError_SentinelMapping(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/notifications/", nil)

	WriteError(rec, r, apperrors.ErrUnauthorized, logger.Discard())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
