package httpclient

import (
	"encoding/json"
	"io"
	"net/http"

	apperrors "github.com/yuvi-2309/Foodie-Finder/pkg/errors"
)

// detailResponse mirrors the error body returned by the restaurant API:
// a single human-readable "detail" field.
type detailResponse struct {
	Detail string `json:"detail"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an AppError. The server-supplied detail text is preferred for the
// user-facing message; when the body carries none, the given fallback is used.
//
// The caller should only invoke this when resp.StatusCode indicates an error
// (i.e., not 2xx). The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, fallback string) error {
	defer func() { _ = resp.Body.Close() }()

	message := fallback
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err == nil {
		var body detailResponse
		if json.Unmarshal(bodyBytes, &body) == nil && body.Detail != "" {
			message = body.Detail
		}
	}

	return mapStatusError(resp.StatusCode, message)
}

// mapStatusError translates an HTTP status code and message into an AppError
// carrying the matching sentinel.
func mapStatusError(status int, message string) error {
	switch status {
	case http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: message,
			Status:  status,
			Err:     apperrors.ErrNotFound,
		}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &apperrors.AppError{
			Code:    "INVALID_INPUT",
			Message: message,
			Status:  status,
			Err:     apperrors.ErrInvalidInput,
		}
	case http.StatusUnauthorized:
		return apperrors.Unauthorized(message)
	case http.StatusForbidden:
		return apperrors.Forbidden(message)
	case http.StatusConflict:
		return apperrors.Conflict(message)
	case http.StatusServiceUnavailable:
		return &apperrors.AppError{
			Code:    "SERVICE_UNAVAILABLE",
			Message: message,
			Status:  status,
			Err:     apperrors.ErrServiceUnavail,
		}
	default:
		return apperrors.Remote(status, "REMOTE_ERROR", message)
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
