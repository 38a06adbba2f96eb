package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/attendly/attendance-service/pkg/errors"
)

// Pagination is the standard wire shape for list replies:
// "{page, limit, total, totalPages}".
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination echoes page/limit as given, without clamping, and computes
// totalPages from total; a non-positive limit yields zero totalPages.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// errorBody is the wire shape for every error response: `{message, code,
// details}`.
type errorBody struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// JSON writes v as the entire response body at the given status code.
func JSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// Created writes v with a 201 status.
func Created(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusCreated, v)
}

// NoContent writes an empty 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes the AppError (or a generic 500 for anything else) as
// `{message, code, details}`.
func Error(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		JSON(w, appErr.StatusCode, errorBody{
			Message: appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		})
		return
	}
	JSON(w, http.StatusInternalServerError, errorBody{
		Message: "internal error",
		Code:    "INTERNAL_ERROR",
	})
}

// DecodeJSON decodes the request body into v, mapping a missing body or
// malformed JSON to a 400 BAD_REQUEST AppError.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.BadRequest("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.BadRequest("invalid JSON body")
	}
	return nil
}
