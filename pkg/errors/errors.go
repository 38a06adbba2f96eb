package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error sentinels, matched with errors.Is against an AppError's
// wrapped Err.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict")
	ErrInternal           = errors.New("internal server error")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
)

// AppError represents an application error with HTTP-facing context.
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a bare AppError.
func New(code, message string, statusCode int) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: statusCode}
}

// Wrap attaches an underlying error to a new AppError.
func Wrap(err error, code, message string, statusCode int) *AppError {
	return &AppError{Err: err, Code: code, Message: message, StatusCode: statusCode}
}

// WithDetails attaches field-level detail messages.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// Common constructors, one per error kind.

func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Code: "UNAUTHORIZED", Message: message, StatusCode: http.StatusUnauthorized}
}

// Forbidden always carries the same uniform phrasing unless the caller
// overrides it, so an access denial never discloses whether the target
// exists.
func Forbidden(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return &AppError{Err: ErrForbidden, Code: "FORBIDDEN", Message: message, StatusCode: http.StatusForbidden}
}

func BadRequest(message string) *AppError {
	return &AppError{Err: ErrBadRequest, Code: "BAD_REQUEST", Message: message, StatusCode: http.StatusBadRequest}
}

func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Code: "CONFLICT", Message: message, StatusCode: http.StatusConflict}
}

func Internal(message string) *AppError {
	return &AppError{Err: ErrInternal, Code: "INTERNAL_ERROR", Message: message, StatusCode: http.StatusInternalServerError}
}

func Validation(details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       "VALIDATION_ERROR",
		Message:    "validation failed",
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

func InvalidCredentials() *AppError {
	return &AppError{
		Err:        ErrInvalidCredentials,
		Code:       "INVALID_CREDENTIALS",
		Message:    "invalid identifier or password",
		StatusCode: http.StatusUnauthorized,
	}
}

func TokenExpired() *AppError {
	return &AppError{Err: ErrTokenExpired, Code: "TOKEN_EXPIRED", Message: "token has expired", StatusCode: http.StatusUnauthorized}
}

func TokenInvalid() *AppError {
	return &AppError{Err: ErrTokenInvalid, Code: "TOKEN_INVALID", Message: "invalid token", StatusCode: http.StatusUnauthorized}
}

// Is / As re-export the standard library helpers so callers need only
// import this package.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

// IsNotFound reports whether err is (or wraps) a not-found AppError, the
// common "optional lookup" check ahead of a create-or-use branch.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
