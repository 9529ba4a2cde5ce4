package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeInternal      = "INTERNAL_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeRateLimited   = "RATE_LIMITED"
	CodeUnprocessable = "UNPROCESSABLE_ENTITY"
	CodeModel         = "MODEL_ERROR"
)

// Standard messages
const (
	MsgNotAuthenticated   = "Not authenticated"
	MsgInvalidCredentials = "Invalid authentication credentials"
	MsgInternal           = "Internal Server Error"
	MsgRateLimited        = "Rate limit exceeded"
)

// FieldError describes one schema violation in a request body
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// AppError represents an application error with context
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Fields     []FieldError      `json:"fields,omitempty"`
	Headers    map[string]string `json:"-"`
	StatusCode int               `json:"-"`
	Err        error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithHeader adds a response header to the error
func (e *AppError) WithHeader(key, value string) *AppError {
	if e.Headers == nil {
		e.Headers = make(map[string]string)
	}
	e.Headers[key] = value
	return e
}

// WithError wraps an underlying error
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// Body returns the response body for the error.
// Field errors are reported as a list under "detail", everything else as a string.
func (e *AppError) Body() map[string]any {
	if len(e.Fields) > 0 {
		return map[string]any{"detail": e.Fields}
	}
	return map[string]any{"detail": e.Message}
}

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Internal creates an internal server error
func Internal(message string) *AppError {
	if message == "" {
		message = MsgInternal
	}
	return New(CodeInternal, message, http.StatusInternalServerError)
}

// Model creates an error for a failed model load or inference.
// The message exposed to clients is always the generic internal one.
func Model(err error) *AppError {
	return New(CodeModel, MsgInternal, http.StatusInternalServerError).WithError(err)
}

// Unauthorized creates an unauthorized error carrying a bearer challenge
func Unauthorized(message string) *AppError {
	if message == "" {
		message = MsgNotAuthenticated
	}
	return New(CodeUnauthorized, message, http.StatusUnauthorized).
		WithHeader("WWW-Authenticate", "Bearer")
}

// RateLimited creates a rate limited error
func RateLimited() *AppError {
	return New(CodeRateLimited, MsgRateLimited, http.StatusTooManyRequests)
}

// Unprocessable creates an unprocessable entity error from field errors
func Unprocessable(fields ...FieldError) *AppError {
	e := New(CodeUnprocessable, "request validation failed", http.StatusUnprocessableEntity)
	e.Fields = fields
	return e
}

// GetAppError extracts AppError from error if present
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// IsUnprocessable checks if the error is a schema validation error
func IsUnprocessable(err error) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code == CodeUnprocessable
	}
	return false
}
