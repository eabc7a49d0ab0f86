// Package errors provides custom error types for the finboard API.
// Service-layer errors should use AppError so that handlers can render
// consistent error responses without leaking internal details.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
// Fields carries per-field validation messages when the error is a
// validation failure.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
	StatusCode int               `json:"-"`
	Internal   error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError carrying the same code, so that
// wrapped copies of a sentinel still match it.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithFields creates a new AppError that reports the given per-field messages.
func WithFields(sentinel *AppError, fields map[string]string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Fields:     fields,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput     = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrValidationFailed = &AppError{Code: "VALIDATION_FAILED", Message: "Please fix the highlighted fields", StatusCode: http.StatusUnprocessableEntity}
	ErrInternalServer   = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Transaction type must be income or expense", StatusCode: http.StatusBadRequest}
	ErrInvalidSortField       = &AppError{Code: "INVALID_SORT_FIELD", Message: "Unsupported sort field", StatusCode: http.StatusBadRequest}
)

// Settings errors.
var (
	ErrInvalidCurrency  = &AppError{Code: "INVALID_CURRENCY", Message: "Currency must be USD, EUR or RWF", StatusCode: http.StatusBadRequest}
	ErrInvalidSettings  = &AppError{Code: "INVALID_SETTINGS", Message: "Expense cap and rates must be positive numbers", StatusCode: http.StatusBadRequest}
	ErrRatesUnavailable = &AppError{Code: "RATES_UNAVAILABLE", Message: "Exchange rates could not be refreshed", StatusCode: http.StatusBadGateway}
)

// Persistence errors.
var (
	ErrInvalidImport = &AppError{Code: "INVALID_IMPORT", Message: "Imported data is not a valid finance snapshot", StatusCode: http.StatusBadRequest}
)
