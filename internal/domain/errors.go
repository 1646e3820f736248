package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured application error with HTTP status code.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
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

// Common error constructors.

func ErrNotFound(msg string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: msg}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: msg}
}

func ErrBadRequest(msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: msg}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Message: msg}
}

// ErrInsufficientCredits rejects a credit-consuming operation on an
// empty ledger. User-actionable, so 403 rather than 500.
func ErrInsufficientCredits() *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Message: "insufficient credits, please purchase more credits to continue",
	}
}

// ErrInvalidTransition rejects a status change the application state
// machine does not allow.
func ErrInvalidTransition(msg string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: msg}
}

// ErrUnavailable signals a transient upstream failure the caller may retry.
func ErrUnavailable(msg string, err error) *AppError {
	return &AppError{Code: http.StatusServiceUnavailable, Message: msg, Err: err}
}

func ErrInternal(msg string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: msg, Err: err}
}

// Repository-level sentinels. Services translate these into AppErrors so
// repositories stay free of HTTP concerns.
var (
	// ErrOutOfCredits is returned when a conditional debit matched no row.
	ErrOutOfCredits = errors.New("account has no remaining credits")
	// ErrRecordNotFound covers both missing rows and rows owned by another
	// account, so record existence is never leaked across owners.
	ErrRecordNotFound = errors.New("record not found")
)

// AsAppError attempts to extract an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
