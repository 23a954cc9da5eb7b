package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine-readable kind of a service error.
type ErrorCode string

const (
	CodeValidation        ErrorCode = "validation_error"
	CodeNotFound          ErrorCode = "not_found"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeConflict          ErrorCode = "conflict"
	CodeInsufficientFunds ErrorCode = "insufficient_funds"
	CodeInvalidState      ErrorCode = "invalid_state"
	CodeInternal          ErrorCode = "internal_error"
)

// Error is returned by every service operation. Message is safe to show to
// the caller except for CodeInternal, whose cause stays server-side.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...any) error {
	return newError(CodeValidation, format, args...)
}

func notFoundError(format string, args ...any) error {
	return newError(CodeNotFound, format, args...)
}

func unauthorizedError(format string, args ...any) error {
	return newError(CodeUnauthorized, format, args...)
}

func conflictError(format string, args ...any) error {
	return newError(CodeConflict, format, args...)
}

func invalidStateError(format string, args ...any) error {
	return newError(CodeInvalidState, format, args...)
}

// internalError wraps an unexpected failure. Already-classified errors pass
// through unchanged so a NotFound from a collaborator keeps its code.
func internalError(err error, message string) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	return &Error{Code: CodeInternal, Message: message, Err: err}
}

// ErrInsufficientFunds is returned when a debit exceeds the current balance.
var ErrInsufficientFunds = &Error{Code: CodeInsufficientFunds, Message: "Insufficient credits"}

// CodeOf extracts the error code, treating unclassified errors as internal.
func CodeOf(err error) ErrorCode {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return CodeInternal
}

// StatusCode maps a service error to its HTTP status.
func StatusCode(err error) int {
	switch CodeOf(err) {
	case CodeValidation, CodeConflict, CodeInsufficientFunds, CodeInvalidState:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the caller-facing text of err.
func PublicMessage(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr.Code != CodeInternal {
		return svcErr.Message
	}
	return "An internal error occurred"
}
