package core

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// WrapCode wraps an error under an explicit code, overriding whatever code
// the cause carries.
func WrapCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// IsCode reports whether err carries the given error code
func IsCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes
const (
	CodeDomainError          = "DOMAIN_ERROR"
	CodeInsufficientBaseline = "INSUFFICIENT_BASELINE"
	CodeSchemaMismatch       = "SCHEMA_MISMATCH"
	CodeConfigInvalid        = "CONFIG_INVALID"
	CodeDatabaseError        = "DATABASE_ERROR"
	CodeIngestError          = "INGEST_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeInternalError        = "INTERNAL_ERROR"
)

// DomainError signals a malformed draw or invalid grid coordinate.
// These abort the current computation; they are never coerced.
func DomainError(message string) *AppError {
	return New(CodeDomainError, message)
}

// DomainErrorf is DomainError with formatting
func DomainErrorf(format string, args ...interface{}) *AppError {
	return New(CodeDomainError, fmt.Sprintf(format, args...))
}

// InsufficientBaselineError signals a simulation too small to support
// percentile or confidence-interval computation.
func InsufficientBaselineError(message string) *AppError {
	return New(CodeInsufficientBaseline, message)
}

// SchemaMismatchError signals that observed and baseline feature tables
// disagree on the feature set.
func SchemaMismatchError(message string) *AppError {
	return New(CodeSchemaMismatch, message)
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func IngestError(message string) *AppError {
	return New(CodeIngestError, message)
}

// IngestErrorf is IngestError with formatting
func IngestErrorf(format string, args ...interface{}) *AppError {
	return New(CodeIngestError, fmt.Sprintf(format, args...))
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}
