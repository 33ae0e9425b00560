package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for sye-agent errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Classification store error codes
const (
	DB_OPEN_FAILED      ErrorCode = "DB_OPEN_FAILED"
	DB_MIGRATION_FAILED ErrorCode = "DB_MIGRATION_FAILED"
	DB_QUERY_FAILED     ErrorCode = "DB_QUERY_FAILED"
)

// Classification pipeline error codes
const (
	CLASSIFICATION_FAILED    ErrorCode = "CLASSIFICATION_FAILED"
	CLASSIFICATION_NOT_FOUND ErrorCode = "CLASSIFICATION_NOT_FOUND"
)

// SyeError is a structured error carrying an error code, message, and
// optional cause. It supports error wrapping and retryability hints so
// callers can decide whether a failed operation is worth repeating.
type SyeError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error formats as "[CODE] message" or "[CODE] message: cause".
func (e *SyeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/errors.As chains.
func (e *SyeError) Unwrap() error {
	return e.Cause
}

// Is matches errors by code, so sentinel comparisons work across wrapping.
func (e *SyeError) Is(target error) bool {
	var syeErr *SyeError
	if errors.As(target, &syeErr) {
		return e.Code == syeErr.Code
	}
	return false
}

// NewError creates a non-retryable SyeError with the given code and message.
func NewError(code ErrorCode, message string) *SyeError {
	return &SyeError{
		Code:    code,
		Message: message,
	}
}

// NewRetryableError creates a retryable SyeError. Use for transient failures
// that may succeed on retry, like network timeouts.
func NewRetryableError(code ErrorCode, message string) *SyeError {
	return &SyeError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// WrapError creates a non-retryable SyeError wrapping an existing error.
// The cause remains reachable through Unwrap.
func WrapError(code ErrorCode, message string, cause error) *SyeError {
	return &SyeError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf extracts the error code from err if it wraps a SyeError.
func CodeOf(err error) (ErrorCode, bool) {
	var syeErr *SyeError
	if errors.As(err, &syeErr) {
		return syeErr.Code, true
	}
	return "", false
}

// IsRetryable reports whether err (or any error it wraps) is a retryable
// SyeError.
func IsRetryable(err error) bool {
	var syeErr *SyeError
	if errors.As(err, &syeErr) {
		return syeErr.Retryable
	}
	return false
}
