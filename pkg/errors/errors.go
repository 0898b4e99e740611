package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Swap errors
	ErrUnsupportedEntryKind ErrorCode = "UNSUPPORTED_ENTRY_KIND"
	ErrTargetMismatch       ErrorCode = "TARGET_MISMATCH"

	// Move errors
	ErrSourceMissing        ErrorCode = "SOURCE_MISSING"
	ErrDestinationCollision ErrorCode = "DESTINATION_COLLISION"
	ErrIncompleteMove       ErrorCode = "INCOMPLETE_MOVE"

	// Relink errors
	ErrUserAborted   ErrorCode = "USER_ABORTED"
	ErrSearchFailed  ErrorCode = "SEARCH_FAILED"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
)

// RelinkaError represents a structured error with code and details
type RelinkaError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RelinkaError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RelinkaError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RelinkaError) Is(target error) bool {
	var targetErr *RelinkaError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RelinkaError with the given code and message
func New(code ErrorCode, message string) *RelinkaError {
	return &RelinkaError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RelinkaError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RelinkaError {
	return &RelinkaError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RelinkaError
func Wrap(err error, code ErrorCode, message string) *RelinkaError {
	if err == nil {
		return nil
	}
	return &RelinkaError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RelinkaError {
	if err == nil {
		return nil
	}
	return &RelinkaError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RelinkaError) WithDetail(key string, value interface{}) *RelinkaError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var relinkaErr *RelinkaError
	if errors.As(err, &relinkaErr) {
		return relinkaErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RelinkaError
func GetErrorCode(err error) ErrorCode {
	var relinkaErr *RelinkaError
	if errors.As(err, &relinkaErr) {
		return relinkaErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RelinkaError
func GetErrorDetails(err error) map[string]interface{} {
	var relinkaErr *RelinkaError
	if errors.As(err, &relinkaErr) {
		return relinkaErr.Details
	}
	return nil
}
