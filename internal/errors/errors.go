// Package errors provides the error code taxonomy shared across the core.
package errors

import "fmt"

// ErrorCode identifies a class of failure. Codes are stable strings so the
// desktop UI can branch on them without parsing messages.
type ErrorCode string

const (
	// General errors
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrDuplicate  ErrorCode = "DUPLICATE"

	// Local store errors
	ErrStore      ErrorCode = "STORE_ERROR"
	ErrConstraint ErrorCode = "CONSTRAINT_VIOLATION"
	ErrBadTable   ErrorCode = "UNKNOWN_TABLE"

	// Sync errors
	ErrRemote           ErrorCode = "REMOTE_ERROR"
	ErrSyncDisconnected ErrorCode = "SYNC_DISCONNECTED"
	ErrSyncInProgress   ErrorCode = "SYNC_IN_PROGRESS"

	// Auth errors
	ErrAuthFailed   ErrorCode = "AUTH_FAILED"
	ErrUserInactive ErrorCode = "USER_INACTIVE"
)

// AppError is an error with a code and an optional wrapped cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an error code.
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is checks if an error carries a specific code.
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code of err, or ErrInternal for plain errors.
func CodeOf(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrInternal
}
