package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Hint    string
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
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
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

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Hint:    appErr.Hint,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeDatabaseError      = "DATABASE_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnsupportedFormat  = "UNSUPPORTED_FORMAT"
	CodeEmptyDataset       = "EMPTY_DATASET"
	CodeParseError         = "PARSE_ERROR"
	CodeMissingColumn      = "MISSING_COLUMN"
	CodeInvalidColumnCount = "INVALID_COLUMN_COUNT"
	CodeUnsupportedTest    = "UNSUPPORTED_TEST_TYPE"
	CodeComputation        = "COMPUTATION_ERROR"
	CodeInsufficientData   = "INSUFFICIENT_DATA"
	CodeStorageError       = "STORAGE_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

// InvalidInput flags malformed caller input; never retried internally.
func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func UnsupportedFormat(format string) *AppError {
	return New(CodeUnsupportedFormat, fmt.Sprintf("unsupported file format %q", format))
}

func EmptyDataset(message string) *AppError {
	return New(CodeEmptyDataset, message)
}

func ParseError(format string, cause error) *AppError {
	return &AppError{
		Code:    CodeParseError,
		Message: fmt.Sprintf("failed to parse %s input", format),
		Cause:   cause,
	}
}

func MissingColumn(name string) *AppError {
	return New(CodeMissingColumn, fmt.Sprintf("column %q not found in dataset", name))
}

func InvalidColumnCount(testType string, want string, got int) *AppError {
	return New(CodeInvalidColumnCount,
		fmt.Sprintf("%s requires %s columns, got %d", testType, want, got))
}

func UnsupportedTest(testType string) *AppError {
	return New(CodeUnsupportedTest, fmt.Sprintf("unsupported test type %q", testType))
}

// Computation flags numeric degeneracy; the hint suggests remediation.
func Computation(message, hint string) *AppError {
	return &AppError{
		Code:    CodeComputation,
		Message: message,
		Hint:    hint,
	}
}

func InsufficientData(message, hint string) *AppError {
	return &AppError{
		Code:    CodeInsufficientData,
		Message: message,
		Hint:    hint,
	}
}

func StorageError(operation string, cause error) *AppError {
	return &AppError{
		Code:    CodeStorageError,
		Message: fmt.Sprintf("storage %s failed", operation),
		Cause:   cause,
	}
}
