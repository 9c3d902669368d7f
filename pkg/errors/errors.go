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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Data spec errors
	ErrDataSpecInvalid ErrorCode = "DATASPEC_INVALID"

	// Source errors
	ErrSourceNotFound ErrorCode = "SOURCE_NOT_FOUND"
	ErrSourceRead     ErrorCode = "SOURCE_READ"

	// Format errors
	ErrFormatUnknown     ErrorCode = "FORMAT_UNKNOWN"
	ErrFormatUnavailable ErrorCode = "FORMAT_UNAVAILABLE"
	ErrFormatDecode      ErrorCode = "FORMAT_DECODE"

	// Configuration errors
	ErrConfigLoad ErrorCode = "CONFIG_LOAD"

	// Template errors
	ErrTemplateParse  ErrorCode = "TEMPLATE_PARSE"
	ErrTemplateRender ErrorCode = "TEMPLATE_RENDER"

	// Output errors
	ErrOutputWrite ErrorCode = "OUTPUT_WRITE"
)

// RendaError represents a structured error with code and details
type RendaError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RendaError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RendaError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RendaError) Is(target error) bool {
	var targetErr *RendaError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RendaError with the given code and message
func New(code ErrorCode, message string) *RendaError {
	return &RendaError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RendaError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RendaError {
	return &RendaError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RendaError
func Wrap(err error, code ErrorCode, message string) *RendaError {
	if err == nil {
		return nil
	}
	return &RendaError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RendaError {
	if err == nil {
		return nil
	}
	return &RendaError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RendaError) WithDetail(key string, value interface{}) *RendaError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var rendaErr *RendaError
	if errors.As(err, &rendaErr) {
		return rendaErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RendaError
func GetErrorCode(err error) ErrorCode {
	var rendaErr *RendaError
	if errors.As(err, &rendaErr) {
		return rendaErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RendaError
func GetErrorDetails(err error) map[string]interface{} {
	var rendaErr *RendaError
	if errors.As(err, &rendaErr) {
		return rendaErr.Details
	}
	return nil
}
