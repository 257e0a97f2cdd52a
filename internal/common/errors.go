package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	CodeMissingFile     = "MISSING_FILE"
	CodeUnrecognized    = "UNRECOGNIZED_LAYOUT"
	CodeTableExtraction = "TABLE_EXTRACTION_ERROR"
	CodeDocumentOpen    = "DOCUMENT_OPEN_ERROR"
	CodeConfig          = "CONFIG_ERROR"
)

// Common application errors
var (
	ErrMissingFile        = errors.New("file does not exist")
	ErrUnrecognizedLayout = errors.New("unrecognized invoice layout")
	ErrTableExtraction    = errors.New("table extraction failed")
	ErrDocumentOpen       = errors.New("document could not be opened")
	ErrInvalidInput       = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// DocumentOpenError wraps a provider failure for path.
func DocumentOpenError(path string, cause error) error {
	return NewAppError(CodeDocumentOpen, path, fmt.Errorf("%w: %w", ErrDocumentOpen, cause))
}

// TableExtractionError wraps a failure while reading table data from a page.
func TableExtractionError(page int, cause error) error {
	return NewAppError(CodeTableExtraction, fmt.Sprintf("page %d", page), fmt.Errorf("%w: %w", ErrTableExtraction, cause))
}

// CodeOf returns the AppError code in err's chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
