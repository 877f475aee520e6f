// Package errors provides a lightweight structured error type (ReportableError)
// for category-based classification in the pipeline and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a Reportable error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Per-reference failures collected during a run
	CategoryMissingAsset     ErrorCategory = "missing_asset"
	CategorySourceUnreadable ErrorCategory = "source_unreadable"
	CategoryUnsupportedRef   ErrorCategory = "unsupported_reference"

	// Structural failures that abort a run
	CategoryDestUnwritable ErrorCategory = "destination_unwritable"
	CategoryRewrite        ErrorCategory = "rewrite_inconsistency"

	// Processing and infrastructure errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryToolchain  ErrorCategory = "toolchain"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Blocks finalizing a document, run continues
	SeverityWarning ErrorSeverity = "warning" // Reported, does not block
)

// ReportableError is a structured error with category, severity, and context
type ReportableError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for ReportableError
type ContextFields map[string]any

// Error implements the error interface
func (e *ReportableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *ReportableError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *ReportableError) WithContext(key string, value any) *ReportableError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// Path returns the offending path recorded in the error context, if any.
func (e *ReportableError) Path() string {
	if e.Context == nil {
		return ""
	}
	if p, ok := e.Context["path"].(string); ok {
		return p
	}
	return ""
}

// New creates a new ReportableError
func New(category ErrorCategory, severity ErrorSeverity, message string) *ReportableError {
	return &ReportableError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new ReportableError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *ReportableError {
	return &ReportableError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// WrapError wraps an existing error with severity "error"
func WrapError(err error, category ErrorCategory, message string) *ReportableError {
	return &ReportableError{
		Category: category,
		Severity: SeverityError,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if re, ok := err.(*ReportableError); ok {
		return re.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if it is not a ReportableError
func GetCategory(err error) ErrorCategory {
	if re, ok := err.(*ReportableError); ok {
		return re.Category
	}
	return CategoryInternal
}

// IsFatal checks if an error has fatal severity
func IsFatal(err error) bool {
	if re, ok := err.(*ReportableError); ok {
		return re.Severity == SeverityFatal
	}
	return false
}
