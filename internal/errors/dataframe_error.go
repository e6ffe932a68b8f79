// Package errors provides standardized error types for DataFrame operations.
// This package defines DataFrameError for consistent error handling across
// all public APIs, with operation context, an error kind and wrapping support.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies a DataFrameError. Every core failure is a precondition
// violation by the caller, so kinds are informational and never retried.
type Kind int

const (
	// KindSchema covers unknown or duplicate columns and shape mismatches
	KindSchema Kind = iota
	// KindArgument covers nil/empty required arguments and mismatched parallel arguments
	KindArgument
	// KindUnsupported covers combinations the engine does not define
	KindUnsupported
	// KindType covers type inference and conversion failures
	KindType
	// KindInternal wraps unexpected failures of collaborators
	KindInternal
)

var kindNames = map[Kind]string{
	KindSchema:      "schema",
	KindArgument:    "argument",
	KindUnsupported: "unsupported",
	KindType:        "type",
	KindInternal:    "internal",
}

// String returns the kind name
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// DataFrameError represents standardized errors across all DataFrame operations
type DataFrameError struct {
	Op      string // Operation name (e.g., "Sort", "Filter", "Join")
	Column  string // Column name if applicable
	Kind    Kind   // Error classification
	Message string // Human-readable error description
	Hint    string // Optional suggestion for the caller
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *DataFrameError) Error() string {
	var b strings.Builder
	if e.Column != "" {
		fmt.Fprintf(&b, "%s operation failed on column '%s': %s", e.Op, e.Column, e.Message)
	} else {
		fmt.Fprintf(&b, "%s operation failed: %s", e.Op, e.Message)
	}
	if e.Hint != "" {
		b.WriteString(" (Hint: ")
		b.WriteString(e.Hint)
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns the underlying cause for error wrapping support
func (e *DataFrameError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is()
func (e *DataFrameError) Is(target error) bool {
	if df, ok := target.(*DataFrameError); ok {
		return e.Op == df.Op && e.Column == df.Column && e.Message == df.Message
	}
	return false
}

// WithHint returns a copy of the error carrying a hint
func (e *DataFrameError) WithHint(hint string) *DataFrameError {
	c := *e
	c.Hint = hint
	return &c
}

// IsKind reports whether err is (or wraps) a DataFrameError of the given kind
func IsKind(err error, kind Kind) bool {
	var dfErr *DataFrameError
	if stderrors.As(err, &dfErr) {
		return dfErr.Kind == kind
	}
	return false
}

// Common error constructors for consistent error creation

// NewColumnNotFoundError creates an error for operations on non-existent columns
func NewColumnNotFoundError(op, column string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Kind:    KindSchema,
		Message: "column does not exist",
	}
}

// NewDuplicateColumnError creates an error for a column name that is already taken
func NewDuplicateColumnError(op, column string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Kind:    KindSchema,
		Message: "column already exists",
	}
}

// NewLengthMismatchError creates an error for shape mismatches
func NewLengthMismatchError(op, context string, expected, actual int) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Kind:    KindSchema,
		Message: fmt.Sprintf("%s length mismatch: expected %d, got %d", context, expected, actual),
	}
}

// NewInvalidInputError creates an error for invalid operation inputs
func NewInvalidInputError(op, message string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Kind:    KindArgument,
		Message: message,
	}
}

// NewUnsupportedError creates an error for operation combinations that are not defined
func NewUnsupportedError(op, column, message string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Kind:    KindUnsupported,
		Message: message,
	}
}

// NewUnsupportedTypeError creates an error for unsupported data types
func NewUnsupportedTypeError(op, typeName string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Kind:    KindType,
		Message: fmt.Sprintf("unsupported type: %s", typeName),
	}
}

// NewTypeConversionError creates an error for a value that cannot be converted to a column type
func NewTypeConversionError(op, column, typeName string, cause error) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Kind:    KindType,
		Message: fmt.Sprintf("cannot convert value to %s", typeName),
		Cause:   cause,
	}
}

// NewValidationError creates an error for input validation failures
func NewValidationError(op, column, message string) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Column:  column,
		Kind:    KindArgument,
		Message: message,
	}
}

// NewInternalError creates an error for internal operation failures
func NewInternalError(op string, cause error) *DataFrameError {
	return &DataFrameError{
		Op:      op,
		Kind:    KindInternal,
		Message: "internal error occurred",
		Cause:   cause,
	}
}

// Predefined error variables for common cases
var (
	// ErrEmptyDataFrame indicates operations on empty DataFrames
	ErrEmptyDataFrame = &DataFrameError{
		Op:      "validation",
		Kind:    KindArgument,
		Message: "operation not supported on empty DataFrame",
	}

	// ErrMismatchedLength indicates length mismatches in operations
	ErrMismatchedLength = &DataFrameError{
		Op:      "validation",
		Kind:    KindSchema,
		Message: "arrays must have the same length",
	}

	// ErrInvalidIndex indicates out-of-bounds index access
	ErrInvalidIndex = &DataFrameError{
		Op:      "indexing",
		Kind:    KindArgument,
		Message: "index out of bounds",
	}
)
