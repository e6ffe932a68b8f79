// Package validation provides input validation utilities for DataFrame operations.
// Validators are small reusable checks (column existence, length consistency,
// key arity, positional bounds) that DataFrame operations run before producing
// any output, so a failed operation never returns a partial result.
package validation

import (
	"fmt"

	"github.com/paveg/tabula/internal/errors"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// ColumnProvider interface for types that provide column information
type ColumnProvider interface {
	HasColumn(name string) bool
	Columns() []string
	Len() int
	Width() int
}

// ColumnValidator validates column existence
type ColumnValidator struct {
	df      ColumnProvider
	columns []string
	op      string
}

// NewColumnValidator creates a validator for column operations
func NewColumnValidator(df ColumnProvider, op string, columns ...string) *ColumnValidator {
	return &ColumnValidator{
		df:      df,
		columns: columns,
		op:      op,
	}
}

// Validate checks if all columns exist in the DataFrame
func (v *ColumnValidator) Validate() error {
	for _, column := range v.columns {
		if !v.df.HasColumn(column) {
			return errors.NewColumnNotFoundError(v.op, column)
		}
	}
	return nil
}

// UniqueColumnValidator validates that new column names do not already exist
// and are not repeated
type UniqueColumnValidator struct {
	df      ColumnProvider
	columns []string
	op      string
}

// NewUniqueColumnValidator creates a validator for column additions
func NewUniqueColumnValidator(df ColumnProvider, op string, columns ...string) *UniqueColumnValidator {
	return &UniqueColumnValidator{df: df, columns: columns, op: op}
}

// Validate checks that every name is new
func (v *UniqueColumnValidator) Validate() error {
	seen := make(map[string]struct{}, len(v.columns))
	for _, column := range v.columns {
		if column == "" {
			return errors.NewValidationError(v.op, "", "column name cannot be empty")
		}
		if _, dup := seen[column]; dup || (v.df != nil && v.df.HasColumn(column)) {
			return errors.NewDuplicateColumnError(v.op, column)
		}
		seen[column] = struct{}{}
	}
	return nil
}

// LengthValidator validates array length consistency
type LengthValidator struct {
	expected int
	actual   int
	op       string
	context  string
}

// NewLengthValidator creates a validator for length consistency
func NewLengthValidator(expected, actual int, op, context string) *LengthValidator {
	return &LengthValidator{
		expected: expected,
		actual:   actual,
		op:       op,
		context:  context,
	}
}

// Validate checks if lengths match
func (v *LengthValidator) Validate() error {
	if v.expected != v.actual {
		return errors.NewLengthMismatchError(v.op, v.context, v.expected, v.actual)
	}
	return nil
}

// ArityValidator validates the number of key columns passed to grouping,
// merging and lookup operations
type ArityValidator struct {
	count int
	min   int
	max   int
	op    string
}

// NewArityValidator creates a validator accepting between minKeys and maxKeys keys
func NewArityValidator(count, minKeys, maxKeys int, op string) *ArityValidator {
	return &ArityValidator{count: count, min: minKeys, max: maxKeys, op: op}
}

// Validate checks the key count
func (v *ArityValidator) Validate() error {
	if v.count == 0 && v.min > 0 {
		return errors.NewInvalidInputError(v.op, "at least one key column is required")
	}
	if v.count < v.min || v.count > v.max {
		return errors.NewUnsupportedError(v.op, "",
			fmt.Sprintf("%d key columns requested, supported range is %d to %d", v.count, v.min, v.max))
	}
	return nil
}

// IndexValidator validates positional bounds
type IndexValidator struct {
	index int
	max   int
	op    string
}

// NewIndexValidator creates a validator for positions in [0, maxIndex)
func NewIndexValidator(index, maxIndex int, op string) *IndexValidator {
	return &IndexValidator{
		index: index,
		max:   maxIndex,
		op:    op,
	}
}

// Validate checks if index is within bounds
func (v *IndexValidator) Validate() error {
	if v.index < 0 || v.index >= v.max {
		message := fmt.Sprintf("index %d out of bounds [0, %d)", v.index, v.max)
		return errors.NewValidationError(v.op, "", message)
	}
	return nil
}

// EmptyDataFrameValidator validates operations on empty DataFrames
type EmptyDataFrameValidator struct {
	df ColumnProvider
	op string
}

// NewEmptyDataFrameValidator creates a validator for empty DataFrame checks
func NewEmptyDataFrameValidator(df ColumnProvider, op string) *EmptyDataFrameValidator {
	return &EmptyDataFrameValidator{
		df: df,
		op: op,
	}
}

// Validate checks if DataFrame is empty when operation requires data
func (v *EmptyDataFrameValidator) Validate() error {
	if v.df.Width() == 0 {
		return errors.NewInvalidInputError(v.op, "operation not supported on a DataFrame without columns")
	}
	return nil
}

// CompoundValidator combines multiple validators
type CompoundValidator struct {
	validators []Validator
}

// NewCompoundValidator creates a validator that checks multiple conditions
func NewCompoundValidator(validators ...Validator) *CompoundValidator {
	return &CompoundValidator{
		validators: validators,
	}
}

// Validate runs all validators and returns the first error encountered
func (v *CompoundValidator) Validate() error {
	for _, validator := range v.validators {
		if err := validator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Convenience validation functions

// ValidateColumns is a convenience function for column validation
func ValidateColumns(df ColumnProvider, op string, columns ...string) error {
	return NewColumnValidator(df, op, columns...).Validate()
}

// ValidateNewColumns is a convenience function for column-addition validation
func ValidateNewColumns(df ColumnProvider, op string, columns ...string) error {
	return NewUniqueColumnValidator(df, op, columns...).Validate()
}

// ValidateLength is a convenience function for length validation
func ValidateLength(expected, actual int, op, context string) error {
	return NewLengthValidator(expected, actual, op, context).Validate()
}

// ValidateKeys checks that between 1 and maxKeys key columns were given and that they exist
func ValidateKeys(df ColumnProvider, op string, maxKeys int, columns ...string) error {
	return NewCompoundValidator(
		NewArityValidator(len(columns), 1, maxKeys, op),
		NewColumnValidator(df, op, columns...),
	).Validate()
}

// ValidateIndex is a convenience function for index validation
func ValidateIndex(index, maxIndex int, op string) error {
	return NewIndexValidator(index, maxIndex, op).Validate()
}

// ValidateNotEmpty is a convenience function for empty DataFrame validation
func ValidateNotEmpty(df ColumnProvider, op string) error {
	return NewEmptyDataFrameValidator(df, op).Validate()
}
