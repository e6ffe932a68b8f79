package dataframe

import (
	"fmt"

	"github.com/paveg/tabula/internal/common"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/validation"
	"github.com/paveg/tabula/internal/value"
)

// DiffType selects how Diff differences a column
type DiffType int

// Difference modes
const (
	// Seasonal subtracts the value step rows earlier
	Seasonal DiffType = iota
	// Recursive applies a first-order difference step times
	Recursive
)

// String returns the mode name
func (d DiffType) String() string {
	return common.FormatDiffType(int(d))
}

// ShiftSpec describes one shifted copy of a column. Positive Steps lag the
// column (leading rows become Missing), negative Steps lead it.
type ShiftSpec struct {
	Column  string
	NewName string
	Steps   int
}

// Clip returns a copy with numeric cells bounded to [lower, upper]. A
// Missing bound is open. Non-numeric columns are returned unchanged.
// With no columns every column is clipped.
func (df *DataFrame) Clip(lower, upper value.Value, columns ...string) (*DataFrame, error) {
	const op = "Clip"
	cols, err := df.positionsOf(op, columns...)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		cols = span(0, df.Width())
	}
	if !lower.IsMissing() && !upper.IsMissing() && value.Compare(lower, upper) > 0 {
		return nil, errors.NewInvalidInputError(op, "lower bound exceeds upper bound")
	}

	out := df.Copy()
	for _, c := range cols {
		t := df.schema.types[c]
		if !t.IsNumeric() {
			continue
		}
		lo, err := boundFor(op, lower, t)
		if err != nil {
			return nil, err
		}
		hi, err := boundFor(op, upper, t)
		if err != nil {
			return nil, err
		}
		for r := range out.Len() {
			v := out.cell(r, c)
			if v.IsMissing() {
				continue
			}
			if !lo.IsMissing() && value.Compare(v, lo) < 0 {
				out.setCell(r, c, lo)
			} else if !hi.IsMissing() && value.Compare(v, hi) > 0 {
				out.setCell(r, c, hi)
			}
		}
	}
	return out, nil
}

func boundFor(op string, bound value.Value, t value.ColType) (value.Value, error) {
	if bound.IsMissing() {
		return bound, nil
	}
	v, err := value.Convert(bound, t)
	if err != nil {
		return value.Missing, errors.NewTypeConversionError(op, "", t.String(), err)
	}
	return v, nil
}

// Shift returns a copy with shifted columns appended
func (df *DataFrame) Shift(specs ...ShiftSpec) (*DataFrame, error) {
	const op = "Shift"
	if len(specs) == 0 {
		return nil, errors.NewInvalidInputError(op, "at least one shift is required")
	}
	names := make([]string, len(specs))
	columns := make([][]value.Value, len(specs))
	for i, spec := range specs {
		c, err := df.positionOf(op, spec.Column)
		if err != nil {
			return nil, err
		}
		if spec.Steps == 0 {
			return nil, errors.NewValidationError(op, spec.Column, "steps cannot be zero")
		}
		names[i] = spec.NewName
		columns[i] = shift(df.column(c), spec.Steps)
	}
	if err := validation.ValidateNewColumns(df, op, names...); err != nil {
		return nil, err
	}
	out, err := df.AddColumns(names, columns)
	if err != nil {
		return nil, err
	}
	for i, spec := range specs {
		c, _ := df.schema.position(spec.Column)
		out.schema.setType(df.Width()+i, df.schema.types[c])
	}
	return out, nil
}

func shift(values []value.Value, steps int) []value.Value {
	n := len(values)
	out := make([]value.Value, n)
	for i := range out {
		if src := i - steps; src >= 0 && src < n {
			out[i] = values[src]
		}
	}
	return out
}

// Diff returns a copy with every numeric column (or the given ones)
// differenced. Seasonal yields row[i]-row[i-step] with the first step rows
// Missing; Recursive differences step times, leaving step leading Missing
// rows.
func (df *DataFrame) Diff(step int, mode DiffType, columns ...string) (*DataFrame, error) {
	const op = "Diff"
	if step < 1 {
		return nil, errors.NewInvalidInputError(op, "step must be at least 1")
	}
	if mode != Seasonal && mode != Recursive {
		return nil, errors.NewUnsupportedError(op, "", "unknown difference mode")
	}
	cols, err := df.positionsOf(op, columns...)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		cols = span(0, df.Width())
	}

	out := df.Copy()
	for _, c := range cols {
		t := df.schema.types[c]
		if !t.IsNumeric() {
			continue
		}
		var diffed []value.Value
		if mode == Seasonal {
			diffed = difference(df.column(c), step, t)
		} else {
			diffed = df.column(c)
			for range step {
				diffed = difference(diffed, 1, t)
			}
		}
		for r, v := range diffed {
			out.setCell(r, c, v)
		}
	}
	return out, nil
}

func difference(values []value.Value, lag int, t value.ColType) []value.Value {
	out := make([]value.Value, len(values))
	for i := lag; i < len(values); i++ {
		out[i] = subtract(values[i], values[i-lag], t)
	}
	return out
}

func subtract(a, b value.Value, t value.ColType) value.Value {
	if a.IsMissing() || b.IsMissing() {
		return value.Missing
	}
	switch t {
	case value.TypeInt32:
		return value.Int32(int32(a.AsInt64() - b.AsInt64()))
	case value.TypeInt64:
		return value.Int64(a.AsInt64() - b.AsInt64())
	case value.TypeFloat32:
		x, _ := a.Float()
		y, _ := b.Float()
		return value.Float32(float32(x - y))
	default:
		x, _ := a.Float()
		y, _ := b.Float()
		return value.Float64(x - y)
	}
}

// CreateTimeSeries reshapes every column into supervised-learning windows.
//
// Each source column col becomes col_lag{past}..col_lag1 followed by col
// when future is 1, or col_t1..col_t{future}. Output row i holds source
// rows i..i+past+future-1 and takes the key of source row i+past.
func (df *DataFrame) CreateTimeSeries(past, future int) (*DataFrame, error) {
	const op = "CreateTimeSeries"
	if past < 0 {
		return nil, errors.NewInvalidInputError(op, "past cannot be negative")
	}
	if future < 1 {
		return nil, errors.NewInvalidInputError(op, "future must be at least 1")
	}
	window := past + future

	var names []string
	var types []value.ColType
	for c, name := range df.schema.names {
		for k := past; k >= 1; k-- {
			names = append(names, fmt.Sprintf("%s_lag%d", name, k))
		}
		if future == 1 {
			names = append(names, name)
		} else {
			for k := 1; k <= future; k++ {
				names = append(names, fmt.Sprintf("%s_t%d", name, k))
			}
		}
		for range window {
			types = append(types, df.schema.types[c])
		}
	}
	if err := validation.ValidateNewColumns(nil, op, names...); err != nil {
		return nil, err
	}

	n := max(df.Len()-window+1, 0)
	rows := make([][]value.Value, n)
	keys := make([]value.Value, n)
	for i := range rows {
		row := make([]value.Value, 0, len(names))
		for c := range df.schema.names {
			for k := range window {
				row = append(row, df.cell(i+k, c))
			}
		}
		rows[i] = row
		keys[i] = df.index.At(i + past)
	}
	return New(rows, names, WithTypes(types...), WithIndex(keys, df.index.Name()))
}
