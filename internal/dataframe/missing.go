package dataframe

import (
	"github.com/paveg/tabula/internal/aggregation"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/value"
)

// MissingValues returns the number of missing cells per column, for columns
// that have any.
func (df *DataFrame) MissingValues() map[string]int {
	out := make(map[string]int)
	for c, name := range df.schema.names {
		n := 0
		for r := range df.Len() {
			if df.cell(r, c).IsMissing() {
				n++
			}
		}
		if n > 0 {
			out[name] = n
		}
	}
	return out
}

// DropNA returns the rows with no missing value in the given columns, or in
// any column when none are given.
func (df *DataFrame) DropNA(columns ...string) (*DataFrame, error) {
	cols, err := df.positionsOf("DropNA", columns...)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		cols = span(0, df.Width())
	}
	return df.keep(func(r Row) bool {
		for _, c := range cols {
			if r.At(c).IsMissing() {
				return false
			}
		}
		return true
	}), nil
}

// RemoveRows returns the rows for which remove is false
func (df *DataFrame) RemoveRows(remove Predicate) (*DataFrame, error) {
	if remove == nil {
		return nil, errors.NewInvalidInputError("RemoveRows", "predicate cannot be nil")
	}
	return df.keep(func(r Row) bool { return !remove(r) }), nil
}

func (df *DataFrame) keep(pred Predicate) *DataFrame {
	var positions []int
	for r := range df.Len() {
		if pred(Row{df: df, pos: r}) {
			positions = append(positions, r)
		}
	}
	return df.take(positions)
}

// FillNA replaces missing cells in place with v, converted to each column's
// type. Columns whose type cannot hold v are left unchanged.
func (df *DataFrame) FillNA(v value.Value) {
	for c := range df.schema.names {
		fill, err := df.convert("FillNA", c, v)
		if err != nil {
			continue
		}
		df.fillColumn(c, func(int) value.Value { return fill })
	}
	df.settleTypes()
}

// FillNAColumn replaces missing cells of one column in place
func (df *DataFrame) FillNAColumn(column string, v value.Value) error {
	return df.FillNAColumns(map[string]value.Value{column: v})
}

// FillNAColumns replaces missing cells of several columns in place. Every
// fill value is checked before any cell changes.
func (df *DataFrame) FillNAColumns(fills map[string]value.Value) error {
	const op = "FillNAColumns"
	converted := make(map[int]value.Value, len(fills))
	for name, v := range fills {
		c, err := df.positionOf(op, name)
		if err != nil {
			return err
		}
		if converted[c], err = df.convert(op, c, v); err != nil {
			return err
		}
	}
	for c, v := range converted {
		df.fillColumn(c, func(int) value.Value { return v })
	}
	df.settleTypes()
	return nil
}

// FillNAWithAgg replaces missing cells of a column in place with kind
// reduced over the column's non-missing values.
func (df *DataFrame) FillNAWithAgg(column string, kind aggregation.Kind) error {
	const op = "FillNAWithAgg"
	c, err := df.positionOf(op, column)
	if err != nil {
		return err
	}
	present := make([]value.Value, 0, df.Len())
	for _, v := range df.column(c) {
		if !v.IsMissing() {
			present = append(present, v)
		}
	}
	fill, err := aggregation.Reduce(present, kind, df.schema.types[c])
	if err != nil {
		return err
	}
	if fill, err = df.convert(op, c, fill); err != nil {
		return err
	}
	df.fillColumn(c, func(int) value.Value { return fill })
	return nil
}

// FillNAFunc replaces missing cells of a column in place with fn(row position)
func (df *DataFrame) FillNAFunc(column string, fn func(row int) value.Value) error {
	const op = "FillNAFunc"
	if fn == nil {
		return errors.NewInvalidInputError(op, "function cannot be nil")
	}
	c, err := df.positionOf(op, column)
	if err != nil {
		return err
	}
	fills := make(map[int]value.Value)
	for r := range df.Len() {
		if !df.cell(r, c).IsMissing() {
			continue
		}
		if fills[r], err = df.convert(op, c, fn(r)); err != nil {
			return err
		}
	}
	df.fillColumn(c, func(r int) value.Value { return fills[r] })
	df.settleTypes()
	return nil
}

func (df *DataFrame) fillColumn(c int, fill func(row int) value.Value) {
	for r := range df.Len() {
		if df.cell(r, c).IsMissing() {
			df.setCell(r, c, fill(r))
		}
	}
}
