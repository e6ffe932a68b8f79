package dataframe

import (
	"strconv"

	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/index"
	"github.com/paveg/tabula/internal/monitoring"
	"github.com/paveg/tabula/internal/value"
)

// Cells live in one row-major buffer: (row, col) is at row*width+col.

func (df *DataFrame) cell(row, col int) value.Value {
	return df.values[row*df.Width()+col]
}

func (df *DataFrame) setCell(row, col int, v value.Value) {
	df.values[row*df.Width()+col] = v
}

// row returns the backing slice of a row; callers must not retain it
func (df *DataFrame) row(r int) []value.Value {
	w := df.Width()
	return df.values[r*w : (r+1)*w : (r+1)*w]
}

func (df *DataFrame) column(c int) []value.Value {
	out := make([]value.Value, df.Len())
	for r := range out {
		out[r] = df.cell(r, c)
	}
	return out
}

func (df *DataFrame) positionOf(op, name string) (int, error) {
	c, ok := df.schema.position(name)
	if !ok {
		return 0, errors.NewColumnNotFoundError(op, name)
	}
	return c, nil
}

func (df *DataFrame) positionsOf(op string, names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		c, err := df.positionOf(op, name)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// take returns a new DataFrame holding the rows at positions, in that order
func (df *DataFrame) take(positions []int) *DataFrame {
	w := df.Width()
	values := make([]value.Value, 0, len(positions)*w)
	for _, p := range positions {
		values = append(values, df.row(p)...)
	}
	return &DataFrame{index: df.index.Take(positions), schema: df.schema.clone(), values: values}
}

// project returns a new DataFrame holding the columns at cols, in that order
func (df *DataFrame) project(cols []int) *DataFrame {
	n := df.Len()
	values := make([]value.Value, 0, n*len(cols))
	for r := range n {
		row := df.row(r)
		for _, c := range cols {
			values = append(values, row[c])
		}
	}
	return &DataFrame{index: df.index.Clone(), schema: df.schema.project(cols), values: values}
}

// emptyLike returns a DataFrame with the receiver's schema and no rows
func (df *DataFrame) emptyLike() *DataFrame {
	ix := index.Range(0)
	ix.SetName(df.index.Name())
	return &DataFrame{index: ix, schema: df.schema.clone()}
}

// convert coerces v to the type of column c. Unsettled columns accept any value.
func (df *DataFrame) convert(op string, c int, v value.Value) (value.Value, error) {
	if !df.schema.settled[c] || v.IsMissing() {
		return v, nil
	}
	out, err := value.Convert(v, df.schema.types[c])
	if err != nil {
		return value.Missing, errors.NewTypeConversionError(op, df.schema.names[c], df.schema.types[c].String(), err)
	}
	return out, nil
}

// convertRow converts a full row to the column types without touching df
func (df *DataFrame) convertRow(op string, row []value.Value) ([]value.Value, error) {
	out := make([]value.Value, len(row))
	for c, v := range row {
		cv, err := df.convert(op, c, v)
		if err != nil {
			return nil, err
		}
		out[c] = cv
	}
	return out, nil
}

func (df *DataFrame) convertColumns(op string) error {
	for i, v := range df.values {
		cv, err := df.convert(op, i%df.Width(), v)
		if err != nil {
			return err
		}
		df.values[i] = cv
	}
	return nil
}

// settleTypes infers the type of every column whose type is not yet known
// and converts its values to that type.
func (df *DataFrame) settleTypes() {
	for c := range df.schema.names {
		if df.schema.settled[c] {
			continue
		}
		t, ok := value.Infer(df.column(c))
		if !ok {
			continue
		}
		df.schema.setType(c, t)
		for r := range df.Len() {
			if v, err := value.Convert(df.cell(r, c), t); err == nil {
				df.setCell(r, c, v)
			}
		}
	}
}

// record runs fn under the global metrics collector
func record(op string, rows int, fn func() error) error {
	return monitoring.RecordGlobalOperation(op, rows, fn)
}

func itoa(i int) string { return strconv.Itoa(i) }
