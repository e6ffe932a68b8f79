package dataframe

import (
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/validation"
	"github.com/paveg/tabula/internal/value"
)

// Projection renames column From to To in Create
type Projection struct {
	From string
	To   string
}

// Select returns a new DataFrame with only the given columns, in that order
func (df *DataFrame) Select(columns ...string) (*DataFrame, error) {
	cols, err := df.positionsOf("Select", columns...)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateNewColumns(nil, "Select", columns...); err != nil {
		return nil, err
	}
	return df.project(cols), nil
}

// Drop returns a new DataFrame without the given columns
func (df *DataFrame) Drop(columns ...string) (*DataFrame, error) {
	if err := validation.ValidateColumns(df, "Drop", columns...); err != nil {
		return nil, err
	}
	drop := make(map[string]struct{}, len(columns))
	for _, name := range columns {
		drop[name] = struct{}{}
	}
	var keep []int
	for c, name := range df.schema.names {
		if _, ok := drop[name]; !ok {
			keep = append(keep, c)
		}
	}
	return df.project(keep), nil
}

// Create returns a new DataFrame holding the projected columns under their
// new names. An empty To keeps the original name.
func (df *DataFrame) Create(projections ...Projection) (*DataFrame, error) {
	const op = "Create"
	if len(projections) == 0 {
		return nil, errors.NewInvalidInputError(op, "at least one projection is required")
	}
	cols := make([]int, len(projections))
	names := make([]string, len(projections))
	for i, p := range projections {
		c, err := df.positionOf(op, p.From)
		if err != nil {
			return nil, err
		}
		cols[i] = c
		names[i] = p.To
		if names[i] == "" {
			names[i] = p.From
		}
	}
	if err := validation.ValidateNewColumns(nil, op, names...); err != nil {
		return nil, err
	}
	out := df.project(cols)
	for i, name := range names {
		out.schema.rename(i, name)
	}
	return out, nil
}

// Rename renames a column in place.
func (df *DataFrame) Rename(from, to string) error {
	const op = "Rename"
	c, err := df.positionOf(op, from)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}
	if err := validation.ValidateNewColumns(df, op, to); err != nil {
		return err
	}
	df.schema.rename(c, to)
	return nil
}

// AddColumn returns a new DataFrame with one column appended
func (df *DataFrame) AddColumn(name string, values []value.Value) (*DataFrame, error) {
	return df.InsertColumn(-1, name, values)
}

// AddColumns returns a new DataFrame with the columns appended in order
func (df *DataFrame) AddColumns(names []string, columns [][]value.Value) (*DataFrame, error) {
	const op = "AddColumns"
	if err := validation.NewCompoundValidator(
		validation.NewLengthValidator(len(names), len(columns), op, "columns"),
		validation.NewUniqueColumnValidator(df, op, names...),
	).Validate(); err != nil {
		return nil, err
	}
	for _, col := range columns {
		if err := validation.ValidateLength(df.Len(), len(col), op, "column"); err != nil {
			return nil, err
		}
	}
	out := df
	for i, name := range names {
		out = out.insertColumn(out.Width(), name, columns[i])
	}
	if out == df {
		return df.Copy(), nil
	}
	return out, nil
}

// InsertColumn returns a new DataFrame with a column inserted at pos.
// pos -1 appends at the end.
func (df *DataFrame) InsertColumn(pos int, name string, values []value.Value) (*DataFrame, error) {
	const op = "InsertColumn"
	if pos == -1 {
		pos = df.Width()
	}
	if err := validation.NewCompoundValidator(
		validation.NewIndexValidator(pos, df.Width()+1, op),
		validation.NewUniqueColumnValidator(df, op, name),
		validation.NewLengthValidator(df.Len(), len(values), op, "column"),
	).Validate(); err != nil {
		return nil, err
	}
	return df.insertColumn(pos, name, values), nil
}

func (df *DataFrame) insertColumn(pos int, name string, values []value.Value) *DataFrame {
	w := df.Width()
	n := df.Len()
	out := make([]value.Value, 0, n*(w+1))
	for r := range n {
		row := df.row(r)
		out = append(out, row[:pos]...)
		out = append(out, values[r])
		out = append(out, row[pos:]...)
	}
	sch := df.schema.clone()
	sch.insert(pos, name, value.TypeStr, false)
	result := &DataFrame{index: df.index.Clone(), schema: sch, values: out}
	result.settleTypes()
	return result
}

// SetColumnType converts a column to type t in place. Either every value
// converts or the DataFrame is left unchanged.
func (df *DataFrame) SetColumnType(name string, t value.ColType) error {
	const op = "SetColumnType"
	c, err := df.positionOf(op, name)
	if err != nil {
		return err
	}
	if !t.Valid() {
		return errors.NewUnsupportedTypeError(op, t.String())
	}
	converted := make([]value.Value, df.Len())
	for r := range converted {
		v, err := value.Convert(df.cell(r, c), t)
		if err != nil {
			return errors.NewTypeConversionError(op, name, t.String(), err)
		}
		converted[r] = v
	}
	for r, v := range converted {
		df.setCell(r, c, v)
	}
	df.schema.setType(c, t)
	return nil
}

// AddCalculatedColumn appends a column computed from each row, in place
func (df *DataFrame) AddCalculatedColumn(name string, fn RowFunc) error {
	return df.AddCalculatedColumns([]string{name}, []RowFunc{fn})
}

// AddCalculatedColumns appends several computed columns in place. Every
// function sees the rows as they were before the call.
func (df *DataFrame) AddCalculatedColumns(names []string, fns []RowFunc) error {
	const op = "AddCalculatedColumns"
	if err := validation.ValidateLength(len(names), len(fns), op, "functions"); err != nil {
		return err
	}
	for _, fn := range fns {
		if fn == nil {
			return errors.NewInvalidInputError(op, "function cannot be nil")
		}
	}
	columns := make([][]value.Value, len(fns))
	for i, fn := range fns {
		columns[i] = make([]value.Value, df.Len())
		for r := range df.Len() {
			columns[i][r] = fn(Row{df: df, pos: r})
		}
	}
	out, err := df.AddColumns(names, columns)
	if err != nil {
		return err
	}
	*df = *out
	return nil
}
