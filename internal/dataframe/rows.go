package dataframe

import (
	"github.com/paveg/tabula/internal/aggregation"
	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/index"
	"github.com/paveg/tabula/internal/lookup"
	"github.com/paveg/tabula/internal/validation"
	"github.com/paveg/tabula/internal/value"
)

// Head returns the first n rows. n <= 0 uses config DefaultTakeRows.
func (df *DataFrame) Head(n int) *DataFrame {
	n = df.takeCount(n)
	return df.take(span(0, n))
}

// Tail returns the last n rows. n <= 0 uses config DefaultTakeRows.
func (df *DataFrame) Tail(n int) *DataFrame {
	n = df.takeCount(n)
	return df.take(span(df.Len()-n, df.Len()))
}

func (df *DataFrame) takeCount(n int) int {
	if n <= 0 {
		n = config.GetGlobalConfig().DefaultTakeRows
	}
	return min(n, df.Len())
}

// Take returns the rows at the given positions, in that order
func (df *DataFrame) Take(positions ...int) (*DataFrame, error) {
	for _, p := range positions {
		if err := validation.ValidateIndex(p, df.Len(), "Take"); err != nil {
			return nil, err
		}
	}
	return df.take(positions), nil
}

// TakeEvery returns every n-th row (rows n-1, 2n-1, ...). With includeLast
// the final row is added when it was not already taken.
func (df *DataFrame) TakeEvery(n int, includeLast bool) (*DataFrame, error) {
	if n < 1 {
		return nil, errors.NewInvalidInputError("TakeEvery", "step must be at least 1")
	}
	var positions []int
	for i := n - 1; i < df.Len(); i += n {
		positions = append(positions, i)
	}
	last := df.Len() - 1
	if includeLast && last >= 0 && (len(positions) == 0 || positions[len(positions)-1] != last) {
		positions = append(positions, last)
	}
	return df.take(positions), nil
}

// TakeRandom returns n rows drawn without replacement, in source order.
// The draw follows config RandomSeed. n >= Len returns a copy.
func (df *DataFrame) TakeRandom(n int) (*DataFrame, error) {
	if n < 0 {
		return nil, errors.NewInvalidInputError("TakeRandom", "count cannot be negative")
	}
	if n >= df.Len() {
		return df.Copy(), nil
	}
	rng := aggregation.NewRand(config.GetGlobalConfig().RandomSeed)
	chosen := make([]bool, df.Len())
	for _, p := range rng.Perm(df.Len())[:n] {
		chosen[p] = true
	}
	positions := make([]int, 0, n)
	for p, ok := range chosen {
		if ok {
			positions = append(positions, p)
		}
	}
	return df.take(positions), nil
}

// Except returns the rows that are not equal to any row of other.
// Both DataFrames must have the same columns.
func (df *DataFrame) Except(other *DataFrame) (*DataFrame, error) {
	const op = "Except"
	if other == nil {
		return nil, errors.NewInvalidInputError(op, "other DataFrame cannot be nil")
	}
	if err := sameColumns(op, df, other); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, other.Len())
	for r := range other.Len() {
		seen[rowKey(other.row(r))] = struct{}{}
	}
	var positions []int
	for r := range df.Len() {
		if _, ok := seen[rowKey(df.row(r))]; !ok {
			positions = append(positions, r)
		}
	}
	return df.take(positions), nil
}

func rowKey(row []value.Value) string {
	var buf []byte
	for _, v := range row {
		buf = value.AppendKey(buf, v)
	}
	return string(buf)
}

func sameColumns(op string, a, b *DataFrame) error {
	if err := validation.ValidateLength(a.Width(), b.Width(), op, "columns"); err != nil {
		return err
	}
	for c, name := range a.schema.names {
		if b.schema.names[c] != name {
			return errors.NewColumnNotFoundError(op, name).WithHint("columns must match in name and order")
		}
	}
	return nil
}

// AddRow appends a row in place. Without a key the row is keyed by the
// row count before the call.
func (df *DataFrame) AddRow(values []value.Value, key ...value.Value) error {
	return df.InsertRow(-1, values, key...)
}

// InsertRow inserts a row at pos in place; pos -1 appends.
func (df *DataFrame) InsertRow(pos int, values []value.Value, key ...value.Value) error {
	const op = "InsertRow"
	if pos == -1 {
		pos = df.Len()
	}
	if err := validation.NewCompoundValidator(
		validation.NewIndexValidator(pos, df.Len()+1, op),
		validation.NewLengthValidator(df.Width(), len(values), op, "row"),
	).Validate(); err != nil {
		return err
	}
	if len(key) > 1 {
		return errors.NewInvalidInputError(op, "at most one index key can be given")
	}
	row, err := df.convertRow(op, values)
	if err != nil {
		return err
	}
	k := value.Int32(int32(df.Len()))
	if len(key) == 1 {
		k = key[0]
	}

	w := df.Width()
	df.values = append(df.values, row...)
	copy(df.values[(pos+1)*w:], df.values[pos*w:len(df.values)-w])
	copy(df.values[pos*w:(pos+1)*w], row)
	if err := df.index.Insert(pos, k); err != nil {
		return err
	}
	df.settleTypes()
	return nil
}

// Append returns the rows of df followed by the rows of other. Both must
// have the same number of columns; other's values are converted to df's
// column types.
func (df *DataFrame) Append(other *DataFrame) (*DataFrame, error) {
	const op = "Append"
	if other == nil {
		return nil, errors.NewInvalidInputError(op, "other DataFrame cannot be nil")
	}
	if err := validation.ValidateLength(df.Width(), other.Width(), op, "columns"); err != nil {
		return nil, err
	}
	out := df.Copy()
	for r := range other.Len() {
		row, err := out.convertRow(op, other.row(r))
		if err != nil {
			return nil, err
		}
		out.values = append(out.values, row...)
	}
	out.index.AppendIndex(other.index)
	out.settleTypes()
	return out, nil
}

// AppendHorizontal returns df with the columns of other appended. Both must
// have the same number of rows.
func (df *DataFrame) AppendHorizontal(other *DataFrame) (*DataFrame, error) {
	const op = "AppendHorizontal"
	if other == nil {
		return nil, errors.NewInvalidInputError(op, "other DataFrame cannot be nil")
	}
	if err := validation.ValidateLength(df.Len(), other.Len(), op, "rows"); err != nil {
		return nil, err
	}
	columns := make([][]value.Value, other.Width())
	for c := range columns {
		columns[c] = other.column(c)
	}
	out, err := df.AddColumns(other.Columns(), columns)
	if err != nil {
		return nil, err
	}
	for i, c := range span(df.Width(), out.Width()) {
		if other.schema.settled[i] {
			if err := out.SetColumnType(out.schema.names[c], other.schema.types[i]); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// SetIndex returns a new DataFrame keyed by the values of column, which is
// removed from the columns. The index takes the column's name.
func (df *DataFrame) SetIndex(column string) (*DataFrame, error) {
	const op = "SetIndex"
	c, err := df.positionOf(op, column)
	if err != nil {
		return nil, err
	}
	keys := df.column(c)
	for _, k := range keys {
		if k.IsMissing() {
			return nil, errors.NewValidationError(op, column, "index column cannot contain missing values")
		}
	}
	out, err := df.Drop(column)
	if err != nil {
		return nil, err
	}
	if out.index, err = index.New(keys, column); err != nil {
		return nil, err
	}
	return out, nil
}

// ResetIndex returns a new DataFrame keyed 0..n-1. Unless drop is set the
// old keys become the first column, named after the index.
func (df *DataFrame) ResetIndex(drop bool) (*DataFrame, error) {
	out := df
	if !drop {
		var err error
		if out, err = df.InsertColumn(0, df.index.Name(), df.index.Keys()); err != nil {
			return nil, err
		}
	}
	if out == df {
		out = df.Copy()
	}
	out.index = index.Range(df.Len())
	return out, nil
}

// Positions returns the row positions whose values in columns equal key
func (df *DataFrame) Positions(columns []string, key ...value.Value) ([]int, error) {
	const op = "Positions"
	if err := validation.NewCompoundValidator(
		validation.NewArityValidator(len(columns), 1, lookup.MaxKeys, op),
		validation.NewLengthValidator(len(columns), len(key), op, "key"),
		validation.NewColumnValidator(df, op, columns...),
	).Validate(); err != nil {
		return nil, err
	}
	cols, _ := df.positionsOf(op, columns...)
	data := make([][]value.Value, len(cols))
	for i, c := range cols {
		data[i] = df.column(c)
	}
	lk, err := lookup.FromColumns(data...)
	if err != nil {
		return nil, err
	}
	return append([]int(nil), lk.Positions(key...)...), nil
}

func span(from, to int) []int {
	out := make([]int, 0, max(to-from, 0))
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
