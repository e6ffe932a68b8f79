// Package dataframe provides the in-memory tabular engine: a row Index, an
// ordered typed schema and a single row-major value buffer, plus the sort,
// join, group and rolling engines that operate on them.
//
// Unless documented as mutating, methods return new DataFrames and leave the
// receiver untouched. Mutating methods are AddRow, InsertRow, the FillNA
// family, SetColumnType, AddCalculatedColumn(s) and Rename.
package dataframe

import (
	"github.com/paveg/tabula/internal/common"
	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/index"
	"github.com/paveg/tabula/internal/validation"
	"github.com/paveg/tabula/internal/value"
)

// DataFrame represents a table of heterogeneous typed columns
type DataFrame struct {
	index  *index.Index
	schema *schema
	values []value.Value
}

var _ validation.ColumnProvider = (*DataFrame)(nil)

// Option configures DataFrame construction
type Option func(*options)

type options struct {
	types     []value.ColType
	keys      []value.Value
	indexName string
	hasIndex  bool
}

// WithTypes fixes the column types instead of inferring them from data
func WithTypes(types ...value.ColType) Option {
	return func(o *options) { o.types = types }
}

// WithIndex sets the row keys and index name. Without it rows are keyed 0..n-1.
func WithIndex(keys []value.Value, name string) Option {
	return func(o *options) {
		o.keys = keys
		o.indexName = name
		o.hasIndex = true
	}
}

// New creates a DataFrame from row-major values.
//
// Every row must hold one value per column. Values are converted to the
// column types; without WithTypes each type is inferred from the first
// non-missing value in the column.
func New(rows [][]value.Value, columns []string, opts ...Option) (*DataFrame, error) {
	const op = "New"
	width := len(columns)
	flat := make([]value.Value, 0, len(rows)*width)
	for i, row := range rows {
		if len(row) != width {
			return nil, errors.NewLengthMismatchError(op, "row "+itoa(i), width, len(row))
		}
		flat = append(flat, row...)
	}
	return build(op, flat, len(rows), columns, opts)
}

// FromColumns creates a DataFrame from column-major data: data[i] holds the
// values of columns[i].
func FromColumns(columns []string, data [][]value.Value, opts ...Option) (*DataFrame, error) {
	const op = "FromColumns"
	if err := validation.ValidateLength(len(columns), len(data), op, "columns"); err != nil {
		return nil, err
	}
	rows := 0
	if len(data) > 0 {
		rows = len(data[0])
	}
	for i, col := range data {
		if len(col) != rows {
			return nil, errors.NewLengthMismatchError(op, "column "+columns[i], rows, len(col))
		}
	}

	width := len(columns)
	flat := make([]value.Value, rows*width)
	for c, col := range data {
		for r, v := range col {
			flat[r*width+c] = v
		}
	}
	return build(op, flat, rows, columns, opts)
}

// CreateEmpty returns a DataFrame with the given columns and no rows
func CreateEmpty(columns []string, opts ...Option) (*DataFrame, error) {
	return build("CreateEmpty", nil, 0, columns, opts)
}

func build(op string, flat []value.Value, rows int, columns []string, opts []Option) (*DataFrame, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if err := validation.ValidateNewColumns(nil, op, columns...); err != nil {
		return nil, err
	}

	ix := index.Range(rows)
	if o.hasIndex {
		var err error
		if ix, err = index.New(o.keys, o.indexName); err != nil {
			return nil, err
		}
		if err := validation.ValidateLength(rows, ix.Len(), op, "index"); err != nil {
			return nil, err
		}
	}

	df := &DataFrame{index: ix, schema: newSchema(columns), values: flat}
	if o.types != nil {
		if err := validation.ValidateLength(len(columns), len(o.types), op, "types"); err != nil {
			return nil, err
		}
		for c, t := range o.types {
			if !t.Valid() {
				return nil, errors.NewUnsupportedTypeError(op, t.String())
			}
			df.schema.setType(c, t)
		}
	}
	if err := df.convertColumns(op); err != nil {
		return nil, err
	}
	df.settleTypes()
	return df, nil
}

// Len returns the number of rows
func (df *DataFrame) Len() int {
	return df.index.Len()
}

// Width returns the number of columns
func (df *DataFrame) Width() int {
	return df.schema.width()
}

// Columns returns the names of all columns in order
func (df *DataFrame) Columns() []string {
	return append([]string{}, df.schema.names...)
}

// HasColumn checks if a column exists
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.schema.position(name)
	return ok
}

// Types returns the column types in column order
func (df *DataFrame) Types() []value.ColType {
	return append([]value.ColType{}, df.schema.types...)
}

// ColumnType returns the type of the named column
func (df *DataFrame) ColumnType(name string) (value.ColType, error) {
	c, ok := df.schema.position(name)
	if !ok {
		return 0, errors.NewColumnNotFoundError("ColumnType", name)
	}
	return df.schema.types[c], nil
}

// Index returns a copy of the row index
func (df *DataFrame) Index() *index.Index {
	return df.index.Clone()
}

// IndexName returns the display name of the row index
func (df *DataFrame) IndexName() string {
	return df.index.Name()
}

// Values returns a row-major copy of all cells
func (df *DataFrame) Values() [][]value.Value {
	out := make([][]value.Value, df.Len())
	for r := range out {
		out[r] = append([]value.Value(nil), df.row(r)...)
	}
	return out
}

// At returns the cell at a row and column position
func (df *DataFrame) At(row, col int) (value.Value, error) {
	if err := validation.NewCompoundValidator(
		validation.NewIndexValidator(row, df.Len(), "At"),
		validation.NewIndexValidator(col, df.Width(), "At"),
	).Validate(); err != nil {
		return value.Missing, err
	}
	return df.cell(row, col), nil
}

// Cell returns the value of the named column at a row position
func (df *DataFrame) Cell(row int, column string) (value.Value, error) {
	c, err := df.positionOf("Cell", column)
	if err != nil {
		return value.Missing, err
	}
	if err := validation.ValidateIndex(row, df.Len(), "Cell"); err != nil {
		return value.Missing, err
	}
	return df.cell(row, c), nil
}

// Row returns a view of the row at position i
func (df *DataFrame) Row(i int) (Row, error) {
	if err := validation.ValidateIndex(i, df.Len(), "Row"); err != nil {
		return Row{}, err
	}
	return Row{df: df, pos: i}, nil
}

// Column returns a copy of the values of the named column
func (df *DataFrame) Column(name string) ([]value.Value, error) {
	c, err := df.positionOf("Column", name)
	if err != nil {
		return nil, err
	}
	return df.column(c), nil
}

// Copy returns an independent deep copy
func (df *DataFrame) Copy() *DataFrame {
	return &DataFrame{
		index:  df.index.Clone(),
		schema: df.schema.clone(),
		values: append([]value.Value(nil), df.values...),
	}
}

// String renders the first DisplayRows rows as a table
func (df *DataFrame) String() string {
	header := append([]string{df.index.Name()}, df.schema.names...)
	rows := make([][]string, df.Len())
	for r := range rows {
		cells := make([]string, 0, df.Width()+1)
		cells = append(cells, df.index.At(r).String())
		for _, v := range df.row(r) {
			cells = append(cells, v.String())
		}
		rows[r] = cells
	}
	return common.FormatTable(header, rows, config.GetGlobalConfig().DisplayRows)
}

// Row is a read-only view of one DataFrame row
type Row struct {
	df  *DataFrame
	pos int
}

// RowFunc computes a value from a row
type RowFunc func(Row) value.Value

// Predicate selects rows
type Predicate func(Row) bool

// Get returns the value of the named column, or Missing when it does not exist
func (r Row) Get(name string) value.Value {
	c, ok := r.df.schema.position(name)
	if !ok {
		return value.Missing
	}
	return r.df.cell(r.pos, c)
}

// At returns the value at a column position
func (r Row) At(col int) value.Value { return r.df.cell(r.pos, col) }

// Position returns the row position within its DataFrame
func (r Row) Position() int { return r.pos }

// Key returns the row's index key
func (r Row) Key() value.Value { return r.df.index.At(r.pos) }

// Values returns a copy of the row's cells
func (r Row) Values() []value.Value {
	return append([]value.Value(nil), r.df.row(r.pos)...)
}
