// Package series provides a single named column with its own row index
package series

import (
	"fmt"

	"github.com/paveg/tabula/internal/common"
	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/index"
	"github.com/paveg/tabula/internal/validation"
	"github.com/paveg/tabula/internal/value"
)

// DefaultName names a Series built without one
const DefaultName = "series"

// Series represents one typed column of values keyed by an index.
// len(values) always equals index.Len().
type Series struct {
	name    string
	index   *index.Index
	colType value.ColType
	values  []value.Value
}

// Option configures New
type Option func(*options)

type options struct {
	colType   value.ColType
	hasType   bool
	keys      []value.Value
	indexName string
	hasIndex  bool
}

// WithType fixes the column type; values are converted to it
func WithType(t value.ColType) Option {
	return func(o *options) {
		o.colType = t
		o.hasType = true
	}
}

// WithIndex keys the values with keys instead of 0..n-1
func WithIndex(keys []value.Value, name string) Option {
	return func(o *options) {
		o.keys = keys
		o.indexName = name
		o.hasIndex = true
	}
}

// New creates a Series from values. Without WithType the type is taken from
// the first non-missing value, or Str when every value is missing.
func New(name string, values []value.Value, opts ...Option) (*Series, error) {
	const op = "NewSeries"
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if name == "" {
		name = DefaultName
	}

	ix := index.Range(len(values))
	if o.hasIndex {
		var err error
		if ix, err = index.New(o.keys, o.indexName); err != nil {
			return nil, err
		}
		if err := validation.ValidateLength(len(values), ix.Len(), op, "index"); err != nil {
			return nil, err
		}
	}

	t := o.colType
	if !o.hasType {
		t, _ = value.Infer(values)
	}
	if !t.Valid() {
		return nil, errors.NewUnsupportedTypeError(op, t.String())
	}
	converted := make([]value.Value, len(values))
	for i, v := range values {
		c, err := value.Convert(v, t)
		if err != nil {
			return nil, errors.NewTypeConversionError(op, name, t.String(), err)
		}
		converted[i] = c
	}
	return &Series{name: name, index: ix, colType: t, values: converted}, nil
}

// FromSlice creates a Series from a slice of Go values such as []int32 or
// []string.
func FromSlice[T any](name string, data []T, opts ...Option) (*Series, error) {
	values, err := value.FromSlice(data)
	if err != nil {
		return nil, errors.NewInvalidInputError("FromSlice", err.Error())
	}
	return New(name, values, opts...)
}

// derive builds a Series sharing s's name and type over new values and keys
func (s *Series) derive(values []value.Value, ix *index.Index) *Series {
	return &Series{name: s.name, index: ix, colType: s.colType, values: values}
}

// Name returns the column name
func (s *Series) Name() string {
	return s.name
}

// Rename returns a copy of s under a new name
func (s *Series) Rename(name string) *Series {
	out := s.Copy()
	out.name = name
	return out
}

// Len returns the number of values
func (s *Series) Len() int {
	return len(s.values)
}

// Type returns the column type
func (s *Series) Type() value.ColType {
	return s.colType
}

// Index returns a copy of the row index
func (s *Series) Index() *index.Index {
	return s.index.Clone()
}

// Values returns a copy of the values
func (s *Series) Values() []value.Value {
	return append([]value.Value(nil), s.values...)
}

// At returns the value at position i
func (s *Series) At(i int) (value.Value, error) {
	if err := validation.ValidateIndex(i, s.Len(), "At"); err != nil {
		return value.Missing, err
	}
	return s.values[i], nil
}

// Loc returns the value at the first row keyed by key
func (s *Series) Loc(key value.Value) (value.Value, error) {
	i := s.index.IndexOf(key)
	if i == index.NotFound {
		return value.Missing, errors.NewInvalidInputError("Loc", "index key "+key.String()+" not found")
	}
	return s.values[i], nil
}

// IsNull reports whether the value at position i is missing
func (s *Series) IsNull(i int) bool {
	return i >= 0 && i < s.Len() && s.values[i].IsMissing()
}

// Copy returns an independent copy
func (s *Series) Copy() *Series {
	return s.derive(s.Values(), s.index.Clone())
}

// Take returns the values at the given positions, in that order
func (s *Series) Take(positions ...int) (*Series, error) {
	values := make([]value.Value, len(positions))
	for i, p := range positions {
		if err := validation.ValidateIndex(p, s.Len(), "Take"); err != nil {
			return nil, err
		}
		values[i] = s.values[p]
	}
	return s.derive(values, s.index.Take(positions)), nil
}

// Filter returns the values for which keep is true, with their keys
func (s *Series) Filter(keep func(value.Value) bool) (*Series, error) {
	if keep == nil {
		return nil, errors.NewInvalidInputError("Filter", "predicate cannot be nil")
	}
	var positions []int
	for i, v := range s.values {
		if keep(v) {
			positions = append(positions, i)
		}
	}
	return s.Take(positions...)
}

// AppendVertical returns s followed by other. Both must have the same type.
func (s *Series) AppendVertical(other *Series) (*Series, error) {
	const op = "AppendVertical"
	if other == nil {
		return nil, errors.NewInvalidInputError(op, "other Series cannot be nil")
	}
	if other.colType != s.colType {
		return nil, errors.NewUnsupportedTypeError(op,
			fmt.Sprintf("cannot append %s to %s", other.colType, s.colType))
	}
	values := make([]value.Value, 0, s.Len()+other.Len())
	values = append(values, s.values...)
	values = append(values, other.values...)
	ix := s.index.Clone()
	ix.AppendIndex(other.index)
	return s.derive(values, ix), nil
}

// MissingValues returns the number of missing values
func (s *Series) MissingValues() int {
	n := 0
	for _, v := range s.values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// String renders the Series as an index/value table
func (s *Series) String() string {
	rows := make([][]string, s.Len())
	for i, v := range s.values {
		rows[i] = []string{s.index.At(i).String(), v.String()}
	}
	header := []string{s.index.Name(), s.name + " (" + s.colType.String() + ")"}
	return common.FormatTable(header, rows, config.GetGlobalConfig().DisplayRows)
}
