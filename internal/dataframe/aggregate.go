package dataframe

import (
	"slices"

	"github.com/paveg/tabula/internal/aggregation"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/index"
	"github.com/paveg/tabula/internal/validation"
	"github.com/paveg/tabula/internal/value"
)

// ResultType returns the column type of kind reduced over a column typed t
func ResultType(kind aggregation.Kind, t value.ColType) value.ColType {
	switch kind {
	case aggregation.Count, aggregation.Unique, aggregation.Frequency:
		return value.TypeInt64
	case aggregation.Avg:
		if t == value.TypeFloat32 {
			return t
		}
		return value.TypeFloat64
	case aggregation.Std:
		return value.TypeFloat64
	case aggregation.Median, aggregation.FirstQuartile, aggregation.ThirdQuartile:
		if t == value.TypeDateTime {
			return t
		}
		return value.TypeFloat64
	default:
		return t
	}
}

// Aggregate reduces each column named in spec to a single value and returns
// them as a one-row DataFrame in schema column order.
func (df *DataFrame) Aggregate(spec map[string]aggregation.Kind) (*DataFrame, error) {
	const op = "Aggregate"
	if len(spec) == 0 {
		return nil, errors.NewInvalidInputError(op, "aggregation map cannot be empty")
	}
	for name := range spec {
		if !df.HasColumn(name) {
			return nil, errors.NewColumnNotFoundError(op, name)
		}
	}

	var names []string
	var row []value.Value
	var types []value.ColType
	err := record(op, df.Len(), func() error {
		for c, name := range df.schema.names {
			kind, ok := spec[name]
			if !ok {
				continue
			}
			v, err := aggregation.Reduce(df.column(c), kind, df.schema.types[c])
			if err != nil {
				return err
			}
			names = append(names, name)
			row = append(row, v)
			types = append(types, ResultType(kind, df.schema.types[c]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return New([][]value.Value{row}, names, WithTypes(types...))
}

// AggregateMany reduces columns with several kinds each. The result has one
// row per distinct kind, keyed by the kind name; a column not reduced with a
// kind holds Missing in that row.
func (df *DataFrame) AggregateMany(spec map[string][]aggregation.Kind) (*DataFrame, error) {
	const op = "AggregateMany"
	if len(spec) == 0 {
		return nil, errors.NewInvalidInputError(op, "aggregation map cannot be empty")
	}
	var kinds []aggregation.Kind
	for name, ks := range spec {
		if !df.HasColumn(name) {
			return nil, errors.NewColumnNotFoundError(op, name)
		}
		for _, k := range ks {
			if !slices.Contains(kinds, k) {
				kinds = append(kinds, k)
			}
		}
	}
	slices.Sort(kinds)

	var cols []int
	for c, name := range df.schema.names {
		if _, ok := spec[name]; ok {
			cols = append(cols, c)
		}
	}
	var result *DataFrame
	err := record(op, df.Len(), func() error {
		var err error
		result, err = df.summarize(cols, kinds, func(c int, k aggregation.Kind) bool {
			return slices.Contains(spec[df.schema.names[c]], k)
		})
		return err
	})
	return result, err
}

// Describe summarizes columns with Count, Unique, Top, Frequency, Avg, Std,
// Min, 25%, Median, 75% and Max, one row per statistic. With no columns
// every column is described; numericOnly restricts to numeric columns.
func (df *DataFrame) Describe(numericOnly bool, columns ...string) (*DataFrame, error) {
	const op = "Describe"
	if err := validation.ValidateNotEmpty(df, op); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		columns = df.schema.names
	}
	positions, err := df.positionsOf(op, columns...)
	if err != nil {
		return nil, err
	}
	var cols []int
	for _, c := range positions {
		if numericOnly && !df.schema.types[c].IsNumeric() {
			continue
		}
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		return nil, errors.NewInvalidInputError(op, "no columns to describe")
	}

	var result *DataFrame
	err = record(op, df.Len(), func() error {
		var err error
		result, err = df.summarize(cols, aggregation.DescribeKinds, func(int, aggregation.Kind) bool { return true })
		return err
	})
	return result, err
}

// summarize builds a kinds x cols table of reductions. Cells keep the kind
// of their result; columns report Float64 when numeric and their source
// type otherwise.
func (df *DataFrame) summarize(cols []int, kinds []aggregation.Kind, wants func(c int, k aggregation.Kind) bool) (*DataFrame, error) {
	values := make([]value.Value, 0, len(kinds)*len(cols))
	keys := make([]value.Value, len(kinds))
	for i, k := range kinds {
		keys[i] = value.String(k.String())
		for _, c := range cols {
			if !wants(c, k) {
				values = append(values, value.Missing)
				continue
			}
			v, err := aggregation.Reduce(df.column(c), k, df.schema.types[c])
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
	}

	sch := df.schema.project(cols)
	for i, t := range sch.types {
		if t.IsNumeric() {
			sch.setType(i, value.TypeFloat64)
		}
	}
	ix, err := index.New(keys, index.DefaultName)
	if err != nil {
		return nil, err
	}
	return &DataFrame{index: ix, schema: sch, values: values}, nil
}
