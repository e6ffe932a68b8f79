package series

import (
	"math"
	"slices"

	"github.com/paveg/tabula/internal/aggregation"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/value"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ToDataFrame returns a one-column DataFrame holding s under its name and index
func (s *Series) ToDataFrame() (*dataframe.DataFrame, error) {
	return dataframe.FromColumns([]string{s.name}, [][]value.Value{s.values},
		dataframe.WithTypes(s.colType),
		dataframe.WithIndex(s.index.Keys(), s.index.Name()))
}

// FromDataFrame returns column of df as a Series sharing df's index keys
func FromDataFrame(df *dataframe.DataFrame, column string) (*Series, error) {
	if df == nil {
		return nil, errors.NewInvalidInputError("FromDataFrame", "DataFrame cannot be nil")
	}
	values, err := df.Column(column)
	if err != nil {
		return nil, err
	}
	t, err := df.ColumnType(column)
	if err != nil {
		return nil, err
	}
	return New(column, values, WithType(t), WithIndex(df.Index().Keys(), df.IndexName()))
}

// viaFrame runs fn on the one-column DataFrame of s and reads the column back
func (s *Series) viaFrame(fn func(df *dataframe.DataFrame) (*dataframe.DataFrame, error)) (*Series, error) {
	df, err := s.ToDataFrame()
	if err != nil {
		return nil, err
	}
	out, err := fn(df)
	if err != nil {
		return nil, err
	}
	return FromDataFrame(out, s.name)
}

// Rolling reduces a sliding window of window values with kind. Until the
// window is full values are Missing (the running count for Count).
func (s *Series) Rolling(window int, kind aggregation.Kind) (*Series, error) {
	if !aggregation.Supported(kind, s.colType) {
		return nil, errors.NewUnsupportedError("Rolling", s.name,
			kind.String()+" is not defined for "+s.colType.String()+" series")
	}
	return s.viaFrame(func(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
		return df.Rolling(window, map[string]aggregation.Kind{s.name: kind})
	})
}

// DropNA returns s without its missing values
func (s *Series) DropNA() (*Series, error) {
	return s.viaFrame(func(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
		return df.DropNA()
	})
}

// FillNA returns a copy with missing values replaced by v
func (s *Series) FillNA(v value.Value) (*Series, error) {
	return s.viaFrame(func(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
		return df, df.FillNAColumn(s.name, v)
	})
}

// FillNAWithAgg returns a copy with missing values replaced by kind reduced
// over the present values.
func (s *Series) FillNAWithAgg(kind aggregation.Kind) (*Series, error) {
	return s.viaFrame(func(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
		return df, df.FillNAWithAgg(s.name, kind)
	})
}

// FillNAFunc returns a copy with the missing value at position i replaced
// by fn(i).
func (s *Series) FillNAFunc(fn func(i int) value.Value) (*Series, error) {
	return s.viaFrame(func(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
		return df, df.FillNAFunc(s.name, fn)
	})
}

// Aggregate reduces s with kind
func (s *Series) Aggregate(kind aggregation.Kind) (value.Value, error) {
	df, err := s.ToDataFrame()
	if err != nil {
		return value.Missing, err
	}
	agg, err := df.Aggregate(map[string]aggregation.Kind{s.name: kind})
	if err != nil {
		return value.Missing, err
	}
	return agg.At(0, 0)
}

func (s *Series) numbers() []float64 {
	xs := make([]float64, 0, s.Len())
	for _, v := range s.values {
		if f, ok := v.Float(); ok && v.IsNumeric() {
			xs = append(xs, f)
		}
	}
	return xs
}

// Sum returns the sum of the numeric values, NaN when there are none
func (s *Series) Sum() float64 {
	xs := s.numbers()
	if len(xs) == 0 {
		return math.NaN()
	}
	return floats.Sum(xs)
}

// Mean returns the mean of the numeric values, NaN when there are none
func (s *Series) Mean() float64 {
	xs := s.numbers()
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// Median returns the middle numeric value, averaging the two middle ones
// for an even count. NaN when there are none.
func (s *Series) Median() float64 {
	xs := s.numbers()
	if len(xs) == 0 {
		return math.NaN()
	}
	slices.Sort(xs)
	mid := len(xs) / 2
	if len(xs)%2 == 0 {
		return (xs[mid-1] + xs[mid]) / 2
	}
	return xs[mid]
}
