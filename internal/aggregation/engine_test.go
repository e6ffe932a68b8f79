package aggregation_test

import (
	"testing"
	"time"

	"github.com/paveg/tabula/internal/aggregation"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int32s(xs ...int32) []value.Value {
	out := make([]value.Value, len(xs))
	for i, x := range xs {
		out[i] = value.Int32(x)
	}
	return out
}

func TestReduce_AvgRounding(t *testing.T) {
	got, err := aggregation.Reduce(int32s(1, 2, 4, 8, 16, 32, 64), aggregation.Avg, value.TypeInt32)
	require.NoError(t, err)
	assert.Equal(t, value.Float64(18.142857), got)
}

func TestReduce_Numeric(t *testing.T) {
	engine := aggregation.NewEngine(aggregation.WithPrecision(6))
	values := int32s(5, 1, 4, 2, 3)

	tests := []struct {
		kind     aggregation.Kind
		expected value.Value
	}{
		{aggregation.Count, value.Int64(5)},
		{aggregation.Unique, value.Int64(5)},
		{aggregation.First, value.Int32(5)},
		{aggregation.Last, value.Int32(3)},
		{aggregation.Sum, value.Int32(15)},
		{aggregation.Avg, value.Float64(3)},
		{aggregation.Min, value.Int32(1)},
		{aggregation.Max, value.Int32(5)},
		{aggregation.Std, value.Float64(1.581139)},
		{aggregation.Median, value.Float64(3)},
		{aggregation.FirstQuartile, value.Float64(2)},
		{aggregation.ThirdQuartile, value.Float64(4)},
		{aggregation.None, value.Missing},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, err := engine.Reduce(values, tt.kind, value.TypeInt32)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestReduce_PercentileInterpolation(t *testing.T) {
	values := value.Values(1.0, 2.0, 3.0, 4.0)

	median, err := aggregation.Reduce(values, aggregation.Median, value.TypeFloat64)
	require.NoError(t, err)
	assert.Equal(t, value.Float64(2.5), median)

	q1, err := aggregation.Reduce(values, aggregation.FirstQuartile, value.TypeFloat64)
	require.NoError(t, err)
	assert.Equal(t, value.Float64(1.75), q1)

	q3, err := aggregation.Reduce(values, aggregation.ThirdQuartile, value.TypeFloat64)
	require.NoError(t, err)
	assert.Equal(t, value.Float64(3.25), q3)
}

func TestReduce_Float32KeepsWidth(t *testing.T) {
	values := []value.Value{value.Float32(1.5), value.Float32(2.5)}

	sum, err := aggregation.Reduce(values, aggregation.Sum, value.TypeFloat32)
	require.NoError(t, err)
	assert.Equal(t, value.Float32(4), sum)

	avg, err := aggregation.Reduce(values, aggregation.Avg, value.TypeFloat32)
	require.NoError(t, err)
	assert.Equal(t, value.Float32(2), avg)
}

func TestReduce_TypeGating(t *testing.T) {
	strs := value.Values("a", "b", "a")

	for _, kind := range []aggregation.Kind{aggregation.Sum, aggregation.Avg, aggregation.Std,
		aggregation.Min, aggregation.Max, aggregation.Median} {
		got, err := aggregation.Reduce(strs, kind, value.TypeStr)
		require.NoError(t, err)
		assert.True(t, got.IsMissing(), kind.String())
		assert.False(t, aggregation.Supported(kind, value.TypeStr))
	}

	top, err := aggregation.Reduce(strs, aggregation.Top, value.TypeStr)
	require.NoError(t, err)
	assert.Equal(t, value.String("a"), top)

	assert.True(t, aggregation.Supported(aggregation.Min, value.TypeDateTime))
	assert.False(t, aggregation.Supported(aggregation.Sum, value.TypeDateTime))
	assert.True(t, aggregation.Supported(aggregation.Count, value.TypeBool))
}

func TestReduce_TopFrequencyTies(t *testing.T) {
	values := value.Values("x", "y", "y", "x", "z", nil, nil, nil)

	top, err := aggregation.Reduce(values, aggregation.Top, value.TypeStr)
	require.NoError(t, err)
	assert.Equal(t, value.String("x"), top)

	mode, err := aggregation.Reduce(values, aggregation.Mode, value.TypeStr)
	require.NoError(t, err)
	assert.Equal(t, top, mode)

	freq, err := aggregation.Reduce(values, aggregation.Frequency, value.TypeStr)
	require.NoError(t, err)
	assert.Equal(t, value.Int64(2), freq)

	unique, err := aggregation.Reduce(values, aggregation.Unique, value.TypeStr)
	require.NoError(t, err)
	assert.Equal(t, value.Int64(4), unique)
}

func TestReduce_MissingHandling(t *testing.T) {
	values := value.Values(int32(2), nil, int32(4))

	avg, err := aggregation.Reduce(values, aggregation.Avg, value.TypeInt32)
	require.NoError(t, err)
	assert.Equal(t, value.Float64(3), avg)

	count, err := aggregation.Reduce(values, aggregation.Count, value.TypeInt32)
	require.NoError(t, err)
	assert.Equal(t, value.Int64(3), count)

	allMissing := value.Values(nil, nil)
	sum, err := aggregation.Reduce(allMissing, aggregation.Sum, value.TypeFloat64)
	require.NoError(t, err)
	assert.True(t, sum.IsMissing())

	std, err := aggregation.Reduce(int32s(7), aggregation.Std, value.TypeInt32)
	require.NoError(t, err)
	assert.True(t, std.IsMissing())
}

func TestReduce_EmptyInput(t *testing.T) {
	for _, kind := range []aggregation.Kind{aggregation.Count, aggregation.Unique, aggregation.Frequency} {
		got, err := aggregation.Reduce(nil, kind, value.TypeInt64)
		require.NoError(t, err)
		assert.Equal(t, value.Int64(0), got, kind.String())
	}
	for _, kind := range []aggregation.Kind{aggregation.First, aggregation.Last, aggregation.Random,
		aggregation.Top, aggregation.Sum, aggregation.Avg, aggregation.Min, aggregation.Median} {
		got, err := aggregation.Reduce(nil, kind, value.TypeInt64)
		require.NoError(t, err)
		assert.True(t, got.IsMissing(), kind.String())
	}
}

func TestReduce_DateTime(t *testing.T) {
	d := func(day int) value.Value {
		return value.DateTime(time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC))
	}
	values := []value.Value{d(3), d(1), d(2), d(4)}

	minV, err := aggregation.Reduce(values, aggregation.Min, value.TypeDateTime)
	require.NoError(t, err)
	assert.Equal(t, d(1), minV)

	median, err := aggregation.Reduce(values, aggregation.Median, value.TypeDateTime)
	require.NoError(t, err)
	assert.Equal(t, value.DateTime(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)), median)
}

func TestReduce_RandomIsSeeded(t *testing.T) {
	values := int32s(10, 20, 30, 40, 50)

	a := aggregation.NewEngine(aggregation.WithRand(aggregation.NewRand(42)))
	b := aggregation.NewEngine(aggregation.WithRand(aggregation.NewRand(42)))

	for range 10 {
		x, err := a.Reduce(values, aggregation.Random, value.TypeInt32)
		require.NoError(t, err)
		y, err := b.Reduce(values, aggregation.Random, value.TypeInt32)
		require.NoError(t, err)
		assert.Equal(t, x, y)
		assert.Contains(t, values, x)
	}
}

func TestReduce_Errors(t *testing.T) {
	_, err := aggregation.Reduce(int32s(1), aggregation.Kind(99), value.TypeInt32)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindUnsupported))

	_, err = aggregation.Reduce(int32s(1), aggregation.Sum, value.ColType(99))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindUnsupported))
}

func TestParseKind(t *testing.T) {
	k, err := aggregation.ParseKind("avg")
	require.NoError(t, err)
	assert.Equal(t, aggregation.Avg, k)

	k, err = aggregation.ParseKind("25%")
	require.NoError(t, err)
	assert.Equal(t, aggregation.FirstQuartile, k)

	_, err = aggregation.ParseKind("variance")
	require.Error(t, err)
}
