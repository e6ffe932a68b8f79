package dataframe

import (
	"testing"

	dferrors "github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClip(t *testing.T) {
	df := people(t)

	clipped, err := df.Clip(value.Int64(28), value.Float64(32.5), "age")
	require.NoError(t, err)
	ages, err := clipped.Column("age")
	require.NoError(t, err)
	assert.Equal(t, value.Values(int32(28), int32(30), int32(32), nil), ages)

	open, err := df.Clip(value.Missing, value.Int64(52000))
	require.NoError(t, err)
	salaries, err := open.Column("salary")
	require.NoError(t, err)
	assert.Equal(t, value.Values(50000.0, 52000.0, nil, 52000.0), salaries)
	names, err := open.Column("name")
	require.NoError(t, err)
	assert.Equal(t, value.Values("Alice", "Bob", "Charlie", "Diana"), names)

	original, err := df.Column("age")
	require.NoError(t, err)
	assert.Equal(t, value.Values(int32(25), int32(30), int32(35), nil), original)

	_, err = df.Clip(value.Int64(5), value.Int64(1))
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
	_, err = df.Clip(value.Int64(1), value.Int64(5), "nope")
	assert.True(t, dferrors.IsKind(err, dferrors.KindSchema))
}

func TestShift(t *testing.T) {
	df := mustColumns(t, []string{"v"}, value.Values(int32(1), int32(2), int32(3), int32(4)))

	out, err := df.Shift(
		ShiftSpec{Column: "v", NewName: "lag", Steps: 1},
		ShiftSpec{Column: "v", NewName: "lead", Steps: -2},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"v", "lag", "lead"}, out.Columns())
	assert.Equal(t, []value.ColType{value.TypeInt32, value.TypeInt32, value.TypeInt32}, out.Types())
	assert.Equal(t, [][]value.Value{
		value.Values(int32(1), nil, int32(3)),
		value.Values(int32(2), int32(1), int32(4)),
		value.Values(int32(3), int32(2), nil),
		value.Values(int32(4), int32(3), nil),
	}, out.Values())

	wide, err := df.Shift(ShiftSpec{Column: "v", NewName: "far", Steps: 10})
	require.NoError(t, err)
	assert.Equal(t, value.TypeInt32, wide.Types()[1])

	tests := []struct {
		name string
		spec ShiftSpec
		kind dferrors.Kind
	}{
		{"zero steps", ShiftSpec{Column: "v", NewName: "x"}, dferrors.KindArgument},
		{"unknown column", ShiftSpec{Column: "nope", NewName: "x", Steps: 1}, dferrors.KindSchema},
		{"existing name", ShiftSpec{Column: "v", NewName: "v", Steps: 1}, dferrors.KindSchema},
		{"empty name", ShiftSpec{Column: "v", Steps: 1}, dferrors.KindArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := df.Shift(tt.spec)
			require.Error(t, err)
			assert.True(t, dferrors.IsKind(err, tt.kind), "got %v", err)
		})
	}

	_, err = df.Shift()
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
}

func TestDiff(t *testing.T) {
	df := mustNew(t, [][]value.Value{
		value.Values(int32(1), 1.0, "a"),
		value.Values(int32(4), 2.5, "b"),
		value.Values(int32(9), nil, "c"),
		value.Values(int32(16), 7.0, "d"),
		value.Values(int32(25), 8.0, "e"),
	}, []string{"sq", "f", "s"})

	seasonal, err := df.Diff(2, Seasonal)
	require.NoError(t, err)
	sq, err := seasonal.Column("sq")
	require.NoError(t, err)
	assert.Equal(t, value.Values(nil, nil, int32(8), int32(12), int32(16)), sq)
	f, err := seasonal.Column("f")
	require.NoError(t, err)
	assert.Equal(t, value.Values(nil, nil, nil, 4.5, nil), f)
	s, err := seasonal.Column("s")
	require.NoError(t, err)
	assert.Equal(t, value.Values("a", "b", "c", "d", "e"), s)

	recursive, err := df.Diff(2, Recursive, "sq")
	require.NoError(t, err)
	sq, err = recursive.Column("sq")
	require.NoError(t, err)
	assert.Equal(t, value.Values(nil, nil, int32(2), int32(2), int32(2)), sq)
	f, err = recursive.Column("f")
	require.NoError(t, err)
	assert.Equal(t, value.Values(1.0, 2.5, nil, 7.0, 8.0), f)

	_, err = df.Diff(0, Seasonal)
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
	_, err = df.Diff(1, DiffType(9))
	assert.True(t, dferrors.IsKind(err, dferrors.KindUnsupported))
	_, err = df.Diff(1, Seasonal, "nope")
	assert.True(t, dferrors.IsKind(err, dferrors.KindSchema))

	assert.Equal(t, "Recursive", Recursive.String())
}

func TestCreateTimeSeries(t *testing.T) {
	df := mustNew(t, [][]value.Value{
		value.Values(int32(1), "a"),
		value.Values(int32(2), "b"),
		value.Values(int32(3), "c"),
		value.Values(int32(4), "d"),
		value.Values(int32(5), "e"),
	}, []string{"x", "y"}, WithIndex(value.Values(10, 20, 30, 40, 50), "t"))

	t.Run("single step ahead", func(t *testing.T) {
		ts, err := df.CreateTimeSeries(2, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"x_lag2", "x_lag1", "x", "y_lag2", "y_lag1", "y"}, ts.Columns())
		assert.Equal(t, [][]value.Value{
			value.Values(int32(1), int32(2), int32(3), "a", "b", "c"),
			value.Values(int32(2), int32(3), int32(4), "b", "c", "d"),
			value.Values(int32(3), int32(4), int32(5), "c", "d", "e"),
		}, ts.Values())
		assert.Equal(t, value.Values(30, 40, 50), ts.Index().Keys())
		assert.Equal(t, "t", ts.IndexName())
		assert.Equal(t, value.TypeInt32, ts.Types()[0])
	})

	t.Run("several steps ahead", func(t *testing.T) {
		ts, err := df.CreateTimeSeries(1, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"x_lag1", "x_t1", "x_t2", "y_lag1", "y_t1", "y_t2"}, ts.Columns())
		assert.Equal(t, 3, ts.Len())
		assert.Equal(t, value.Values(int32(2), int32(3), int32(4), "b", "c", "d"), ts.Values()[1])
		assert.Equal(t, value.Values(20, 30, 40), ts.Index().Keys())
	})

	t.Run("window longer than data", func(t *testing.T) {
		ts, err := df.CreateTimeSeries(4, 3)
		require.NoError(t, err)
		assert.Equal(t, 0, ts.Len())
		assert.Equal(t, 14, ts.Width())
	})

	_, err := df.CreateTimeSeries(-1, 1)
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
	_, err = df.CreateTimeSeries(1, 0)
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
}

func TestPurity(t *testing.T) {
	df := people(t)
	before := df.Copy()

	_, _ = df.SortBy(Descending, "age")
	_, _ = df.Select("name")
	_, _ = df.Filter([]string{"age"}, value.Values(30), []Operator{Greater})
	_, _ = df.DropNA()
	_, _ = df.Clip(value.Int64(0), value.Int64(1))
	_, _ = df.Shift(ShiftSpec{Column: "age", NewName: "prev", Steps: 1})
	_, _ = df.Diff(1, Seasonal)
	_, _ = df.Append(df)
	_, _ = df.SetIndex("name")
	_, _ = df.ResetIndex(false)
	_, _ = df.Describe(false)

	assert.Equal(t, before.Columns(), df.Columns())
	assert.Equal(t, before.Types(), df.Types())
	assert.Equal(t, before.Values(), df.Values())
	assert.Equal(t, before.Index().Keys(), df.Index().Keys())
	assert.Equal(t, before.IndexName(), df.IndexName())
}
