package io

import (
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/paveg/tabula/internal/dataframe"
	dferrors "github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
	"github.com/paveg/tabula/internal/testutil"
	"github.com/paveg/tabula/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allTypes(t *testing.T) *dataframe.DataFrame {
	t.Helper()
	when := time.Date(2024, 5, 6, 7, 8, 9, 123, time.UTC)
	df, err := dataframe.New([][]value.Value{
		value.Values(true, "lo", int32(1), int64(10), float32(1.5), 2.25, "a", when),
		value.Values(nil, "hi", nil, int64(-3), nil, nil, nil, nil),
		value.Values(false, nil, int32(7), nil, float32(-2), 0.5, "c", when.Add(time.Hour)),
	}, []string{"b", "cat", "i32", "i64", "f32", "f64", "s", "ts"},
		dataframe.WithTypes(value.TypeBool, value.TypeCategorical, value.TypeInt32, value.TypeInt64,
			value.TypeFloat32, value.TypeFloat64, value.TypeStr, value.TypeDateTime))
	require.NoError(t, err)
	return df
}

func TestRecordRoundTrip(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	df := allTypes(t)
	rec, err := ToRecord(mem.Allocator, df)
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, int64(3), rec.NumRows())
	assert.Equal(t, int64(8), rec.NumCols())
	assert.Equal(t, arrow.BinaryTypes.String, rec.Schema().Field(1).Type)
	assert.Equal(t, arrow.FixedWidthTypes.Timestamp_ns, rec.Schema().Field(7).Type)
	assert.Equal(t, 1, rec.Column(2).NullN())

	back, err := FromRecord(rec)
	require.NoError(t, err)
	testutil.AssertDataFrameEqual(t, df, back)
}

func TestToRecord_DropsIndex(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	df, err := dataframe.New([][]value.Value{value.Values(1), value.Values(2)}, []string{"v"},
		dataframe.WithIndex(value.Values("x", "y"), "key"))
	require.NoError(t, err)

	rec, err := ToRecord(mem.Allocator, df)
	require.NoError(t, err)
	defer rec.Release()

	back, err := FromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, value.Values(int32(0), int32(1)), back.Index().Keys())
	assert.Equal(t, df.Values(), back.Values())
}

func TestSeriesArray(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	s, err := series.New("v", value.Values(int64(4), nil, int64(6)))
	require.NoError(t, err)

	arr, err := SeriesToArray(mem.Allocator, s)
	require.NoError(t, err)
	defer arr.Release()
	assert.Equal(t, 3, arr.Len())
	assert.Equal(t, 1, arr.NullN())

	back, err := SeriesFromArray("w", arr)
	require.NoError(t, err)
	assert.Equal(t, "w", back.Name())
	assert.Equal(t, value.TypeInt64, back.Type())
	assert.Equal(t, s.Values(), back.Values())
}

func TestSeriesFromArray_NarrowIntegers(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	b := array.NewInt16Builder(mem.Allocator)
	defer b.Release()
	b.AppendValues([]int16{1, -2}, nil)
	b.AppendNull()
	arr := b.NewArray()
	defer arr.Release()

	s, err := SeriesFromArray("n", arr)
	require.NoError(t, err)
	assert.Equal(t, value.TypeInt32, s.Type())
	assert.Equal(t, value.Values(int32(1), int32(-2), nil), s.Values())
}

func TestArrowErrors(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	b := array.NewBinaryBuilder(mem.Allocator, arrow.BinaryTypes.Binary)
	defer b.Release()
	b.Append([]byte("x"))
	arr := b.NewArray()
	defer arr.Release()

	_, err := SeriesFromArray("bin", arr)
	assert.True(t, dferrors.IsKind(err, dferrors.KindType), "got %v", err)

	_, err = SeriesFromArray("nil", nil)
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
	_, err = SeriesToArray(mem.Allocator, nil)
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
	_, err = ToRecord(mem.Allocator, nil)
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
	_, err = FromRecord(nil)
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))

	_, err = ArrowType(value.ColType(99))
	assert.True(t, dferrors.IsKind(err, dferrors.KindType))
}
