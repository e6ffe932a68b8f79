package io

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/paveg/tabula/internal/dataframe"
	dferrors "github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/testutil"
	"github.com/paveg/tabula/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typesOf(df *dataframe.DataFrame) map[string]value.ColType {
	out := make(map[string]value.ColType, df.Width())
	for i, name := range df.Columns() {
		out[name] = df.Types()[i]
	}
	return out
}

func column(t *testing.T, df *dataframe.DataFrame, name string) []value.Value {
	t.Helper()
	col, err := df.Column(name)
	require.NoError(t, err)
	return col
}

func TestCSVReader_Detection(t *testing.T) {
	input := `id,name,score,active,joined,mixed
1,alice,1.5,true,2024-01-02 10:00:00,1
2,bob,,false,2024-02-03 11:30:00,x
3000000000,carol,2,true,,2
`
	df, err := NewCSVReader(strings.NewReader(input), DefaultCSVOptions()).Read()
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "score", "active", "joined", "mixed"}, df.Columns())
	assert.Equal(t, []value.ColType{
		value.TypeInt64, value.TypeStr, value.TypeFloat64, value.TypeBool, value.TypeDateTime, value.TypeStr,
	}, df.Types())

	assert.Equal(t, value.Values(int64(1), int64(2), int64(3000000000)), column(t, df, "id"))
	assert.Equal(t, value.Values(1.5, nil, 2.0), column(t, df, "score"))
	assert.Equal(t, value.Values(true, false, true), column(t, df, "active"))
	assert.Equal(t, value.Values("1", "x", "2"), column(t, df, "mixed"))
	assert.Equal(t, value.Values(
		time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 3, 11, 30, 0, 0, time.UTC),
		nil,
	), column(t, df, "joined"))
	assert.Equal(t, value.Values(int32(0), int32(1), int32(2)), df.Index().Keys())
}

func TestCSVReader_Options(t *testing.T) {
	input := "# comment line\n1;NA;a\n2; 3;b\n"
	opts := DefaultCSVOptions()
	opts.Header = false
	opts.Delimiter = ';'
	opts.Comment = '#'
	opts.SkipInitialSpace = true
	opts.MissingToken = "NA"
	opts.Types = map[string]value.ColType{"column_1": value.TypeFloat64}

	df, err := NewCSVReader(strings.NewReader(input), opts).Read()
	require.NoError(t, err)

	assert.Equal(t, []string{"column_0", "column_1", "column_2"}, df.Columns())
	assert.Equal(t, []value.ColType{value.TypeInt32, value.TypeFloat64, value.TypeStr}, df.Types())
	assert.Equal(t, value.Values(nil, 3.0), column(t, df, "column_1"))
}

func TestCSVReader_Errors(t *testing.T) {
	t.Run("ragged rows", func(t *testing.T) {
		_, err := NewCSVReader(strings.NewReader("a,b\n1\n"), DefaultCSVOptions()).Read()
		require.Error(t, err)
	})

	t.Run("override names unknown column", func(t *testing.T) {
		opts := DefaultCSVOptions()
		opts.Types = map[string]value.ColType{"nope": value.TypeInt32}
		_, err := NewCSVReader(strings.NewReader("a\n1\n"), opts).Read()
		assert.True(t, dferrors.IsKind(err, dferrors.KindSchema), "got %v", err)
	})

	t.Run("override not convertible", func(t *testing.T) {
		opts := DefaultCSVOptions()
		opts.Types = map[string]value.ColType{"a": value.TypeInt32}
		_, err := NewCSVReader(strings.NewReader("a\nx\n"), opts).Read()
		assert.True(t, dferrors.IsKind(err, dferrors.KindType), "got %v", err)
	})
}

func TestCSVReader_Empty(t *testing.T) {
	df, err := NewCSVReader(strings.NewReader(""), DefaultCSVOptions()).Read()
	require.NoError(t, err)
	assert.Equal(t, 0, df.Len())
	assert.Equal(t, 0, df.Width())

	df, err = NewCSVReader(strings.NewReader("a,b\n"), DefaultCSVOptions()).Read()
	require.NoError(t, err)
	assert.Equal(t, 0, df.Len())
	assert.Equal(t, []string{"a", "b"}, df.Columns())
}

func TestCSVRoundTrip(t *testing.T) {
	df := testutil.CreateTestDataFrame(t, testutil.WithNulls(), testutil.WithActiveColumn(), testutil.WithRowCount(7))

	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(&buf, DefaultCSVOptions()).Write(df))

	opts := DefaultCSVOptions()
	opts.Types = typesOf(df)
	back, err := NewCSVReader(&buf, opts).Read()
	require.NoError(t, err)
	testutil.AssertDataFrameEqual(t, df, back)
}

func TestCSVWriter(t *testing.T) {
	when := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	df, err := dataframe.New([][]value.Value{
		value.Values("a", 1.5, when),
		value.Values("b,c", nil, nil),
	}, []string{"k", "v", "at"}, dataframe.WithIndex(value.Values("x", "y"), "key"))
	require.NoError(t, err)

	t.Run("defaults", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewCSVWriter(&buf, DefaultCSVOptions()).Write(df))
		assert.Equal(t, "k,v,at\na,1.5,2024-03-04 05:06:07\n\"b,c\",,\n", buf.String())
	})

	t.Run("index and missing token", func(t *testing.T) {
		opts := DefaultCSVOptions()
		opts.WriteIndex = true
		opts.MissingToken = "NA"
		opts.Delimiter = '\t'
		var buf bytes.Buffer
		require.NoError(t, NewCSVWriter(&buf, opts).Write(df))
		assert.Equal(t, "key\tk\tv\tat\nx\ta\t1.5\t2024-03-04 05:06:07\ny\tb,c\tNA\tNA\n", buf.String())
	})

	t.Run("no header", func(t *testing.T) {
		opts := DefaultCSVOptions()
		opts.Header = false
		var buf bytes.Buffer
		require.NoError(t, NewCSVWriter(&buf, opts).Write(df))
		assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
	})

	err = NewCSVWriter(&bytes.Buffer{}, DefaultCSVOptions()).Write(nil)
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
}

func TestWiden(t *testing.T) {
	tests := []struct {
		a, b value.ColType
		want value.ColType
	}{
		{value.TypeInt32, value.TypeInt32, value.TypeInt32},
		{value.TypeInt32, value.TypeInt64, value.TypeInt64},
		{value.TypeInt64, value.TypeFloat64, value.TypeFloat64},
		{value.TypeBool, value.TypeInt32, value.TypeStr},
		{value.TypeDateTime, value.TypeStr, value.TypeStr},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, widen(tt.a, tt.b), "%v+%v", tt.a, tt.b)
		assert.Equal(t, tt.want, widen(tt.b, tt.a), "%v+%v", tt.b, tt.a)
	}
}

func TestCSVReader_Parallel(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("a,b,c,d\n")
	for i := range 500 {
		fmt.Fprintf(&sb, "%d,%d.5,name%d,%v\n", i, i, i%7, i%2 == 0)
	}

	sequential, err := NewCSVReader(strings.NewReader(sb.String()), DefaultCSVOptions()).Read()
	require.NoError(t, err)

	opts := DefaultCSVOptions()
	opts.Parallel = true
	opts.Workers = 3
	concurrent, err := NewCSVReader(strings.NewReader(sb.String()), opts).Read()
	require.NoError(t, err)

	testutil.AssertDataFrameEqual(t, sequential, concurrent)
	assert.Equal(t, []value.ColType{value.TypeInt32, value.TypeFloat64, value.TypeStr, value.TypeBool}, concurrent.Types())

	opts.Types = map[string]value.ColType{"c": value.TypeInt64}
	_, err = NewCSVReader(strings.NewReader(sb.String()), opts).Read()
	assert.True(t, dferrors.IsKind(err, dferrors.KindType), "got %v", err)
}
