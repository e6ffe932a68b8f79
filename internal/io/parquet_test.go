package io

import (
	"bytes"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tabula/internal/dataframe"
	dferrors "github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/testutil"
	"github.com/paveg/tabula/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParquetRoundTrip(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := testutil.CreateTestDataFrame(t, testutil.WithNulls(), testutil.WithActiveColumn(), testutil.WithRowCount(9))

	for _, codec := range []string{"snappy", "gzip", "zstd", "lz4", "uncompressed"} {
		t.Run(codec, func(t *testing.T) {
			opts := DefaultParquetOptions()
			opts.Compression = codec

			var buf bytes.Buffer
			require.NoError(t, NewParquetWriter(&buf, opts, mem).Write(df))
			assert.Positive(t, buf.Len())

			back, err := NewParquetReader(&buf, opts, mem).Read()
			require.NoError(t, err)
			testutil.AssertDataFrameEqual(t, df, back)
		})
	}
}

func TestParquetTimestamps(t *testing.T) {
	mem := memory.NewGoAllocator()
	start := time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)
	df, err := dataframe.New([][]value.Value{
		value.Values(start, float32(1)),
		value.Values(nil, float32(2.5)),
		value.Values(start.Add(90*time.Minute), nil),
	}, []string{"at", "f"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewParquetWriter(&buf, DefaultParquetOptions(), mem).Write(df))
	back, err := NewParquetReader(&buf, DefaultParquetOptions(), mem).Read()
	require.NoError(t, err)

	assert.Equal(t, []value.ColType{value.TypeDateTime, value.TypeFloat32}, back.Types())
	assert.Equal(t, df.Values(), back.Values())
}

func TestParquetErrors(t *testing.T) {
	mem := memory.NewGoAllocator()

	opts := DefaultParquetOptions()
	opts.Compression = "rar"
	err := NewParquetWriter(&bytes.Buffer{}, opts, mem).Write(testutil.CreateSimpleTestDataFrame(t))
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))

	_, err = NewParquetReader(bytes.NewReader([]byte("not parquet")), DefaultParquetOptions(), mem).Read()
	require.Error(t, err)
}
