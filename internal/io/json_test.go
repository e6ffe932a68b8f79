package io

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/paveg/tabula/internal/dataframe"
	dferrors "github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONReader_Array(t *testing.T) {
	input := `[
		{"name": "alice", "age": 30, "score": 1.5, "ok": true, "at": "2024-01-02 10:00:00"},
		{"name": "bob", "age": null, "score": 2, "ok": false},
		{"name": "carol", "age": 4000000000, "score": null, "ok": true, "extra": "x"}
	]`
	df, err := NewJSONReader(strings.NewReader(input), DefaultJSONOptions()).Read()
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "at", "extra", "name", "ok", "score"}, df.Columns())
	assert.Equal(t, []value.ColType{
		value.TypeInt64, value.TypeDateTime, value.TypeStr, value.TypeStr, value.TypeBool, value.TypeFloat64,
	}, df.Types())
	assert.Equal(t, value.Values(int64(30), nil, int64(4000000000)), column(t, df, "age"))
	assert.Equal(t, value.Values(time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), nil, nil), column(t, df, "at"))
	assert.Equal(t, value.Values(nil, nil, "x"), column(t, df, "extra"))
	assert.Equal(t, value.Values(1.5, 2.0, nil), column(t, df, "score"))
}

func TestJSONReader_LinesAndOptions(t *testing.T) {
	input := "{\"b\": 1, \"a\": \"x\"}\n\n{\"b\": \"two\", \"a\": \"y\"}\n{\"b\": 3, \"a\": \"z\"}\n"
	opts := DefaultJSONOptions()
	opts.Format = JSONLines
	opts.Columns = []string{"b", "a"}
	opts.MaxRecords = 2

	df, err := NewJSONReader(strings.NewReader(input), opts).Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, df.Columns())
	assert.Equal(t, 2, df.Len())
	assert.Equal(t, value.Values("1", "two"), column(t, df, "b"))
}

func TestJSONReader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  JSONOptions
		kind  dferrors.Kind
	}{
		{"nested object", `[{"a": {"b": 1}}]`, DefaultJSONOptions(), dferrors.KindUnsupported},
		{"unknown format", `[]`, JSONOptions{Format: JSONFormat(9)}, dferrors.KindArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJSONReader(strings.NewReader(tt.input), tt.opts).Read()
			assert.True(t, dferrors.IsKind(err, tt.kind), "got %v", err)
		})
	}

	_, err := NewJSONReader(strings.NewReader(`[{"a": 1`), DefaultJSONOptions()).Read()
	require.Error(t, err)
}

func TestJSONReader_Empty(t *testing.T) {
	for _, input := range []string{"", "[]"} {
		df, err := NewJSONReader(strings.NewReader(input), DefaultJSONOptions()).Read()
		require.NoError(t, err)
		assert.Equal(t, 0, df.Len())
	}
}

func TestJSONWriter(t *testing.T) {
	when := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	df, err := dataframe.New([][]value.Value{
		value.Values("a", int32(1), when, true),
		value.Values("b", nil, nil, false),
	}, []string{"z", "n", "at", "ok"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter(&buf, DefaultJSONOptions()).Write(df))
	assert.Equal(t,
		`[{"z":"a","n":1,"at":"2024-03-04 05:06:07","ok":true},{"z":"b","n":null,"at":null,"ok":false}]`+"\n",
		buf.String())

	opts := DefaultJSONOptions()
	opts.Format = JSONLines
	buf.Reset()
	require.NoError(t, NewJSONWriter(&buf, opts).Write(df))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"z":"b","n":null,"at":null,"ok":false}`, lines[1])

	back, err := NewJSONReader(&buf, JSONOptions{Format: JSONLines, Columns: df.Columns(), DateTimeLayout: opts.DateTimeLayout}).Read()
	require.NoError(t, err)
	assert.Equal(t, df.Values(), back.Values())
	assert.Equal(t, df.Types(), back.Types())

	err = NewJSONWriter(&buf, DefaultJSONOptions()).Write(nil)
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
}
