package dataframe

import (
	"testing"

	"github.com/paveg/tabula/internal/config"
	dferrors "github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter(t *testing.T, n int) *DataFrame {
	t.Helper()
	col := make([]value.Value, n)
	for i := range col {
		col[i] = value.Int32(int32(i * 10))
	}
	return mustColumns(t, []string{"v"}, col)
}

func TestHeadTail(t *testing.T) {
	df := counter(t, 8)

	head := df.Head(3)
	assert.Equal(t, value.Values(int32(0), int32(1), int32(2)), head.Index().Keys())

	tail := df.Tail(2)
	got, err := tail.Column("v")
	require.NoError(t, err)
	assert.Equal(t, value.Values(int32(60), int32(70)), got)

	assert.Equal(t, config.DefaultTakeRows, df.Head(0).Len())
	assert.Equal(t, config.DefaultTakeRows, df.Tail(-1).Len())
	assert.Equal(t, 8, df.Head(100).Len())

	empty, err := CreateEmpty([]string{"v"})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Head(3).Len())
}

func TestTake(t *testing.T) {
	df := counter(t, 5)

	out, err := df.Take(4, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, value.Values(int32(4), int32(0), int32(4)), out.Index().Keys())

	_, err = df.Take(5)
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
}

func TestTakeEvery(t *testing.T) {
	df := counter(t, 7)

	tests := []struct {
		n           int
		includeLast bool
		want        []value.Value
	}{
		{3, false, value.Values(int32(2), int32(5))},
		{3, true, value.Values(int32(2), int32(5), int32(6))},
		{1, true, value.Values(int32(0), int32(1), int32(2), int32(3), int32(4), int32(5), int32(6))},
		{7, true, value.Values(int32(6))},
		{10, false, []value.Value{}},
		{10, true, value.Values(int32(6))},
	}
	for _, tt := range tests {
		out, err := df.TakeEvery(tt.n, tt.includeLast)
		require.NoError(t, err)
		assert.Equal(t, tt.want, out.Index().Keys(), "n=%d includeLast=%v", tt.n, tt.includeLast)
	}

	_, err := df.TakeEvery(0, false)
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
}

func TestTakeRandom(t *testing.T) {
	cfg := config.NewConfig()
	cfg.RandomSeed = 42
	config.SetGlobalConfig(cfg)
	t.Cleanup(config.ResetGlobalConfig)

	df := counter(t, 20)

	first, err := df.TakeRandom(6)
	require.NoError(t, err)
	second, err := df.TakeRandom(6)
	require.NoError(t, err)

	assert.Equal(t, 6, first.Len())
	assert.Equal(t, first.Index().Keys(), second.Index().Keys())
	keys := first.Index().Keys()
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1].AsInt64(), keys[i].AsInt64())
	}

	all, err := df.TakeRandom(50)
	require.NoError(t, err)
	assert.Equal(t, df.Values(), all.Values())

	_, err = df.TakeRandom(-1)
	require.Error(t, err)
}

func TestExcept(t *testing.T) {
	df := mustNew(t, [][]value.Value{
		value.Values("a", int32(1)),
		value.Values("b", int32(2)),
		value.Values("a", int32(1)),
		value.Values("c", nil),
	}, []string{"k", "v"})
	other := mustNew(t, [][]value.Value{
		value.Values("a", int32(1)),
		value.Values("c", nil),
	}, []string{"k", "v"})

	out, err := df.Except(other)
	require.NoError(t, err)
	assert.Equal(t, [][]value.Value{value.Values("b", int32(2))}, out.Values())
	assert.Equal(t, value.Values(int32(1)), out.Index().Keys())

	renamed := mustNew(t, [][]value.Value{value.Values("a", int32(1))}, []string{"k", "w"})
	_, err = df.Except(renamed)
	assert.True(t, dferrors.IsKind(err, dferrors.KindSchema))

	_, err = df.Except(nil)
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
}

func TestAddRowAndInsertRow(t *testing.T) {
	df := people(t)

	require.NoError(t, df.AddRow(value.Values("Eve", int64(41), 70000)))
	assert.Equal(t, 5, df.Len())
	assert.Equal(t, value.Int32(4), df.Index().Keys()[4])
	assert.Equal(t, value.Values("Eve", int32(41), 70000.0), df.Values()[4])

	require.NoError(t, df.InsertRow(1, value.Values("Zed", nil, 1.5), value.String("z")))
	assert.Equal(t, value.Values("Zed", nil, 1.5), df.Values()[1])
	assert.Equal(t, value.Values("Bob", int32(30), 60000.0), df.Values()[2])
	assert.Equal(t, value.String("z"), df.Index().Keys()[1])

	require.NoError(t, df.InsertRow(0, value.Values("First", int32(1), 1.0)))
	assert.Equal(t, value.Values("First", int32(1), 1.0), df.Values()[0])
	assert.Equal(t, 7, df.Len())

	tests := []struct {
		name string
		pos  int
		row  []value.Value
		keys []value.Value
		kind dferrors.Kind
	}{
		{"position out of range", 9, value.Values("x", 1, 1.0), nil, dferrors.KindArgument},
		{"wrong width", 0, value.Values("x"), nil, dferrors.KindSchema},
		{"two keys", 0, value.Values("x", 1, 1.0), value.Values(1, 2), dferrors.KindArgument},
		{"not convertible", 0, value.Values("x", "old", 1.0), nil, dferrors.KindType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := df.InsertRow(tt.pos, tt.row, tt.keys...)
			require.Error(t, err)
			assert.True(t, dferrors.IsKind(err, tt.kind), "got %v", err)
			assert.Equal(t, 7, df.Len())
		})
	}
}

func TestAppend(t *testing.T) {
	df := people(t)
	more := mustNew(t, [][]value.Value{
		value.Values("Eve", int64(41), int64(70000)),
	}, []string{"n", "a", "s"})

	out, err := df.Append(more)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Len())
	assert.Equal(t, df.Types(), out.Types())
	assert.Equal(t, value.Values("Eve", int32(41), 70000.0), out.Values()[4])
	assert.Equal(t, value.Values(int32(0), int32(1), int32(2), int32(3), int32(0)), out.Index().Keys())
	assert.Equal(t, 4, df.Len())

	_, err = df.Append(counter(t, 2))
	assert.True(t, dferrors.IsKind(err, dferrors.KindSchema))
}

func TestAppendHorizontal(t *testing.T) {
	df := people(t)
	extra := mustNew(t, [][]value.Value{
		value.Values(true), value.Values(false), value.Values(nil), value.Values(true),
	}, []string{"active"})

	out, err := df.AppendHorizontal(extra)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "salary", "active"}, out.Columns())
	assert.Equal(t, value.TypeBool, out.Types()[3])

	_, err = df.AppendHorizontal(counter(t, 2))
	assert.True(t, dferrors.IsKind(err, dferrors.KindSchema))

	_, err = df.AppendHorizontal(df)
	assert.True(t, dferrors.IsKind(err, dferrors.KindSchema))
}

func TestSetIndexAndResetIndex(t *testing.T) {
	df := people(t)

	keyed, err := df.SetIndex("name")
	require.NoError(t, err)
	assert.Equal(t, "name", keyed.IndexName())
	assert.Equal(t, []string{"age", "salary"}, keyed.Columns())
	assert.Equal(t, value.Values("Alice", "Bob", "Charlie", "Diana"), keyed.Index().Keys())

	_, err = df.SetIndex("age")
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))

	reset, err := keyed.ResetIndex(false)
	require.NoError(t, err)
	assert.Equal(t, df.Columns(), reset.Columns())
	assert.Equal(t, df.Values(), reset.Values())
	assert.Equal(t, df.Index().Keys(), reset.Index().Keys())

	dropped, err := keyed.ResetIndex(true)
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "salary"}, dropped.Columns())
	assert.Equal(t, value.Values(int32(0), int32(1), int32(2), int32(3)), dropped.Index().Keys())
	assert.Equal(t, "name", keyed.IndexName())
}

func TestPositions(t *testing.T) {
	df := mustNew(t, [][]value.Value{
		value.Values("a", int32(1)),
		value.Values("b", int32(1)),
		value.Values("a", int32(1)),
		value.Values("a", int32(2)),
	}, []string{"k", "v"})

	got, err := df.Positions([]string{"k"}, value.String("a"))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3}, got)

	got, err = df.Positions([]string{"k", "v"}, value.String("a"), value.Int32(1))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, got)

	got, err = df.Positions([]string{"k"}, value.String("z"))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = df.Positions([]string{"k"})
	assert.True(t, dferrors.IsKind(err, dferrors.KindSchema))
	_, err = df.Positions(nil)
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
}
