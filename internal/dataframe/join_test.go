package dataframe

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/paveg/tabula/internal/config"
	dferrors "github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinInputs(t *testing.T) (*DataFrame, *DataFrame) {
	t.Helper()
	left := mustColumns(t, []string{"itemID", "value1"},
		value.Values("foo", "bar", "baz", "foo"),
		value.Values(1, 2, 3, 4))
	right := mustColumns(t, []string{"item2ID", "value2"},
		value.Values("foo", "bar", "baz"),
		value.Values(5, 6, 7))
	return left, right
}

func TestJoin_InnerByIndex(t *testing.T) {
	left, right := joinInputs(t)

	joined, err := left.Join(right, InnerJoin)
	require.NoError(t, err)

	assert.Equal(t, []string{"itemID", "value1", "item2ID", "value2"}, joined.Columns())
	assert.Equal(t, [][]value.Value{
		value.Values("foo", 1, "foo", 5),
		value.Values("bar", 2, "bar", 6),
		value.Values("baz", 3, "baz", 7),
	}, joined.Values())
	assert.Equal(t, value.Values(int32(0), int32(1), int32(2)), joined.Index().Keys())
}

func TestJoin_LeftByIndex(t *testing.T) {
	left, right := joinInputs(t)

	joined, err := left.Join(right, LeftJoin)
	require.NoError(t, err)

	require.Equal(t, 4, joined.Len())
	assert.Equal(t, value.Values("foo", 4, nil, nil), joined.Values()[3])
	assert.Equal(t, []value.ColType{value.TypeStr, value.TypeInt64, value.TypeStr, value.TypeInt64}, joined.Types())
}

func TestJoin_DuplicateKeysExpand(t *testing.T) {
	left := mustNew(t, [][]value.Value{value.Values("l0"), value.Values("l1")}, []string{"l"},
		WithIndex(value.Values("k", "z"), "key"))
	right := mustNew(t, [][]value.Value{value.Values("r0"), value.Values("r1"), value.Values("r2")}, []string{"r"},
		WithIndex(value.Values("k", "x", "k"), "key"))

	joined, err := left.Join(right, InnerJoin)
	require.NoError(t, err)
	assert.Equal(t, [][]value.Value{
		value.Values("l0", "r0"),
		value.Values("l0", "r2"),
	}, joined.Values())
	assert.Equal(t, value.Values("k", "k"), joined.Index().Keys())
	assert.Equal(t, "key", joined.IndexName())
}

func TestJoin_EmptySides(t *testing.T) {
	left, right := joinInputs(t)
	emptyLeft, err := CreateEmpty([]string{"itemID", "value1"})
	require.NoError(t, err)
	emptyRight, err := CreateEmpty([]string{"item2ID", "value2"})
	require.NoError(t, err)

	out, err := emptyLeft.Join(right, InnerJoin)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, []string{"itemID", "value1"}, out.Columns())

	out, err = left.Join(emptyRight, LeftJoin)
	require.NoError(t, err)
	assert.Equal(t, left.Values(), out.Values())
	assert.Equal(t, left.Columns(), out.Columns())

	out, err = left.Join(emptyRight, InnerJoin)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, []string{"itemID", "value1", "item2ID", "value2"}, out.Columns())
}

func TestJoin_ColumnCollision(t *testing.T) {
	left := mustColumns(t, []string{"id", "v"}, value.Values(1), value.Values(2))
	right := mustColumns(t, []string{"v"}, value.Values(3))

	joined, err := left.Join(right, InnerJoin)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "v", "v_right"}, joined.Columns())

	_, err = left.Join(nil, InnerJoin)
	assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
}

func TestMerge(t *testing.T) {
	orders := mustNew(t, [][]value.Value{
		value.Values("a", int32(1), 10.0),
		value.Values("b", int32(1), 20.0),
		value.Values("a", int32(2), 30.0),
		value.Values("c", int32(1), 40.0),
	}, []string{"customer", "year", "amount"})
	targets := mustNew(t, [][]value.Value{
		value.Values("a", int32(1), 15.0),
		value.Values("a", int32(2), 25.0),
		value.Values("b", int32(1), 5.0),
	}, []string{"customer", "year", "amount"})

	t.Run("inner on two keys", func(t *testing.T) {
		merged, err := orders.Merge(targets, []string{"customer", "year"}, []string{"customer", "year"}, InnerJoin, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"customer", "year", "amount", "customer_right", "year_right", "amount_right"}, merged.Columns())
		require.Equal(t, 3, merged.Len())
		assert.Equal(t, value.Values("a", int32(2), 30.0, "a", int32(2), 25.0), merged.Values()[2])
		assert.Equal(t, value.Values(int32(0), int32(1), int32(2)), merged.Index().Keys())
	})

	t.Run("left keeps unmatched rows", func(t *testing.T) {
		merged, err := orders.Merge(targets, []string{"customer", "year"}, []string{"customer", "year"}, LeftJoin, "t")
		require.NoError(t, err)
		require.Equal(t, 4, merged.Len())
		assert.Equal(t, value.Values("c", int32(1), 40.0, nil, nil, nil), merged.Values()[3])
		assert.Contains(t, merged.Columns(), "amount_t")
	})

	t.Run("configured suffix", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.MergeSuffix = "other"
		config.SetGlobalConfig(cfg)
		t.Cleanup(config.ResetGlobalConfig)

		merged, err := orders.Merge(targets, []string{"customer"}, []string{"customer"}, InnerJoin, "")
		require.NoError(t, err)
		assert.Contains(t, merged.Columns(), "amount_other")
		assert.Equal(t, 5, merged.Len())
	})
}

func TestMerge_Errors(t *testing.T) {
	left := mustColumns(t, []string{"a", "b", "c", "d", "a_right"},
		value.Values(1), value.Values(1), value.Values(1), value.Values(1), value.Values(1))
	right := mustColumns(t, []string{"a", "b", "c", "d"},
		value.Values(1), value.Values(1), value.Values(1), value.Values(1))

	tests := []struct {
		name    string
		leftOn  []string
		rightOn []string
		kind    dferrors.Kind
	}{
		{"no keys", nil, nil, dferrors.KindArgument},
		{"count mismatch", []string{"a"}, []string{"a", "b"}, dferrors.KindSchema},
		{"too many keys", []string{"a", "b", "c", "d"}, []string{"a", "b", "c", "d"}, dferrors.KindUnsupported},
		{"unknown left column", []string{"x"}, []string{"a"}, dferrors.KindSchema},
		{"unknown right column", []string{"a"}, []string{"x"}, dferrors.KindSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := left.Merge(right, tt.leftOn, tt.rightOn, InnerJoin, "")
			require.Error(t, err)
			assert.True(t, dferrors.IsKind(err, tt.kind), "got %v", err)
		})
	}

	t.Run("suffixed name still collides", func(t *testing.T) {
		_, err := left.Merge(right, []string{"b"}, []string{"b"}, InnerJoin, "right")
		require.Error(t, err)
		assert.True(t, dferrors.IsKind(err, dferrors.KindSchema))
	})

	t.Run("nil right", func(t *testing.T) {
		_, err := left.Merge(nil, []string{"a"}, []string{"a"}, InnerJoin, "")
		require.Error(t, err)
	})

	t.Run("nil left", func(t *testing.T) {
		var missing *DataFrame
		_, err := missing.Merge(right, []string{"a"}, []string{"a"}, InnerJoin, "")
		require.Error(t, err)
		assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))

		_, err = missing.Join(right, LeftJoin)
		require.Error(t, err)
		assert.True(t, dferrors.IsKind(err, dferrors.KindArgument))
	})
}

func TestMerge_KeepsLeftIndex(t *testing.T) {
	left, err := FromColumns([]string{"k", "v"},
		[][]value.Value{value.Values("x", "y", "z"), value.Values(1, 2, 3)},
		WithIndex(value.Values("r1", "r2", "r3"), "id"))
	require.NoError(t, err)
	right := mustColumns(t, []string{"k2", "w"}, value.Values("z", "x", "z"), value.Values(10, 20, 30))

	merged, err := left.Merge(right, []string{"k"}, []string{"k2"}, InnerJoin, "")
	require.NoError(t, err)
	assert.Equal(t, value.Values("r1", "r3", "r3"), merged.Index().Keys())
	assert.Equal(t, "id", merged.IndexName())

	merged, err = left.Merge(right, []string{"k"}, []string{"k2"}, LeftJoin, "")
	require.NoError(t, err)
	assert.Equal(t, value.Values("r1", "r2", "r3", "r3"), merged.Index().Keys())
	assert.Equal(t, "id", merged.IndexName())
}

func TestMerge_FloatKeys(t *testing.T) {
	left := mustColumns(t, []string{"k", "v"},
		value.Values(0.0, math.NaN(), 1.0), value.Values(1, 2, 3))
	right := mustColumns(t, []string{"k2", "w"},
		value.Values(math.Copysign(0, -1), math.NaN()), value.Values(10, 20))

	merged, err := left.Merge(right, []string{"k"}, []string{"k2"}, InnerJoin, "")
	require.NoError(t, err)
	w, err := merged.Column("w")
	require.NoError(t, err)
	assert.Equal(t, value.Values(10, 20), w)

	pos, err := right.Positions([]string{"k2"}, value.Float64(0))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, pos)
}

func TestJoin_Cardinality(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property tests in short mode")
	}

	property := func(leftSeed, rightSeed uint64, ln, rn uint8) bool {
		left := randomFrame(t, leftSeed, int(ln%32))
		right := randomFrame(t, rightSeed, int(rn%32))
		leftKeys, _ := left.Column("b")
		rightKeys, _ := right.Column("b")

		matches := func(k value.Value) int {
			n := 0
			for _, rk := range rightKeys {
				if rk == k {
					n++
				}
			}
			return n
		}
		wantInner, wantLeft := 0, 0
		for _, k := range leftKeys {
			m := matches(k)
			wantInner += m
			wantLeft += max(m, 1)
		}

		inner, err := left.Merge(right, []string{"b"}, []string{"b"}, InnerJoin, "")
		if err != nil || inner.Len() != wantInner {
			return false
		}
		outer, err := left.Merge(right, []string{"b"}, []string{"b"}, LeftJoin, "")
		return err == nil && outer.Len() == wantLeft
	}
	require.NoError(t, quick.Check(property, nil))
}
