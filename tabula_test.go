package tabula_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tabula"
	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *tabula.DataFrame {
	t.Helper()
	df, err := tabula.New([][]tabula.Value{
		tabula.Values("east", "tea", int32(3), 2.5),
		tabula.Values("west", "coffee", int32(5), 4.0),
		tabula.Values("east", "coffee", int32(1), nil),
	}, []string{"region", "product", "qty", "price"})
	require.NoError(t, err)
	return df
}

func TestPipeline(t *testing.T) {
	df := sample(t)

	sorted, err := df.SortBy(tabula.Descending, "qty")
	require.NoError(t, err)
	qty, err := sorted.Column("qty")
	require.NoError(t, err)
	assert.Equal(t, tabula.Values(int32(5), int32(3), int32(1)), qty)

	g, err := df.GroupBy("region")
	require.NoError(t, err)
	counts, err := g.Count()
	require.NoError(t, err)
	assert.Equal(t, [][]tabula.Value{
		tabula.Values("east", int64(2)),
		tabula.Values("west", int64(1)),
	}, counts.Values())

	priced, err := df.Filter([]string{"price"}, tabula.Values(nil), []tabula.Operator{tabula.OpNonNull})
	require.NoError(t, err)
	assert.Equal(t, 2, priced.Len())

	s, err := tabula.ToSeries(df, "qty")
	require.NoError(t, err)
	assert.Equal(t, tabula.TypeInt32, s.Type())
	assert.Equal(t, 9.0, s.Sum())
	assert.Equal(t, 3, s.Len())
}

func TestSeriesConstruction(t *testing.T) {
	s, err := tabula.NewSeries("v", tabula.Values(1, 2),
		tabula.SeriesWithType(tabula.TypeFloat64),
		tabula.SeriesWithIndex(tabula.Values("a", "b"), "key"))
	require.NoError(t, err)
	assert.Equal(t, tabula.Values(1.0, 2.0), s.Values())
	assert.Equal(t, "key", s.Index().Name())

	kind, err := tabula.ParseAggregation("sum")
	require.NoError(t, err)
	assert.Equal(t, tabula.AggSum, kind)
}

func TestConfigure(t *testing.T) {
	t.Cleanup(func() {
		config.ResetGlobalConfig()
		logging.SetLogger(nil)
	})

	cfg := tabula.DefaultConfig()
	cfg.Precision = 2
	require.NoError(t, tabula.Configure(cfg))

	s, err := tabula.NewSeries("v", tabula.Values(1, 2, 2))
	require.NoError(t, err)
	avg, err := s.Aggregate(tabula.AggAvg)
	require.NoError(t, err)
	assert.Equal(t, tabula.Values(1.67)[0], avg)

	cfg.LogLevel = "loud"
	require.Error(t, tabula.Configure(cfg))
}

func TestTextRoundTrips(t *testing.T) {
	df := sample(t)

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, tabula.WriteCSV(&buf, df, tabula.DefaultCSVOptions()))
		back, err := tabula.ReadCSV(&buf, tabula.DefaultCSVOptions())
		require.NoError(t, err)
		testutil.AssertDataFrameEqual(t, df, back)
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, tabula.WriteJSON(&buf, df, tabula.DefaultJSONOptions()))
		opts := tabula.DefaultJSONOptions()
		opts.Columns = df.Columns()
		back, err := tabula.ReadJSON(&buf, opts)
		require.NoError(t, err)
		testutil.AssertDataFrameEqual(t, df, back)
	})
}

func TestBinaryRoundTrips(t *testing.T) {
	df := sample(t)

	t.Run("parquet", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, tabula.WriteParquet(&buf, df, tabula.DefaultParquetOptions()))
		back, err := tabula.ReadParquet(&buf, tabula.DefaultParquetOptions())
		require.NoError(t, err)
		testutil.AssertDataFrameEqual(t, df, back)
	})

	t.Run("arrow", func(t *testing.T) {
		rec, err := tabula.ToRecord(memory.NewGoAllocator(), df)
		require.NoError(t, err)
		defer rec.Release()
		back, err := tabula.FromRecord(rec)
		require.NoError(t, err)
		testutil.AssertDataFrameEqual(t, df, back)
	})
}

func TestReadSQL(t *testing.T) {
	db := testutil.SetupSQLiteTest(t)
	testutil.LoadTable(t, db, "sales", sample(t))

	df, err := tabula.ReadSQL(context.Background(), db, "SELECT region, qty FROM sales WHERE qty > ? ORDER BY qty", 1)
	require.NoError(t, err)
	assert.Equal(t, [][]tabula.Value{
		tabula.Values("east", int32(3)),
		tabula.Values("west", int32(5)),
	}, df.Values())
}

func TestBuildInfo(t *testing.T) {
	assert.Contains(t, tabula.BuildInfo().String(), "tabula")
}
