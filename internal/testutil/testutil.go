// Package testutil provides shared fixtures and assertions for tabula tests.
//
// It covers:
//   - Arrow allocators that fail the test on leaked buffers
//   - Standard employee DataFrames
//   - DataFrame equality and shape assertions
//   - In-memory SQLite databases seeded from a DataFrame
package testutil

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// defaultRowCount is the default number of rows in test DataFrames.
	defaultRowCount = 4
)

// TestMemoryContext holds a checked Arrow allocator.
type TestMemoryContext struct {
	Allocator *memory.CheckedAllocator
	tb        testing.TB
}

// Release asserts that every buffer taken from the allocator was freed.
func (tmc *TestMemoryContext) Release() {
	tmc.tb.Helper()
	tmc.Allocator.AssertSize(tmc.tb, 0)
}

// SetupMemoryTest creates a checked allocator for Arrow conversions.
//
// Example usage:
//
//	mem := testutil.SetupMemoryTest(t)
//	defer mem.Release()
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	return &TestMemoryContext{
		Allocator: memory.NewCheckedAllocator(memory.NewGoAllocator()),
		tb:        tb,
	}
}

// TestDataFrameOption configures test DataFrame creation.
type TestDataFrameOption func(*testDataFrameConfig)

type testDataFrameConfig struct {
	includeNulls bool
	rowCount     int
	withActive   bool
}

// WithNulls blanks every third age and every fourth salary.
func WithNulls() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.includeNulls = true
	}
}

// WithRowCount sets the number of rows in test data.
func WithRowCount(count int) TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.rowCount = count
	}
}

// WithActiveColumn includes an 'active' boolean column.
func WithActiveColumn() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.withActive = true
	}
}

var (
	baseNames       = []string{"Alice", "Bob", "Charlie", "David", "Eve", "Frank", "Grace", "Henry"}
	baseAges        = []int64{25, 30, 35, 28, 32, 45, 29, 38}
	baseDepartments = []string{"Engineering", "Sales", "Engineering", "Marketing", "HR", "Finance", "Engineering", "Sales"}
	baseSalaries    = []float64{100000, 80000, 120000, 75000, 90000, 110000, 95000, 85000}
	baseActive      = []bool{true, true, false, true, true, false, true, false}
)

// cycle repeats base until it holds count values
func cycle[T any](base []T, count int, blank func(i int) bool) []value.Value {
	out := make([]value.Value, count)
	for i := range count {
		if blank != nil && blank(i) {
			out[i] = value.Missing
			continue
		}
		out[i] = value.MustOf(base[i%len(base)])
	}
	return out
}

// CreateTestDataFrame creates a standard test DataFrame with employee data.
//
// Default DataFrame includes:
//   - name (Str): ["Alice", "Bob", "Charlie", "David"]
//   - age (Int64): [25, 30, 35, 28]
//   - department (Str): ["Engineering", "Sales", "Engineering", "Marketing"]
//   - salary (Float64): [100000, 80000, 120000, 75000]
func CreateTestDataFrame(tb testing.TB, opts ...TestDataFrameOption) *dataframe.DataFrame {
	tb.Helper()
	cfg := &testDataFrameConfig{rowCount: defaultRowCount}
	for _, opt := range opts {
		opt(cfg)
	}

	var ageBlank, salaryBlank func(int) bool
	if cfg.includeNulls {
		ageBlank = func(i int) bool { return i%3 == 2 }
		salaryBlank = func(i int) bool { return i%4 == 3 }
	}

	names := []string{"name", "age", "department", "salary"}
	types := []value.ColType{value.TypeStr, value.TypeInt64, value.TypeStr, value.TypeFloat64}
	data := [][]value.Value{
		cycle(baseNames, cfg.rowCount, nil),
		cycle(baseAges, cfg.rowCount, ageBlank),
		cycle(baseDepartments, cfg.rowCount, nil),
		cycle(baseSalaries, cfg.rowCount, salaryBlank),
	}
	if cfg.withActive {
		names = append(names, "active")
		types = append(types, value.TypeBool)
		data = append(data, cycle(baseActive, cfg.rowCount, nil))
	}

	df, err := dataframe.FromColumns(names, data, dataframe.WithTypes(types...))
	require.NoError(tb, err)
	return df
}

// CreateSimpleTestDataFrame creates a simple 2-column DataFrame for basic testing.
func CreateSimpleTestDataFrame(tb testing.TB) *dataframe.DataFrame {
	tb.Helper()
	df, err := dataframe.New([][]value.Value{
		value.Values("Alice", int64(25)),
		value.Values("Bob", int64(30)),
	}, []string{"name", "age"})
	require.NoError(tb, err)
	return df
}

// AssertDataFrameEqual compares shape, column types, cells and row keys.
func AssertDataFrameEqual(t *testing.T, expected, actual *dataframe.DataFrame) {
	t.Helper()

	require.NotNil(t, expected, "expected DataFrame should not be nil")
	require.NotNil(t, actual, "actual DataFrame should not be nil")

	assert.Equal(t, expected.Len(), actual.Len(), "DataFrame lengths should match")
	assert.Equal(t, expected.Columns(), actual.Columns(), "DataFrame columns should match")
	assert.Equal(t, expected.Types(), actual.Types(), "DataFrame column types should match")
	assert.Equal(t, expected.Index().Keys(), actual.Index().Keys(), "DataFrame row keys should match")

	for _, colName := range expected.Columns() {
		expectedCol, err := expected.Column(colName)
		require.NoError(t, err, "expected column %s should exist", colName)
		actualCol, err := actual.Column(colName)
		require.NoError(t, err, "actual column %s should exist", colName)
		assert.Equal(t, expectedCol, actualCol, "column %s data should match", colName)
	}
}

// AssertDataFrameHasColumns verifies that a DataFrame has the expected columns.
func AssertDataFrameHasColumns(t *testing.T, df *dataframe.DataFrame, expectedColumns []string) {
	t.Helper()

	require.NotNil(t, df, "DataFrame should not be nil")
	assert.Len(t, df.Columns(), len(expectedColumns), "column count should match")
	for _, col := range expectedColumns {
		assert.True(t, df.HasColumn(col), "DataFrame should have column %s", col)
	}
}

// AssertDataFrameNotEmpty verifies that a DataFrame is not empty.
func AssertDataFrameNotEmpty(t *testing.T, df *dataframe.DataFrame) {
	t.Helper()

	require.NotNil(t, df, "DataFrame should not be nil")
	assert.Positive(t, df.Len(), "DataFrame should not be empty")
	assert.Positive(t, df.Width(), "DataFrame should have columns")
}
