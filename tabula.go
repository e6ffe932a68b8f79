// Package tabula provides an in-memory, row-indexed DataFrame library.
// This package is the sole public API for the library.
package tabula

import (
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tabula/internal/aggregation"
	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/dataframe"
	dfio "github.com/paveg/tabula/internal/io"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/series"
	"github.com/paveg/tabula/internal/value"
	"github.com/paveg/tabula/internal/version"
)

// Core types
type (
	// DataFrame is a table of typed columns sharing one row index.
	DataFrame = dataframe.DataFrame
	// GroupDataFrame partitions a DataFrame by one to three key columns.
	GroupDataFrame = dataframe.GroupDataFrame
	// Row is a read-only view of one DataFrame row.
	Row = dataframe.Row
	// Predicate selects rows for FilterFunc.
	Predicate = dataframe.Predicate
	// RowFunc computes one cell from a row.
	RowFunc = dataframe.RowFunc
	// Projection renames a column in Create.
	Projection = dataframe.Projection
	// ShiftSpec describes one column shift.
	ShiftSpec = dataframe.ShiftSpec
	// Option configures DataFrame construction.
	Option = dataframe.Option
	// Series is a single named column with its own row index.
	Series = series.Series
	// SeriesOption configures Series construction.
	SeriesOption = series.Option
	// Value is a single tagged cell.
	Value = value.Value
	// ColType is a column type tag.
	ColType = value.ColType
	// Aggregation names a reduction.
	Aggregation = aggregation.Kind
	// Operator is a filter comparison.
	Operator = dataframe.Operator
	// JoinType selects inner or left joins.
	JoinType = dataframe.JoinType
	// Order is a sort direction.
	Order = dataframe.Order
	// DiffType selects seasonal or recursive differencing.
	DiffType = dataframe.DiffType
	// Config holds library-wide settings.
	Config = config.Config
)

// I/O option types
type (
	CSVOptions     = dfio.CSVOptions
	JSONOptions    = dfio.JSONOptions
	ParquetOptions = dfio.ParquetOptions
)

// Column types
const (
	TypeBool        = value.TypeBool
	TypeCategorical = value.TypeCategorical
	TypeInt32       = value.TypeInt32
	TypeInt64       = value.TypeInt64
	TypeFloat32     = value.TypeFloat32
	TypeFloat64     = value.TypeFloat64
	TypeStr         = value.TypeStr
	TypeDateTime    = value.TypeDateTime
)

// Aggregations
const (
	AggNone          = aggregation.None
	AggCount         = aggregation.Count
	AggUnique        = aggregation.Unique
	AggTop           = aggregation.Top
	AggFrequency     = aggregation.Frequency
	AggFirst         = aggregation.First
	AggLast          = aggregation.Last
	AggSum           = aggregation.Sum
	AggAvg           = aggregation.Avg
	AggMin           = aggregation.Min
	AggMax           = aggregation.Max
	AggStd           = aggregation.Std
	AggMedian        = aggregation.Median
	AggFirstQuartile = aggregation.FirstQuartile
	AggThirdQuartile = aggregation.ThirdQuartile
	AggMode          = aggregation.Mode
	AggRandom        = aggregation.Random
)

// Filter operators
const (
	OpEqual          = dataframe.Equal
	OpNotEqual       = dataframe.NotEqual
	OpGreater        = dataframe.Greater
	OpLess           = dataframe.Less
	OpGreaterOrEqual = dataframe.GreaterOrEqual
	OpLessOrEqual    = dataframe.LessOrEqual
	OpIsNull         = dataframe.IsNull
	OpNonNull        = dataframe.NonNull
)

// Join, sort and difference modes
const (
	InnerJoin  = dataframe.InnerJoin
	LeftJoin   = dataframe.LeftJoin
	Ascending  = dataframe.Ascending
	Descending = dataframe.Descending
	Seasonal   = dataframe.Seasonal
	Recursive  = dataframe.Recursive
)

// JSON layouts
const (
	JSONArray = dfio.JSONArray
	JSONLines = dfio.JSONLines
)

// Missing is the absent-value sentinel
var Missing = value.Missing

// Values wraps raw Go values; nil becomes Missing. It panics on unsupported input.
func Values(vs ...any) []Value { return value.Values(vs...) }

// ParseAggregation parses an aggregation name such as "sum" or "25%"
func ParseAggregation(s string) (Aggregation, error) { return aggregation.ParseKind(s) }

// New creates a DataFrame from row-major values.
func New(rows [][]Value, columns []string, opts ...Option) (*DataFrame, error) {
	return dataframe.New(rows, columns, opts...)
}

// FromColumns creates a DataFrame from column-major data.
func FromColumns(columns []string, data [][]Value, opts ...Option) (*DataFrame, error) {
	return dataframe.FromColumns(columns, data, opts...)
}

// CreateEmpty returns a DataFrame with the given columns and no rows.
func CreateEmpty(columns []string, opts ...Option) (*DataFrame, error) {
	return dataframe.CreateEmpty(columns, opts...)
}

// WithTypes fixes the column types instead of inferring them.
func WithTypes(types ...ColType) Option { return dataframe.WithTypes(types...) }

// WithIndex sets the row keys and index name.
func WithIndex(keys []Value, name string) Option { return dataframe.WithIndex(keys, name) }

// NewSeries creates a Series from values.
func NewSeries(name string, values []Value, opts ...SeriesOption) (*Series, error) {
	return series.New(name, values, opts...)
}

// SeriesWithType fixes the Series type.
func SeriesWithType(t ColType) SeriesOption { return series.WithType(t) }

// SeriesWithIndex sets the Series row keys and index name.
func SeriesWithIndex(keys []Value, name string) SeriesOption { return series.WithIndex(keys, name) }

// ToSeries returns column of df as a Series sharing df's row keys.
func ToSeries(df *DataFrame, column string) (*Series, error) {
	return series.FromDataFrame(df, column)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config { return config.NewConfig() }

// Configure validates cfg, installs it globally and rebuilds the logger.
func Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	config.SetGlobalConfig(cfg)
	return logging.Init(logging.FromConfig(cfg))
}

// LoadConfig reads a JSON or YAML configuration file.
func LoadConfig(filename string) (Config, error) {
	return config.LoadFromFile(filename)
}

// DefaultCSVOptions returns CSV options seeded from the global configuration.
func DefaultCSVOptions() CSVOptions { return dfio.DefaultCSVOptions() }

// DefaultJSONOptions returns JSON options seeded from the global configuration.
func DefaultJSONOptions() JSONOptions { return dfio.DefaultJSONOptions() }

// DefaultParquetOptions returns snappy-compressed Parquet options.
func DefaultParquetOptions() ParquetOptions { return dfio.DefaultParquetOptions() }

// ReadCSV reads delimited text into a DataFrame.
func ReadCSV(r io.Reader, opts CSVOptions) (*DataFrame, error) {
	return dfio.NewCSVReader(r, opts).Read()
}

// WriteCSV writes df as delimited text.
func WriteCSV(w io.Writer, df *DataFrame, opts CSVOptions) error {
	return dfio.NewCSVWriter(w, opts).Write(df)
}

// ReadJSON reads JSON records into a DataFrame.
func ReadJSON(r io.Reader, opts JSONOptions) (*DataFrame, error) {
	return dfio.NewJSONReader(r, opts).Read()
}

// WriteJSON writes df as JSON records.
func WriteJSON(w io.Writer, df *DataFrame, opts JSONOptions) error {
	return dfio.NewJSONWriter(w, opts).Write(df)
}

// ReadParquet reads a Parquet file into a DataFrame.
func ReadParquet(r io.Reader, opts ParquetOptions) (*DataFrame, error) {
	return dfio.NewParquetReader(r, opts, memory.DefaultAllocator).Read()
}

// WriteParquet writes df as a Parquet file.
func WriteParquet(w io.Writer, df *DataFrame, opts ParquetOptions) error {
	return dfio.NewParquetWriter(w, opts, memory.DefaultAllocator).Write(df)
}

// ToRecord converts df into an Arrow record; the caller releases it.
func ToRecord(mem memory.Allocator, df *DataFrame) (arrow.Record, error) {
	return dfio.ToRecord(mem, df)
}

// FromRecord converts an Arrow record into a DataFrame.
func FromRecord(rec arrow.Record) (*DataFrame, error) {
	return dfio.FromRecord(rec)
}

// ReadSQL runs query against db and collects the result set.
func ReadSQL(ctx context.Context, db dfio.Querier, query string, args ...any) (*DataFrame, error) {
	return dfio.ReadSQL(ctx, db, query, args...)
}

// BuildInfo returns version and build information.
func BuildInfo() version.BuildInfo {
	return version.Info()
}
