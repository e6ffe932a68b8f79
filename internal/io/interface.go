// Package io reads and writes DataFrames in external formats.
//
// Key components:
//   - DataReader/DataWriter interfaces for pluggable I/O backends
//   - CSVReader/CSVWriter for delimited text with per-column type detection
//   - JSONReader/JSONWriter for arrays of JSON records
//   - ParquetReader/ParquetWriter backed by Apache Arrow
//   - ToRecord/FromRecord and SeriesToArray/SeriesFromArray for Arrow interop
//   - ReadSQL for database/sql result sets
//
// Memory management: Arrow records and arrays returned by this package are
// reference counted and must be released by the caller.
package io

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/value"
)

// DefaultBatchSize is the default row group batch size for Parquet writes
const DefaultBatchSize = 1000

// DataReader defines the interface for reading data from various sources
type DataReader interface {
	// Read reads data from the source and returns a DataFrame
	Read() (*dataframe.DataFrame, error)
}

// DataWriter defines the interface for writing data to various destinations
type DataWriter interface {
	// Write writes the DataFrame to the destination
	Write(df *dataframe.DataFrame) error
}

// CSVOptions contains configuration options for CSV operations
type CSVOptions struct {
	// Delimiter is the field delimiter (default: comma)
	Delimiter rune
	// Comment is the comment character (default: 0 = disabled)
	Comment rune
	// Header indicates whether the first row contains headers
	Header bool
	// SkipInitialSpace indicates whether to skip initial whitespace
	SkipInitialSpace bool
	// MissingToken is read as Missing in addition to the empty field and
	// written for missing cells.
	MissingToken string
	// DateTimeLayout is tried before the built-in timestamp layouts and used
	// when writing DateTime cells.
	DateTimeLayout string
	// Types overrides detection for the named columns
	Types map[string]value.ColType
	// WriteIndex writes the row keys as the first column
	WriteIndex bool
	// Parallel detects and parses columns concurrently
	Parallel bool
	// Workers bounds the goroutines used when Parallel is set (0 = NumCPU)
	Workers int
}

// DefaultCSVOptions returns default CSV options, taking the missing token and
// timestamp layout from the global configuration.
func DefaultCSVOptions() CSVOptions {
	cfg := config.GetGlobalConfig()
	return CSVOptions{
		Delimiter:      ',',
		Header:         true,
		MissingToken:   cfg.MissingValueToken,
		DateTimeLayout: cfg.DateTimeLayout,
	}
}

// CSVReader reads CSV data and converts it to DataFrames
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
}

// NewCSVReader creates a new CSV reader with the specified options
func NewCSVReader(reader io.Reader, options CSVOptions) *CSVReader {
	return &CSVReader{
		reader:  reader,
		options: options,
	}
}

// CSVWriter writes DataFrames to CSV format
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a new CSV writer with the specified options
func NewCSVWriter(writer io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{
		writer:  writer,
		options: options,
	}
}

// JSONFormat selects the JSON layout
type JSONFormat int

const (
	// JSONArray is a single array of objects
	JSONArray JSONFormat = iota
	// JSONLines is one object per line
	JSONLines
)

// JSONOptions contains configuration options for JSON record operations
type JSONOptions struct {
	// Format is the JSON layout (default: JSONArray)
	Format JSONFormat
	// Columns fixes the column order. When empty the sorted union of record
	// keys is used.
	Columns []string
	// MaxRecords limits the number of records read (0 = unlimited)
	MaxRecords int
	// DateTimeLayout parses and formats DateTime cells
	DateTimeLayout string
}

// DefaultJSONOptions returns default JSON options
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{DateTimeLayout: config.GetGlobalConfig().DateTimeLayout}
}

// JSONReader reads an array of JSON objects into a DataFrame
type JSONReader struct {
	reader  io.Reader
	options JSONOptions
}

// NewJSONReader creates a new JSON reader
func NewJSONReader(reader io.Reader, options JSONOptions) *JSONReader {
	return &JSONReader{reader: reader, options: options}
}

// JSONWriter writes a DataFrame as an array of JSON objects
type JSONWriter struct {
	writer  io.Writer
	options JSONOptions
}

// NewJSONWriter creates a new JSON writer
func NewJSONWriter(writer io.Writer, options JSONOptions) *JSONWriter {
	return &JSONWriter{writer: writer, options: options}
}

// ParquetOptions contains configuration options for Parquet operations
type ParquetOptions struct {
	// Compression type for Parquet files
	Compression string
	// BatchSize for reading/writing operations
	BatchSize int
}

// DefaultParquetOptions returns default Parquet options
func DefaultParquetOptions() ParquetOptions {
	return ParquetOptions{
		Compression: "snappy",
		BatchSize:   DefaultBatchSize,
	}
}

// ParquetReader reads Parquet data and converts it to DataFrames
type ParquetReader struct {
	reader  io.Reader
	options ParquetOptions
	mem     memory.Allocator
}

// NewParquetReader creates a new Parquet reader with the specified options
func NewParquetReader(reader io.Reader, options ParquetOptions, mem memory.Allocator) *ParquetReader {
	return &ParquetReader{
		reader:  reader,
		options: options,
		mem:     mem,
	}
}

// ParquetWriter writes DataFrames to Parquet format
type ParquetWriter struct {
	writer  io.Writer
	options ParquetOptions
	mem     memory.Allocator
}

// NewParquetWriter creates a new Parquet writer with the specified options
func NewParquetWriter(writer io.Writer, options ParquetOptions, mem memory.Allocator) *ParquetWriter {
	return &ParquetWriter{
		writer:  writer,
		options: options,
		mem:     mem,
	}
}
