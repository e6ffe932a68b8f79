package io

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/logging"
	"go.uber.org/zap"
)

// Read reads Parquet data and returns a DataFrame keyed 0..n-1.
func (r *ParquetReader) Read() (*dataframe.DataFrame, error) {
	return r.ReadContext(context.Background())
}

// ReadContext is Read with a caller supplied context
func (r *ParquetReader) ReadContext(ctx context.Context) (*dataframe.DataFrame, error) {
	// Parquet needs random access, so the whole input is buffered
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}

	pqReader, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating parquet file reader: %w", err)
	}
	defer pqReader.Close()

	props := pqarrow.ArrowReadProperties{}
	if r.options.BatchSize > 0 {
		props.BatchSize = int64(r.options.BatchSize)
	}
	arrowReader, err := pqarrow.NewFileReader(pqReader, props, r.mem)
	if err != nil {
		return nil, fmt.Errorf("creating arrow file reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	defer table.Release()

	logging.Debug("read parquet", zap.Int64("rows", table.NumRows()), zap.Int64("columns", table.NumCols()))
	return fromTable(table)
}

func compression(name string) (compress.Compression, error) {
	switch name {
	case "", "snappy":
		return compress.Codecs.Snappy, nil
	case "gzip":
		return compress.Codecs.Gzip, nil
	case "lz4":
		return compress.Codecs.Lz4Raw, nil
	case "zstd":
		return compress.Codecs.Zstd, nil
	case "uncompressed":
		return compress.Codecs.Uncompressed, nil
	default:
		return compress.Codecs.Uncompressed, errors.NewInvalidInputError("WriteParquet", "unknown compression "+name)
	}
}

// Write writes the DataFrame to Parquet format. The row index is not stored.
func (w *ParquetWriter) Write(df *dataframe.DataFrame) error {
	codec, err := compression(w.options.Compression)
	if err != nil {
		return err
	}

	rec, err := ToRecord(w.mem, df)
	if err != nil {
		return fmt.Errorf("converting DataFrame to Arrow record: %w", err)
	}
	defer rec.Release()

	batch := int64(w.options.BatchSize)
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	props := parquet.NewWriterProperties(
		parquet.WithCompression(codec),
		parquet.WithBatchSize(batch),
		parquet.WithAllocator(w.mem),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithAllocator(w.mem),
		pqarrow.WithStoreSchema(),
	)

	writer, err := pqarrow.NewFileWriter(rec.Schema(), w.writer, props, arrowProps)
	if err != nil {
		return fmt.Errorf("creating file writer: %w", err)
	}
	if err := writer.Write(rec); err != nil {
		_ = writer.Close()
		return fmt.Errorf("writing record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing file writer: %w", err)
	}
	return nil
}
