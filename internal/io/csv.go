package io

import (
	"context"
	"encoding/csv"
	"fmt"
	"slices"
	"time"

	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/parallel"
	"github.com/paveg/tabula/internal/value"
	"go.uber.org/zap"
)

// Read reads CSV data and returns a DataFrame. Column types are detected per
// cell and widened across the column (Int32 to Int64 to Float64); columns
// mixing other kinds are read as text.
func (r *CSVReader) Read() (*dataframe.DataFrame, error) {
	const op = "ReadCSV"
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return dataframe.CreateEmpty(nil)
	}

	var headers []string
	var dataRows [][]string
	if r.options.Header {
		headers = records[0]
		dataRows = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
		dataRows = records
	}

	for name := range r.options.Types {
		if !slices.Contains(headers, name) {
			return nil, errors.NewColumnNotFoundError(op, name)
		}
	}

	var pool *parallel.WorkerPool
	if r.options.Parallel {
		pool = parallel.NewWorkerPool(r.options.Workers)
	}
	types := make([]value.ColType, len(headers))
	columns, err := parallel.Map(context.Background(), pool, headers,
		func(_ context.Context, c int, name string) ([]value.Value, error) {
			cells := make([]string, len(dataRows))
			for i, row := range dataRows {
				cells[i] = row[c]
			}
			t, ok := r.options.Types[name]
			if !ok {
				t = r.detectColumn(cells)
			}
			types[c] = t
			return r.parseColumn(op, name, cells, t)
		})
	if err != nil {
		return nil, err
	}

	logging.Debug("read CSV", zap.Int("rows", len(dataRows)), zap.Int("columns", len(headers)))
	if len(r.options.Types) > 0 {
		return dataframe.FromColumns(headers, columns, dataframe.WithTypes(types...))
	}
	return dataframe.FromColumns(headers, columns)
}

func (r *CSVReader) isMissing(s string) bool {
	return s == "" || s == value.MissingText || (r.options.MissingToken != "" && s == r.options.MissingToken)
}

func (r *CSVReader) detectColumn(cells []string) value.ColType {
	var current value.ColType
	seen := false
	for _, s := range cells {
		if r.isMissing(s) {
			continue
		}
		t := detectText(s, r.options.DateTimeLayout)
		if !seen {
			current, seen = t, true
			continue
		}
		current = widen(current, t)
		if current == value.TypeStr {
			break
		}
	}
	if !seen {
		return value.TypeStr
	}
	return current
}

func (r *CSVReader) parseColumn(op, name string, cells []string, t value.ColType) ([]value.Value, error) {
	col := make([]value.Value, len(cells))
	for i, s := range cells {
		if r.isMissing(s) {
			col[i] = value.Missing
			continue
		}
		v, err := value.Parse(s, t, r.options.MissingToken, layouts(r.options.DateTimeLayout)...)
		if err != nil {
			return nil, errors.NewTypeConversionError(op, name, t.String(), err)
		}
		col[i] = v
	}
	return col, nil
}

// detectText is value.Detect with an extra preferred timestamp layout
func detectText(s, layout string) value.ColType {
	if layout != "" {
		if _, err := time.Parse(layout, s); err == nil {
			return value.TypeDateTime
		}
	}
	return value.Detect(s)
}

// widen returns the narrowest type holding both a and b
func widen(a, b value.ColType) value.ColType {
	if a == b {
		return a
	}
	if a.IsNumeric() && b.IsNumeric() {
		if a == value.TypeFloat64 || b == value.TypeFloat64 || a == value.TypeFloat32 || b == value.TypeFloat32 {
			return value.TypeFloat64
		}
		return value.TypeInt64
	}
	return value.TypeStr
}

func layouts(layout string) []string {
	if layout == "" {
		return nil
	}
	return []string{layout}
}

// Write writes the DataFrame to CSV format
func (w *CSVWriter) Write(df *dataframe.DataFrame) error {
	if df == nil {
		return errors.NewInvalidInputError("WriteCSV", "DataFrame cannot be nil")
	}
	csvWriter := csv.NewWriter(w.writer)
	csvWriter.Comma = w.options.Delimiter

	offset := 0
	if w.options.WriteIndex {
		offset = 1
	}

	// Write headers if required
	if w.options.Header {
		headers := make([]string, 0, df.Width()+offset)
		if w.options.WriteIndex {
			headers = append(headers, df.IndexName())
		}
		headers = append(headers, df.Columns()...)
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("writing headers: %w", err)
		}
	}

	keys := df.Index().Keys()
	for i, row := range df.Values() {
		record := make([]string, 0, len(row)+offset)
		if w.options.WriteIndex {
			record = append(record, w.format(keys[i]))
		}
		for _, v := range row {
			record = append(record, w.format(v))
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

func (w *CSVWriter) format(v value.Value) string {
	return formatCell(v, w.options.MissingToken, w.options.DateTimeLayout)
}

// formatCell renders v as text. Missing becomes missingToken.
func formatCell(v value.Value, missingToken, layout string) string {
	switch {
	case v.IsMissing():
		return missingToken
	case v.Kind() == value.KindDateTime && layout != "":
		return v.AsTime().Format(layout)
	default:
		return v.String()
	}
}
