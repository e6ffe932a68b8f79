package io

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/value"
	"go.uber.org/zap"
)

// Read reads JSON data and returns a DataFrame.
func (r *JSONReader) Read() (*dataframe.DataFrame, error) {
	var records []map[string]any
	var err error
	switch r.options.Format {
	case JSONArray:
		records, err = r.readJSONArray()
	case JSONLines:
		records, err = r.readJSONLines()
	default:
		return nil, errors.NewInvalidInputError("ReadJSON", fmt.Sprintf("unsupported JSON format: %d", r.options.Format))
	}
	if err != nil {
		return nil, err
	}
	if r.options.MaxRecords > 0 && len(records) > r.options.MaxRecords {
		records = records[:r.options.MaxRecords]
	}
	return r.recordsToDataFrame(records)
}

func newDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec
}

// readJSONArray reads JSON array format.
func (r *JSONReader) readJSONArray() ([]map[string]any, error) {
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading JSON data: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []map[string]any
	if err := newDecoder(data).Decode(&records); err != nil {
		return nil, fmt.Errorf("unmarshaling JSON array: %w", err)
	}
	return records, nil
}

// readJSONLines reads JSON Lines format.
func (r *JSONReader) readJSONLines() ([]map[string]any, error) {
	scanner := bufio.NewScanner(r.reader)
	var records []map[string]any

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record map[string]any
		if err := newDecoder([]byte(line)).Decode(&record); err != nil {
			return nil, fmt.Errorf("unmarshaling JSON line %d: %w", lineNum, err)
		}
		records = append(records, record)

		if r.options.MaxRecords > 0 && len(records) >= r.options.MaxRecords {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning JSON lines: %w", err)
	}
	return records, nil
}

func (r *JSONReader) columnNames(records []map[string]any) []string {
	if len(r.options.Columns) > 0 {
		return slices.Clone(r.options.Columns)
	}
	seen := make(map[string]struct{})
	var names []string
	for _, rec := range records {
		for k := range rec {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				names = append(names, k)
			}
		}
	}
	slices.Sort(names)
	return names
}

func (r *JSONReader) recordsToDataFrame(records []map[string]any) (*dataframe.DataFrame, error) {
	const op = "ReadJSON"
	names := r.columnNames(records)
	columns := make([][]value.Value, len(names))

	for c, name := range names {
		raw := make([]any, len(records))
		for i, rec := range records {
			raw[i] = rec[name]
		}
		t, err := r.detectColumn(op, name, raw)
		if err != nil {
			return nil, err
		}
		col := make([]value.Value, len(raw))
		for i, cell := range raw {
			v, err := r.toValue(cell, t)
			if err != nil {
				return nil, errors.NewTypeConversionError(op, name, t.String(), err)
			}
			col[i] = v
		}
		columns[c] = col
	}

	logging.Debug("read JSON", zap.Int("records", len(records)), zap.Int("columns", len(names)))
	return dataframe.FromColumns(names, columns)
}

func (r *JSONReader) cellType(cell any) (value.ColType, bool, error) {
	switch x := cell.(type) {
	case nil:
		return 0, false, nil
	case bool:
		return value.TypeBool, true, nil
	case json.Number:
		return value.Detect(x.String()), true, nil
	case string:
		if detectText(x, r.options.DateTimeLayout) == value.TypeDateTime {
			return value.TypeDateTime, true, nil
		}
		return value.TypeStr, true, nil
	default:
		return 0, false, fmt.Errorf("nested %T values are not supported", cell)
	}
}

func (r *JSONReader) detectColumn(op, name string, raw []any) (value.ColType, error) {
	var current value.ColType
	seen := false
	for _, cell := range raw {
		t, ok, err := r.cellType(cell)
		if err != nil {
			return 0, errors.NewUnsupportedError(op, name, err.Error())
		}
		if !ok {
			continue
		}
		if !seen {
			current, seen = t, true
			continue
		}
		current = widen(current, t)
	}
	if !seen {
		return value.TypeStr, nil
	}
	return current, nil
}

func (r *JSONReader) toValue(cell any, t value.ColType) (value.Value, error) {
	switch x := cell.(type) {
	case nil:
		return value.Missing, nil
	case bool:
		return value.Convert(value.Bool(x), t)
	case json.Number:
		if t == value.TypeStr {
			return value.String(x.String()), nil
		}
		return value.Parse(x.String(), t, "")
	case string:
		if t == value.TypeStr {
			return value.String(x), nil
		}
		return value.Parse(x, t, "", layouts(r.options.DateTimeLayout)...)
	default:
		return value.Missing, fmt.Errorf("unexpected %T", cell)
	}
}

// Write writes the DataFrame as JSON records, keeping column order.
func (w *JSONWriter) Write(df *dataframe.DataFrame) error {
	if df == nil {
		return errors.NewInvalidInputError("WriteJSON", "DataFrame cannot be nil")
	}
	switch w.options.Format {
	case JSONArray, JSONLines:
	default:
		return errors.NewInvalidInputError("WriteJSON", fmt.Sprintf("unsupported JSON format: %d", w.options.Format))
	}

	names := make([][]byte, df.Width())
	for c, name := range df.Columns() {
		b, err := json.Marshal(name)
		if err != nil {
			return fmt.Errorf("encoding column name %q: %w", name, err)
		}
		names[c] = b
	}

	bw := bufio.NewWriter(w.writer)
	lines := w.options.Format == JSONLines
	if !lines {
		bw.WriteByte('[')
	}
	for i, row := range df.Values() {
		if i > 0 && !lines {
			bw.WriteByte(',')
		}
		bw.WriteByte('{')
		for c, v := range row {
			if c > 0 {
				bw.WriteByte(',')
			}
			bw.Write(names[c])
			bw.WriteByte(':')
			cell, err := json.Marshal(w.jsonValue(v))
			if err != nil {
				return fmt.Errorf("encoding row %d: %w", i, err)
			}
			bw.Write(cell)
		}
		bw.WriteByte('}')
		if lines {
			bw.WriteByte('\n')
		}
	}
	if !lines {
		bw.WriteString("]\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}

func (w *JSONWriter) jsonValue(v value.Value) any {
	switch v.Kind() {
	case value.KindMissing:
		return nil
	case value.KindDateTime:
		if w.options.DateTimeLayout != "" {
			return v.AsTime().Format(w.options.DateTimeLayout)
		}
		return v.String()
	case value.KindFloat32, value.KindFloat64:
		f, _ := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return v.Interface()
	default:
		return v.Interface()
	}
}
