package io

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
	"github.com/paveg/tabula/internal/value"
)

// colTypeKey is the field metadata key carrying the column type name, so
// Categorical columns survive a round trip through their string storage.
const colTypeKey = "tabula.coltype"

// ArrowType returns the Arrow data type used to store column type t
func ArrowType(t value.ColType) (arrow.DataType, error) {
	switch t {
	case value.TypeBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case value.TypeInt32:
		return arrow.PrimitiveTypes.Int32, nil
	case value.TypeInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case value.TypeFloat32:
		return arrow.PrimitiveTypes.Float32, nil
	case value.TypeFloat64:
		return arrow.PrimitiveTypes.Float64, nil
	case value.TypeStr, value.TypeCategorical:
		return arrow.BinaryTypes.String, nil
	case value.TypeDateTime:
		return arrow.FixedWidthTypes.Timestamp_ns, nil
	default:
		return nil, errors.NewUnsupportedTypeError("ArrowType", t.String())
	}
}

// colTypeOf maps an Arrow type back to a column type
func colTypeOf(dt arrow.DataType) (value.ColType, error) {
	switch dt.ID() {
	case arrow.BOOL:
		return value.TypeBool, nil
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.UINT8, arrow.UINT16:
		return value.TypeInt32, nil
	case arrow.INT64, arrow.UINT32:
		return value.TypeInt64, nil
	case arrow.FLOAT32:
		return value.TypeFloat32, nil
	case arrow.FLOAT64:
		return value.TypeFloat64, nil
	case arrow.STRING, arrow.LARGE_STRING:
		return value.TypeStr, nil
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return value.TypeDateTime, nil
	default:
		return 0, errors.NewUnsupportedTypeError("FromArrow", dt.String())
	}
}

func field(name string, t value.ColType) (arrow.Field, error) {
	dt, err := ArrowType(t)
	if err != nil {
		return arrow.Field{}, err
	}
	return arrow.Field{
		Name:     name,
		Type:     dt,
		Nullable: true,
		Metadata: arrow.NewMetadata([]string{colTypeKey}, []string{t.String()}),
	}, nil
}

// fieldColType honors the column type metadata and falls back to the
// physical Arrow type.
func fieldColType(f arrow.Field) (value.ColType, error) {
	if i := f.Metadata.FindKey(colTypeKey); i >= 0 {
		if t, err := value.ParseColType(f.Metadata.Values()[i]); err == nil {
			return t, nil
		}
	}
	return colTypeOf(f.Type)
}

// buildArray appends values to a new array of column type t
func buildArray(mem memory.Allocator, t value.ColType, values []value.Value) (arrow.Array, error) {
	dt, err := ArrowType(t)
	if err != nil {
		return nil, err
	}
	b := array.NewBuilder(mem, dt)
	defer b.Release()
	b.Reserve(len(values))

	for _, v := range values {
		if v.IsMissing() {
			b.AppendNull()
			continue
		}
		switch bb := b.(type) {
		case *array.BooleanBuilder:
			bb.Append(v.AsBool())
		case *array.Int32Builder:
			bb.Append(int32(v.AsInt64()))
		case *array.Int64Builder:
			bb.Append(v.AsInt64())
		case *array.Float32Builder:
			f, _ := v.Float()
			bb.Append(float32(f))
		case *array.Float64Builder:
			f, _ := v.Float()
			bb.Append(f)
		case *array.StringBuilder:
			bb.Append(v.String())
		case *array.TimestampBuilder:
			bb.Append(arrow.Timestamp(v.AsTime().UnixNano()))
		default:
			return nil, errors.NewUnsupportedTypeError("ToArrow", dt.String())
		}
	}
	return b.NewArray(), nil
}

// arrayValues reads every slot of arr as a value of column type t
func arrayValues(arr arrow.Array, t value.ColType) ([]value.Value, error) {
	out := make([]value.Value, arr.Len())
	for i := range out {
		if arr.IsNull(i) {
			out[i] = value.Missing
			continue
		}
		var v value.Value
		switch a := arr.(type) {
		case *array.Boolean:
			v = value.Bool(a.Value(i))
		case *array.Int8:
			v = value.Int32(int32(a.Value(i)))
		case *array.Int16:
			v = value.Int32(int32(a.Value(i)))
		case *array.Int32:
			v = value.Int32(a.Value(i))
		case *array.Uint8:
			v = value.Int32(int32(a.Value(i)))
		case *array.Uint16:
			v = value.Int32(int32(a.Value(i)))
		case *array.Uint32:
			v = value.Int64(int64(a.Value(i)))
		case *array.Int64:
			v = value.Int64(a.Value(i))
		case *array.Float32:
			v = value.Float32(a.Value(i))
		case *array.Float64:
			v = value.Float64(a.Value(i))
		case *array.String:
			v = value.String(a.Value(i))
		case *array.LargeString:
			v = value.String(a.Value(i))
		case *array.Timestamp:
			unit := a.DataType().(*arrow.TimestampType).Unit
			v = value.DateTime(a.Value(i).ToTime(unit))
		case *array.Date32:
			v = value.DateTime(a.Value(i).ToTime())
		case *array.Date64:
			v = value.DateTime(a.Value(i).ToTime())
		default:
			return nil, errors.NewUnsupportedTypeError("FromArrow", arr.DataType().String())
		}
		cv, err := value.Convert(v, t)
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return out, nil
}

// ToRecord converts the columns of df into an Arrow record. The row index is
// not stored. The caller must release the record.
func ToRecord(mem memory.Allocator, df *dataframe.DataFrame) (arrow.Record, error) {
	if df == nil {
		return nil, errors.NewInvalidInputError("ToRecord", "DataFrame cannot be nil")
	}
	names := df.Columns()
	types := df.Types()
	fields := make([]arrow.Field, len(names))
	cols := make([]arrow.Array, 0, len(names))
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()

	for i, name := range names {
		f, err := field(name, types[i])
		if err != nil {
			return nil, err
		}
		fields[i] = f

		values, err := df.Column(name)
		if err != nil {
			return nil, err
		}
		arr, err := buildArray(mem, types[i], values)
		if err != nil {
			return nil, err
		}
		cols = append(cols, arr)
	}

	schema := arrow.NewSchema(fields, nil)
	return array.NewRecord(schema, cols, int64(df.Len())), nil
}

// FromRecord converts an Arrow record into a DataFrame keyed 0..n-1
func FromRecord(rec arrow.Record) (*dataframe.DataFrame, error) {
	if rec == nil {
		return nil, errors.NewInvalidInputError("FromRecord", "record cannot be nil")
	}
	schema := rec.Schema()
	names := make([]string, rec.NumCols())
	types := make([]value.ColType, rec.NumCols())
	columns := make([][]value.Value, rec.NumCols())

	for i := range names {
		f := schema.Field(i)
		t, err := fieldColType(f)
		if err != nil {
			return nil, err
		}
		values, err := arrayValues(rec.Column(i), t)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", f.Name, err)
		}
		names[i], types[i], columns[i] = f.Name, t, values
	}
	return dataframe.FromColumns(names, columns, dataframe.WithTypes(types...))
}

// fromTable converts every chunk of an Arrow table into a DataFrame
func fromTable(table arrow.Table) (*dataframe.DataFrame, error) {
	schema := table.Schema()
	ncols := int(table.NumCols())
	names := make([]string, ncols)
	types := make([]value.ColType, ncols)
	columns := make([][]value.Value, ncols)

	for i := range ncols {
		f := schema.Field(i)
		t, err := fieldColType(f)
		if err != nil {
			return nil, err
		}
		values := make([]value.Value, 0, table.NumRows())
		for _, chunk := range table.Column(i).Data().Chunks() {
			part, err := arrayValues(chunk, t)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", f.Name, err)
			}
			values = append(values, part...)
		}
		names[i], types[i], columns[i] = f.Name, t, values
	}
	return dataframe.FromColumns(names, columns, dataframe.WithTypes(types...))
}

// SeriesToArray converts the values of s into an Arrow array. The caller
// must release the array.
func SeriesToArray(mem memory.Allocator, s *series.Series) (arrow.Array, error) {
	if s == nil {
		return nil, errors.NewInvalidInputError("SeriesToArray", "series cannot be nil")
	}
	return buildArray(mem, s.Type(), s.Values())
}

// SeriesFromArray wraps arr as a Series named name keyed 0..n-1
func SeriesFromArray(name string, arr arrow.Array) (*series.Series, error) {
	if arr == nil {
		return nil, errors.NewInvalidInputError("SeriesFromArray", "array cannot be nil")
	}
	t, err := colTypeOf(arr.DataType())
	if err != nil {
		return nil, err
	}
	values, err := arrayValues(arr, t)
	if err != nil {
		return nil, err
	}
	return series.New(name, values, series.WithType(t))
}
