package io

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/value"
	"go.uber.org/zap"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ReadSQL runs query and collects the result set into a DataFrame keyed
// 0..n-1. Column types come from the declared database types when they are
// recognized and are inferred from the scanned values otherwise.
func ReadSQL(ctx context.Context, db Querier, query string, args ...any) (*dataframe.DataFrame, error) {
	if db == nil {
		return nil, errors.NewInvalidInputError("ReadSQL", "database cannot be nil")
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running query: %w", err)
	}
	defer rows.Close()
	return ReadRows(rows)
}

// ReadRows collects an open result set into a DataFrame. It does not close rows.
func ReadRows(rows *sql.Rows) (*dataframe.DataFrame, error) {
	const op = "ReadSQL"
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("reading column types: %w", err)
	}

	names := make([]string, len(colTypes))
	declared := make([]value.ColType, len(colTypes))
	known := make([]bool, len(colTypes))
	for i, ct := range colTypes {
		names[i] = ct.Name()
		declared[i], known[i] = sqlColType(ct.DatabaseTypeName())
	}

	columns := make([][]value.Value, len(names))
	dest := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	n := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row %d: %w", n, err)
		}
		n++
		for i, raw := range dest {
			v, err := sqlValue(raw)
			if err != nil {
				return nil, errors.NewUnsupportedError(op, names[i], err.Error())
			}
			columns[i] = append(columns[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	types := make([]value.ColType, len(names))
	for i, col := range columns {
		if col == nil {
			columns[i] = []value.Value{}
		}
		if known[i] {
			types[i] = declared[i]
			continue
		}
		types[i], _ = value.Infer(col)
	}

	logging.Debug("read SQL", zap.Int("rows", n), zap.Int("columns", len(names)))
	return dataframe.FromColumns(names, columns, dataframe.WithTypes(types...))
}

// sqlColType maps a declared database type name onto a column type
func sqlColType(name string) (value.ColType, bool) {
	name = strings.ToUpper(name)
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	switch strings.TrimSpace(name) {
	case "BOOL", "BOOLEAN", "BIT":
		return value.TypeBool, true
	case "INT", "INT4", "SMALLINT", "TINYINT", "MEDIUMINT":
		return value.TypeInt32, true
	case "INTEGER", "BIGINT", "INT8":
		return value.TypeInt64, true
	case "FLOAT4":
		return value.TypeFloat32, true
	case "REAL", "FLOAT", "FLOAT8", "DOUBLE", "DOUBLE PRECISION", "NUMERIC", "DECIMAL":
		return value.TypeFloat64, true
	case "TEXT", "VARCHAR", "CHAR", "NVARCHAR", "NCHAR", "CLOB", "STRING":
		return value.TypeStr, true
	case "DATE", "DATETIME", "TIMESTAMP", "TIMESTAMPTZ":
		return value.TypeDateTime, true
	default:
		return 0, false
	}
}

func sqlValue(raw any) (value.Value, error) {
	switch x := raw.(type) {
	case []byte:
		return value.String(string(x)), nil
	case time.Time:
		return value.DateTime(x), nil
	default:
		return value.Of(raw)
	}
}
