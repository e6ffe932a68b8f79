package testutil

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
	"github.com/paveg/tabula/internal/dataframe"
	"github.com/paveg/tabula/internal/value"
	"github.com/stretchr/testify/require"
)

var sqlTypeNames = map[value.ColType]string{
	value.TypeBool:        "BOOLEAN",
	value.TypeCategorical: "TEXT",
	value.TypeInt32:       "INT",
	value.TypeInt64:       "BIGINT",
	value.TypeFloat32:     "FLOAT4",
	value.TypeFloat64:     "DOUBLE",
	value.TypeStr:         "TEXT",
	value.TypeDateTime:    "DATETIME",
}

// SetupSQLiteTest opens an in-memory SQLite database closed on test cleanup.
//
// Example usage:
//
//	db := testutil.SetupSQLiteTest(t)
//	testutil.LoadTable(t, db, "employees", testutil.CreateTestDataFrame(t))
func SetupSQLiteTest(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err, "opening sqlite should succeed")
	// every connection to :memory: is a fresh database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// LoadTable creates table from the schema of df and inserts its rows.
func LoadTable(t *testing.T, db *sql.DB, table string, df *dataframe.DataFrame) {
	t.Helper()

	columns := df.Columns()
	defs := make([]string, len(columns))
	for i, t := range df.Types() {
		defs[i] = fmt.Sprintf("%q %s", columns[i], sqlTypeNames[t])
	}
	_, err := db.Exec(fmt.Sprintf("CREATE TABLE %q (%s)", table, strings.Join(defs, ", ")))
	require.NoError(t, err, "creating table should succeed")

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := db.Prepare(fmt.Sprintf("INSERT INTO %q VALUES (%s)", table, marks))
	require.NoError(t, err, "preparing insert should succeed")
	defer stmt.Close()

	for _, row := range df.Values() {
		args := make([]any, len(row))
		for i, v := range row {
			args[i] = v.Interface()
		}
		_, err := stmt.Exec(args...)
		require.NoError(t, err, "inserting row should succeed")
	}
}
