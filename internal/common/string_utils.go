// Package common provides shared utilities for string representations and type conversions
package common

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultCellWidth is the column width used when rendering tables.
const DefaultCellWidth = 15

// StringFormatter renders tabular data as fixed-width text.
type StringFormatter struct {
	cellWidth int
}

// NewStringFormatter creates a new StringFormatter with the given cell width.
// A non-positive width falls back to DefaultCellWidth.
func NewStringFormatter(cellWidth int) *StringFormatter {
	if cellWidth <= 0 {
		cellWidth = DefaultCellWidth
	}
	return &StringFormatter{cellWidth: cellWidth}
}

// PadRight pads or truncates s to exactly the formatter's cell width.
func (sf *StringFormatter) PadRight(s string) string {
	n := utf8.RuneCountInString(s)
	if n > sf.cellWidth {
		runes := []rune(s)
		if sf.cellWidth <= 1 {
			return string(runes[:sf.cellWidth])
		}
		return string(runes[:sf.cellWidth-1]) + "…"
	}
	return s + strings.Repeat(" ", sf.cellWidth-n)
}

// FormatRow renders one line of cells.
func (sf *StringFormatter) FormatRow(cells []string) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(sf.PadRight(c))
	}
	return strings.TrimRight(b.String(), " ")
}

// FormatTable renders a header and rows, followed by a shape footer.
// Rows beyond maxRows are elided with a marker line.
func (sf *StringFormatter) FormatTable(header []string, rows [][]string, maxRows int) string {
	var b strings.Builder
	b.WriteString(sf.FormatRow(header))
	b.WriteByte('\n')
	shown := len(rows)
	if maxRows > 0 && shown > maxRows {
		shown = maxRows
	}
	for _, r := range rows[:shown] {
		b.WriteString(sf.FormatRow(r))
		b.WriteByte('\n')
	}
	if shown < len(rows) {
		b.WriteString("...\n")
	}
	fmt.Fprintf(&b, "[%d rows x %d columns]", len(rows), max(len(header)-1, 0))
	return b.String()
}

// FormatList formats a list of items with separator.
func (sf *StringFormatter) FormatList(items []string, separator string) string {
	return strings.Join(items, separator)
}

// Default formatter instance for convenience.
var defaultFormatter = NewStringFormatter(DefaultCellWidth)

// PadRight pads s using the default formatter.
func PadRight(s string) string {
	return defaultFormatter.PadRight(s)
}

// FormatTable renders a table using the default formatter.
func FormatTable(header []string, rows [][]string, maxRows int) string {
	return defaultFormatter.FormatTable(header, rows, maxRows)
}
