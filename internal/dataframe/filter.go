package dataframe

import (
	"cmp"

	"github.com/paveg/tabula/internal/common"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/validation"
	"github.com/paveg/tabula/internal/value"
	"go.uber.org/zap"
)

// Operator compares a cell with a filter value
type Operator int

// Filter operators
const (
	Equal Operator = iota
	NotEqual
	Greater
	Less
	GreaterOrEqual
	LessOrEqual
	IsNull
	NonNull
)

// String returns the operator symbol
func (o Operator) String() string {
	return common.FormatFilterOperator(int(o))
}

// Filter returns the rows satisfying every condition columns[i] ops[i] values[i].
//
// Missing cells never match a comparison; IsNull matches exactly the missing
// cells and NonNull the others, ignoring the filter value. Numeric columns
// compare as numbers, Str and Categorical cells by their text.
//
// Ordering operators are unsupported on Str and Categorical columns, and Bool
// columns accept only Equal, NotEqual, IsNull and NonNull.
func (df *DataFrame) Filter(columns []string, values []value.Value, ops []Operator) (*DataFrame, error) {
	const op = "Filter"
	if len(columns) == 0 {
		return nil, errors.NewInvalidInputError(op, "at least one filter column is required")
	}
	if err := validation.NewCompoundValidator(
		validation.NewLengthValidator(len(columns), len(values), op, "values"),
		validation.NewLengthValidator(len(columns), len(ops), op, "operators"),
		validation.NewColumnValidator(df, op, columns...),
	).Validate(); err != nil {
		return nil, err
	}
	cols, _ := df.positionsOf(op, columns...)
	for i, o := range ops {
		if err := checkOperator(op, columns[i], o, df.schema.types[cols[i]]); err != nil {
			return nil, err
		}
	}

	var result *DataFrame
	err := record(op, df.Len(), func() error {
		result = df.keep(func(r Row) bool {
			for i, c := range cols {
				if !matches(r.At(c), values[i], ops[i], df.schema.types[c]) {
					return false
				}
			}
			return true
		})
		logging.Debug("filtered rows",
			zap.Strings("columns", columns),
			zap.Int("kept", result.Len()),
			zap.Int("rows", df.Len()))
		return nil
	})
	return result, err
}

// FilterFunc returns the rows for which pred is true
func (df *DataFrame) FilterFunc(pred Predicate) (*DataFrame, error) {
	if pred == nil {
		return nil, errors.NewInvalidInputError("FilterFunc", "predicate cannot be nil")
	}
	return df.keep(pred), nil
}

// checkOperator rejects operators the column type cannot answer
func checkOperator(op, column string, o Operator, t value.ColType) error {
	if o < Equal || o > NonNull {
		return errors.NewUnsupportedError(op, column, "unknown filter operator")
	}
	ordering := o == Greater || o == Less || o == GreaterOrEqual || o == LessOrEqual
	switch {
	case ordering && (t == value.TypeStr || t == value.TypeCategorical):
		return errors.NewUnsupportedError(op, column, "operator "+o.String()+" is not supported for "+t.String()+" columns")
	case ordering && t == value.TypeBool:
		return errors.NewUnsupportedError(op, column, "operator "+o.String()+" is not supported for Bool columns")
	}
	return nil
}

func matches(cell, target value.Value, o Operator, t value.ColType) bool {
	switch o {
	case IsNull:
		return cell.IsMissing()
	case NonNull:
		return !cell.IsMissing()
	}
	if cell.IsMissing() || target.IsMissing() {
		return false
	}

	var c int
	switch {
	case t == value.TypeStr || (t == value.TypeCategorical && cell.Kind() == value.KindString):
		c = cmp.Compare(cell.String(), target.String())
	case cell.IsNumeric() && target.IsNumeric():
		a, _ := cell.Float()
		b, _ := target.Float()
		c = cmp.Compare(a, b)
	default:
		if cell.Kind() != target.Kind() {
			return o == NotEqual
		}
		c = value.Compare(cell, target)
	}

	switch o {
	case Equal:
		return c == 0
	case NotEqual:
		return c != 0
	case Greater:
		return c > 0
	case Less:
		return c < 0
	case GreaterOrEqual:
		return c >= 0
	case LessOrEqual:
		return c <= 0
	default:
		return false
	}
}
