package dataframe

import (
	"github.com/paveg/tabula/internal/common"
	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/index"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/lookup"
	"github.com/paveg/tabula/internal/validation"
	"github.com/paveg/tabula/internal/value"
	"go.uber.org/zap"
)

// JoinType selects which left rows survive a join
type JoinType int

// Join types
const (
	InnerJoin JoinType = iota
	LeftJoin
)

// String returns "INNER" or "LEFT"
func (j JoinType) String() string {
	return common.FormatJoinType(int(j))
}

// Join combines rows whose index keys match.
//
// Every left row is paired with each right row sharing its key, in right row
// order; a left join keeps unmatched left rows with missing right cells. The
// result is keyed by the left keys. Colliding right column names get the
// configured merge suffix.
func (df *DataFrame) Join(right *DataFrame, how JoinType) (*DataFrame, error) {
	const op = "Join"
	if err := checkSides(op, df, right); err != nil {
		return nil, err
	}
	if how != InnerJoin && how != LeftJoin {
		return nil, errors.NewUnsupportedError(op, "", "unknown join type")
	}
	sch, err := mergedSchema(op, df.schema, right.schema, config.GetGlobalConfig().MergeSuffix)
	if err != nil {
		return nil, err
	}

	if df.Len() == 0 {
		return df.Copy(), nil
	}
	if right.Len() == 0 {
		if how == LeftJoin {
			return df.Copy(), nil
		}
		ix := index.Range(0)
		ix.SetName(df.index.Name())
		return &DataFrame{index: ix, schema: sch}, nil
	}

	var result *DataFrame
	err = record(op, df.Len()+right.Len(), func() error {
		lk, err := lookup.FromColumns(right.index.Keys())
		if err != nil {
			return err
		}
		result = pairRows(df, right, sch, how, func(r int) []int {
			return lk.Positions(df.index.At(r))
		})
		result.index.SetName(df.index.Name())
		logging.Debug("joined by index",
			zap.Stringer("how", how),
			zap.Int("left", df.Len()),
			zap.Int("right", right.Len()),
			zap.Int("rows", result.Len()))
		return nil
	})
	return result, err
}

// Merge combines rows whose values in the key columns match.
//
// leftOn and rightOn name 1 to 3 key columns each. Colliding right column
// names are renamed name_suffix; an empty suffix uses the configured one.
// Like Join, every output row keeps its left row's index key.
func (df *DataFrame) Merge(right *DataFrame, leftOn, rightOn []string, how JoinType, suffix string) (*DataFrame, error) {
	const op = "Merge"
	if err := checkSides(op, df, right); err != nil {
		return nil, err
	}
	if how != InnerJoin && how != LeftJoin {
		return nil, errors.NewUnsupportedError(op, "", "unknown join type")
	}
	if err := validation.NewCompoundValidator(
		validation.NewLengthValidator(len(leftOn), len(rightOn), op, "key columns"),
		validation.NewArityValidator(len(leftOn), 1, lookup.MaxKeys, op),
		validation.NewColumnValidator(df, op, leftOn...),
		validation.NewColumnValidator(right, op, rightOn...),
	).Validate(); err != nil {
		return nil, err
	}
	if suffix == "" {
		suffix = config.GetGlobalConfig().MergeSuffix
	}
	sch, err := mergedSchema(op, df.schema, right.schema, suffix)
	if err != nil {
		return nil, err
	}

	leftKeys, _ := df.positionsOf(op, leftOn...)
	rightKeys, _ := right.positionsOf(op, rightOn...)

	var result *DataFrame
	err = record(op, df.Len()+right.Len(), func() error {
		cols := make([][]value.Value, len(rightKeys))
		for i, c := range rightKeys {
			cols[i] = right.column(c)
		}
		lk, err := lookup.FromColumns(cols...)
		if err != nil {
			return err
		}
		key := make([]value.Value, len(leftKeys))
		result = pairRows(df, right, sch, how, func(r int) []int {
			for i, c := range leftKeys {
				key[i] = df.cell(r, c)
			}
			return lk.Positions(key...)
		})
		logging.Debug("merged on columns",
			zap.Stringer("how", how),
			zap.Strings("leftOn", leftOn),
			zap.Strings("rightOn", rightOn),
			zap.Int("rows", result.Len()))
		return nil
	})
	return result, err
}

func checkSides(op string, left, right *DataFrame) error {
	switch {
	case left == nil:
		return errors.NewInvalidInputError(op, "left DataFrame cannot be nil")
	case right == nil:
		return errors.NewInvalidInputError(op, "right DataFrame cannot be nil")
	}
	return nil
}

// pairRows emits left+right rows for every match reported by matches
func pairRows(left, right *DataFrame, sch *schema, how JoinType, matches func(r int) []int) *DataFrame {
	missing := make([]value.Value, right.Width())
	var values, keys []value.Value
	for r := range left.Len() {
		positions := matches(r)
		if len(positions) == 0 {
			if how == LeftJoin {
				values = append(values, left.row(r)...)
				values = append(values, missing...)
				keys = append(keys, left.index.At(r))
			}
			continue
		}
		for _, p := range positions {
			values = append(values, left.row(r)...)
			values = append(values, right.row(p)...)
			keys = append(keys, left.index.At(r))
		}
	}
	if keys == nil {
		keys = []value.Value{}
	}
	ix, _ := index.New(keys, left.index.Name())
	return &DataFrame{index: ix, schema: sch, values: values}
}

// mergedSchema concatenates left and right columns, renaming right columns
// that collide with a left one to name_suffix.
func mergedSchema(op string, left, right *schema, suffix string) (*schema, error) {
	renamed := make(map[string]struct{}, right.width())
	sch := left.concat(right, func(name string) string {
		if _, ok := left.position(name); ok {
			name = name + "_" + suffix
		}
		return name
	})
	for _, name := range sch.names[left.width():] {
		if _, dup := renamed[name]; dup {
			return nil, errors.NewDuplicateColumnError(op, name)
		}
		if _, ok := left.position(name); ok {
			return nil, errors.NewDuplicateColumnError(op, name).
				WithHint("choose a different merge suffix")
		}
		renamed[name] = struct{}{}
	}
	return sch, nil
}
