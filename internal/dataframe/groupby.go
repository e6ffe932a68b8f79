package dataframe

import (
	"slices"

	"github.com/paveg/tabula/internal/aggregation"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/lookup"
	"github.com/paveg/tabula/internal/validation"
	"github.com/paveg/tabula/internal/value"
	"go.uber.org/zap"
)

// MaxGroupKeys is the largest number of grouping columns
const MaxGroupKeys = lookup.MaxKeys

// CountColumn names the group size column produced by GroupDataFrame.Count
const CountColumn = "count"

// GroupDataFrame is a DataFrame partitioned by the values of 1 to 3 columns.
//
// Groups are enumerated in the order their key first appears, level by
// level. Every source row belongs to exactly one leaf; rows keep their
// relative order within a leaf. Missing is a key like any other, all NaN
// cells share one key and -0 groups with +0. Operations on a grouping
// without groups fail with an argument error.
type GroupDataFrame struct {
	source  *DataFrame
	columns []string
	root    *groupNode
	leaves  int
}

type groupNode struct {
	order    []value.Value
	children map[value.Key]*groupNode
	frame    *DataFrame
}

// GroupBy partitions rows by the values of the given columns
func (df *DataFrame) GroupBy(columns ...string) (*GroupDataFrame, error) {
	const op = "GroupBy"
	if err := validation.ValidateKeys(df, op, MaxGroupKeys, columns...); err != nil {
		return nil, err
	}
	keys, _ := df.positionsOf(op, columns...)

	g := &GroupDataFrame{source: df, columns: append([]string(nil), columns...)}
	err := record(op, df.Len(), func() error {
		positions := make([]int, df.Len())
		for i := range positions {
			positions[i] = i
		}
		g.root = g.partition(positions, keys)
		logging.Debug("grouped rows",
			zap.Strings("columns", columns),
			zap.Int("groups", g.leaves))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GroupDataFrame) partition(positions []int, keys []int) *groupNode {
	if len(keys) == 0 {
		g.leaves++
		return &groupNode{frame: g.source.take(positions)}
	}
	buckets := make(map[value.Key][]int)
	var order []value.Value
	for _, p := range positions {
		v := g.source.cell(p, keys[0])
		k := v.Key()
		if _, ok := buckets[k]; !ok {
			order = append(order, v)
		}
		buckets[k] = append(buckets[k], p)
	}
	node := &groupNode{order: order, children: make(map[value.Key]*groupNode, len(order))}
	for _, v := range order {
		node.children[v.Key()] = g.partition(buckets[v.Key()], keys[1:])
	}
	return node
}

// Columns returns the grouping column names
func (g *GroupDataFrame) Columns() []string {
	return append([]string(nil), g.columns...)
}

// Len returns the number of groups
func (g *GroupDataFrame) Len() int { return g.leaves }

// Group returns the rows of the group identified by one key per grouping column
func (g *GroupDataFrame) Group(keys ...value.Value) (*DataFrame, bool) {
	if len(keys) != len(g.columns) {
		return nil, false
	}
	node := g.root
	for _, k := range keys {
		child, ok := node.children[k.Key()]
		if !ok {
			return nil, false
		}
		node = child
	}
	return node.frame, true
}

// Keys returns the key tuple of every group in enumeration order
func (g *GroupDataFrame) Keys() [][]value.Value {
	out := make([][]value.Value, 0, g.leaves)
	g.walk(func(key []value.Value, _ *DataFrame) {
		out = append(out, append([]value.Value(nil), key...))
	})
	return out
}

// walk visits every leaf in enumeration order
func (g *GroupDataFrame) walk(fn func(key []value.Value, frame *DataFrame)) {
	key := make([]value.Value, 0, len(g.columns))
	var visit func(n *groupNode)
	visit = func(n *groupNode) {
		if n.frame != nil {
			fn(key, n.frame)
			return
		}
		for _, k := range n.order {
			key = append(key, k)
			visit(n.children[k.Key()])
			key = key[:len(key)-1]
		}
	}
	visit(g.root)
}

// Count returns one row per group with the grouping columns and the group
// size, largest groups first. Equal sizes keep enumeration order.
func (g *GroupDataFrame) Count() (*DataFrame, error) {
	if err := g.checkGroups("Count"); err != nil {
		return nil, err
	}
	type counted struct {
		key []value.Value
		n   int
	}
	var groups []counted
	g.walk(func(key []value.Value, frame *DataFrame) {
		groups = append(groups, counted{key: append([]value.Value(nil), key...), n: frame.Len()})
	})
	slices.SortStableFunc(groups, func(a, b counted) int { return b.n - a.n })

	rows := make([][]value.Value, len(groups))
	for i, grp := range groups {
		rows[i] = append(grp.key, value.Int64(int64(grp.n)))
	}
	types := make([]value.ColType, 0, len(g.columns)+1)
	for _, col := range g.columns {
		t, _ := g.source.ColumnType(col)
		types = append(types, t)
	}
	types = append(types, value.TypeInt64)
	return New(rows, append(g.Columns(), CountColumn), WithTypes(types...))
}

// Aggregate reduces every group to one row. Columns named in spec are
// reduced with their kind; all other columns keep the group's last value.
// The result index is reset to 0..n-1.
func (g *GroupDataFrame) Aggregate(spec map[string]aggregation.Kind) (*DataFrame, error) {
	const op = "Aggregate"
	if err := g.checkGroups(op); err != nil {
		return nil, err
	}
	if err := g.validateSpec(op, spec); err != nil {
		return nil, err
	}
	src := g.source
	kinds := make([]aggregation.Kind, src.Width())
	types := make([]value.ColType, src.Width())
	for c, name := range src.schema.names {
		kinds[c] = aggregation.Last
		if k, ok := spec[name]; ok {
			kinds[c] = k
		}
		types[c] = ResultType(kinds[c], src.schema.types[c])
	}

	var rows [][]value.Value
	err := record(op, src.Len(), func() error {
		var failed error
		g.walk(func(_ []value.Value, frame *DataFrame) {
			if failed != nil {
				return
			}
			row := make([]value.Value, frame.Width())
			for c := range row {
				v, err := aggregation.Reduce(frame.column(c), kinds[c], frame.schema.types[c])
				if err != nil {
					failed = err
					return
				}
				row[c] = v
			}
			rows = append(rows, row)
		})
		return failed
	})
	if err != nil {
		return nil, err
	}
	return New(rows, src.Columns(), WithTypes(types...))
}

// Rolling applies DataFrame.Rolling to every group and concatenates the
// results in group order. Grouping columns are carried with their last value
// in the window.
func (g *GroupDataFrame) Rolling(window int, spec map[string]aggregation.Kind) (*DataFrame, error) {
	return g.RollingEvery(window, 1, spec)
}

// RollingEvery is Rolling keeping only every step-th row of each group
func (g *GroupDataFrame) RollingEvery(window, step int, spec map[string]aggregation.Kind) (*DataFrame, error) {
	const op = "Rolling"
	if err := g.checkGroups(op); err != nil {
		return nil, err
	}
	if err := g.validateSpec(op, spec); err != nil {
		return nil, err
	}
	if step < 1 {
		return nil, errors.NewInvalidInputError(op, "step must be at least 1")
	}
	combined := make(map[string]aggregation.Kind, len(spec)+len(g.columns))
	for name, kind := range spec {
		combined[name] = kind
	}
	for _, col := range g.columns {
		if _, ok := combined[col]; !ok {
			combined[col] = aggregation.Last
		}
	}
	return g.Transform(func(frame *DataFrame) (*DataFrame, error) {
		rolled, err := frame.Rolling(window, combined)
		if err != nil {
			return nil, err
		}
		if step == 1 {
			return rolled, nil
		}
		return rolled.TakeEvery(step, false)
	})
}

// Shift applies DataFrame.Shift within every group
func (g *GroupDataFrame) Shift(specs ...ShiftSpec) (*DataFrame, error) {
	return g.Transform(func(frame *DataFrame) (*DataFrame, error) {
		return frame.Shift(specs...)
	})
}

// Transform applies fn to every group and appends the results vertically
// in group order.
func (g *GroupDataFrame) Transform(fn func(*DataFrame) (*DataFrame, error)) (*DataFrame, error) {
	const op = "Transform"
	if err := g.checkGroups(op); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, errors.NewInvalidInputError(op, "function cannot be nil")
	}
	var result *DataFrame
	var failed error
	g.walk(func(_ []value.Value, frame *DataFrame) {
		if failed != nil {
			return
		}
		out, err := fn(frame)
		if err != nil {
			failed = err
			return
		}
		if result == nil {
			result = out
			return
		}
		result, failed = result.Append(out)
	})
	if failed != nil {
		return nil, failed
	}
	if result == nil {
		return nil, errors.NewInvalidInputError(op, "function returned no DataFrame")
	}
	return result, nil
}

// checkGroups rejects operations on a grouping without groups
func (g *GroupDataFrame) checkGroups(op string) error {
	if g.leaves == 0 {
		return errors.NewInvalidInputError(op, "no groups available")
	}
	return nil
}

func (g *GroupDataFrame) validateSpec(op string, spec map[string]aggregation.Kind) error {
	if len(spec) == 0 {
		return errors.NewInvalidInputError(op, "aggregation map cannot be empty")
	}
	for name, kind := range spec {
		if !g.source.HasColumn(name) {
			return errors.NewColumnNotFoundError(op, name)
		}
		if !kind.Valid() {
			return errors.NewUnsupportedError(op, name, "unknown aggregation kind")
		}
	}
	return nil
}
