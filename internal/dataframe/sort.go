package dataframe

import (
	"slices"

	"github.com/paveg/tabula/internal/common"
	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/validation"
	"github.com/paveg/tabula/internal/value"
	"go.uber.org/zap"
)

// Order is the direction of a sort
type Order int

// Sort orders
const (
	Ascending Order = iota
	Descending
)

// String returns "ASC" or "DESC"
func (o Order) String() string {
	return common.FormatSortOrder(int(o))
}

// SortBy sorts rows by the given columns using the configured algorithm
func (df *DataFrame) SortBy(order Order, columns ...string) (*DataFrame, error) {
	return df.SortWith(config.GetGlobalConfig().SortAlgorithm, order, columns...)
}

// SortWith sorts rows by the given columns using algorithm ("quick" or "merge").
//
// Columns are compared left to right; ties on every column keep the original
// row order, so both algorithms produce the same result. Descending order is
// the ascending result reversed.
func (df *DataFrame) SortWith(algorithm string, order Order, columns ...string) (*DataFrame, error) {
	const op = "SortBy"
	if len(columns) == 0 {
		return nil, errors.NewInvalidInputError(op, "at least one sort column is required")
	}
	if err := validation.ValidateColumns(df, op, columns...); err != nil {
		return nil, err
	}
	if order != Ascending && order != Descending {
		return nil, errors.NewUnsupportedError(op, "", "unknown sort order")
	}

	keys, _ := df.positionsOf(op, columns...)
	var result *DataFrame
	err := record(op, df.Len(), func() error {
		perm := make([]int, df.Len())
		for i := range perm {
			perm[i] = i
		}
		cmp := df.rowComparator(keys)

		switch algorithm {
		case config.SortQuick:
			quickSort(perm, cmp)
		case config.SortMerge:
			perm = mergeSort(perm, cmp)
		default:
			return errors.NewUnsupportedError(op, "", "unknown sort algorithm: "+algorithm)
		}
		logging.Debug("sorted rows",
			zap.String("algorithm", algorithm),
			zap.Strings("columns", columns),
			zap.Int("rows", len(perm)))

		if order == Descending {
			slices.Reverse(perm)
		}
		result = df.take(perm)
		return nil
	})
	return result, err
}

// rowComparator compares two row positions on the key columns, falling back
// to the positions themselves.
func (df *DataFrame) rowComparator(keys []int) func(a, b int) int {
	return func(a, b int) int {
		for _, c := range keys {
			if r := value.Compare(df.cell(a, c), df.cell(b, c)); r != 0 {
				return r
			}
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

// quickSort sorts perm in place: last element pivot, Lomuto partition on <=.
func quickSort(perm []int, cmp func(a, b int) int) {
	for len(perm) > 1 {
		p := partition(perm, cmp)
		// recurse into the smaller side to bound stack depth
		if p < len(perm)-p-1 {
			quickSort(perm[:p], cmp)
			perm = perm[p+1:]
		} else {
			quickSort(perm[p+1:], cmp)
			perm = perm[:p]
		}
	}
}

func partition(perm []int, cmp func(a, b int) int) int {
	hi := len(perm) - 1
	pivot := perm[hi]
	i := 0
	for j := range hi {
		if cmp(perm[j], pivot) <= 0 {
			perm[i], perm[j] = perm[j], perm[i]
			i++
		}
	}
	perm[i], perm[hi] = perm[hi], perm[i]
	return i
}

// mergeSort returns a sorted copy of perm, taking from the left run on ties.
func mergeSort(perm []int, cmp func(a, b int) int) []int {
	if len(perm) <= 1 {
		return append([]int(nil), perm...)
	}
	mid := len(perm) / 2
	left := mergeSort(perm[:mid], cmp)
	right := mergeSort(perm[mid:], cmp)

	out := make([]int, 0, len(perm))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if cmp(left[i], right[j]) <= 0 {
			out = append(out, left[i])
			i++
		} else {
			out = append(out, right[j])
			j++
		}
	}
	out = append(out, left[i:]...)
	return append(out, right[j:]...)
}
