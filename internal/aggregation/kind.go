package aggregation

import (
	"github.com/paveg/tabula/internal/common"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/value"
)

// Kind selects a reduction
type Kind int

// Aggregation kinds
const (
	None Kind = iota
	Count
	Unique
	Top
	Frequency
	First
	Last
	Sum
	Avg
	Min
	Max
	Std
	Median
	FirstQuartile
	ThirdQuartile
	Mode
	Random
)

// DescribeKinds is the row order used by DataFrame.Describe
var DescribeKinds = []Kind{Count, Unique, Top, Frequency, Avg, Std, Min, FirstQuartile, Median, ThirdQuartile, Max}

// String returns the display name of the kind
func (k Kind) String() string {
	return common.FormatAggregation(int(k))
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	return k >= None && k <= Random
}

// ParseKind parses a kind name such as "avg" or "25%"
func ParseKind(s string) (Kind, error) {
	v, ok := common.ParseAggregation(s)
	if !ok {
		return None, errors.NewUnsupportedError("ParseKind", "", "unknown aggregation: "+s)
	}
	return Kind(v), nil
}

// Supported reports whether kind yields a value (rather than Missing) for
// columns of type t.
//
//	Sum, Avg, Std                         numeric only
//	Min, Max, Median, 25%, 75%            numeric and DateTime
//	everything else                       every type
func Supported(kind Kind, t value.ColType) bool {
	if !kind.Valid() || !t.Valid() {
		return false
	}
	switch kind {
	case Sum, Avg, Std:
		return t.IsNumeric()
	case Min, Max, Median, FirstQuartile, ThirdQuartile:
		return t.IsOrdered()
	default:
		return true
	}
}
