// Package aggregation reduces a column of values to a single value.
//
// Reductions never fail on data: unsupported type/kind pairs and
// all-missing inputs yield value.Missing. Only an unknown kind or
// column type is reported as an error.
package aggregation

import (
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/value"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const useGlobalPrecision = -1

// Engine evaluates reductions. The zero value is not usable; call NewEngine.
type Engine struct {
	precision int

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures an Engine
type Option func(*Engine)

// WithPrecision fixes the number of decimals kept by floating results
func WithPrecision(p int) Option {
	return func(e *Engine) { e.precision = p }
}

// WithRand sets the source used by the Random kind
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// NewEngine creates an Engine. Without options it follows the global
// configuration for precision and random seed.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{precision: useGlobalPrecision}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Reduce evaluates kind over values using the default engine
func Reduce(values []value.Value, kind Kind, t value.ColType) (value.Value, error) {
	return defaultEngine.Reduce(values, kind, t)
}

// Reduce evaluates kind over values of a column typed t.
func (e *Engine) Reduce(values []value.Value, kind Kind, t value.ColType) (value.Value, error) {
	if !kind.Valid() {
		return value.Missing, errors.NewUnsupportedError("Aggregate", "", "unknown aggregation kind")
	}
	if !t.Valid() {
		return value.Missing, errors.NewUnsupportedError("Aggregate", "", "unknown column type "+t.String())
	}
	if !Supported(kind, t) {
		return value.Missing, nil
	}

	switch kind {
	case None:
		return value.Missing, nil
	case Count:
		return value.Int64(int64(len(values))), nil
	case Unique:
		return value.Int64(int64(countDistinct(values))), nil
	case Top, Mode:
		v, _ := mostFrequent(values)
		return v, nil
	case Frequency:
		_, n := mostFrequent(values)
		return value.Int64(int64(n)), nil
	case First:
		if len(values) == 0 {
			return value.Missing, nil
		}
		return values[0], nil
	case Last:
		if len(values) == 0 {
			return value.Missing, nil
		}
		return values[len(values)-1], nil
	case Random:
		if len(values) == 0 {
			return value.Missing, nil
		}
		return values[e.intN(len(values))], nil
	case Sum:
		return e.sum(values, t), nil
	case Avg:
		return e.avg(values, t), nil
	case Min:
		return extreme(values, t, -1), nil
	case Max:
		return extreme(values, t, 1), nil
	case Std:
		xs := floatsOf(values)
		if len(xs) < 2 {
			return value.Missing, nil
		}
		return value.Float64(e.round(stat.StdDev(xs, nil))), nil
	case Median:
		return e.percentile(values, t, 50), nil
	case FirstQuartile:
		return e.percentile(values, t, 25), nil
	case ThirdQuartile:
		return e.percentile(values, t, 75), nil
	}
	return value.Missing, errors.NewInternalError("Aggregate", nil)
}

func (e *Engine) sum(values []value.Value, t value.ColType) value.Value {
	xs := floatsOf(values)
	if len(xs) == 0 {
		return value.Missing
	}
	switch t {
	case value.TypeInt32, value.TypeInt64:
		var total int64
		for _, v := range values {
			if v.IsNumeric() {
				total += v.AsInt64()
			}
		}
		if t == value.TypeInt32 {
			return value.Int32(int32(total))
		}
		return value.Int64(total)
	default:
		return e.floatOf(floats.Sum(xs), t)
	}
}

func (e *Engine) avg(values []value.Value, t value.ColType) value.Value {
	xs := floatsOf(values)
	if len(xs) == 0 {
		return value.Missing
	}
	return e.floatOf(stat.Mean(xs, nil), t)
}

// floatOf wraps a floating result, keeping Float32 columns at float32 width
func (e *Engine) floatOf(x float64, t value.ColType) value.Value {
	if t == value.TypeFloat32 {
		return value.Float32(float32(e.round(x)))
	}
	return value.Float64(e.round(x))
}

// percentile interpolates linearly between closest ranks: h = (N-1)p/100.
func (e *Engine) percentile(values []value.Value, t value.ColType, p float64) value.Value {
	if t == value.TypeDateTime {
		var ns []int64
		for _, v := range values {
			if v.Kind() == value.KindDateTime {
				ns = append(ns, v.AsInt64())
			}
		}
		if len(ns) == 0 {
			return value.Missing
		}
		slices.Sort(ns)
		lo, hi, frac := ranks(len(ns), p)
		at := ns[lo] + int64(math.Round(frac*float64(ns[hi]-ns[lo])))
		return value.DateTime(time.Unix(0, at))
	}

	xs := floatsOf(values)
	if len(xs) == 0 {
		return value.Missing
	}
	slices.Sort(xs)
	lo, hi, frac := ranks(len(xs), p)
	return value.Float64(e.round(xs[lo] + frac*(xs[hi]-xs[lo])))
}

func ranks(n int, p float64) (lo, hi int, frac float64) {
	h := float64(n-1) * p / 100
	lo = int(math.Floor(h))
	hi = min(lo+1, n-1)
	return lo, hi, h - float64(lo)
}

func (e *Engine) round(x float64) float64 {
	p := e.precision
	if p == useGlobalPrecision {
		p = config.GetGlobalConfig().Precision
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	scale := math.Pow(10, float64(p))
	return math.Round(x*scale) / scale
}

func (e *Engine) intN(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rng == nil {
		e.rng = NewRand(config.GetGlobalConfig().RandomSeed)
	}
	return e.rng.IntN(n)
}

// NewRand returns a PCG source seeded with seed, or with the clock when seed is 0
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// extreme returns the smallest (dir<0) or largest (dir>0) non-missing value,
// converted to the column type.
func extreme(values []value.Value, t value.ColType, dir int) value.Value {
	best := value.Missing
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		if best.IsMissing() || value.Compare(v, best)*dir > 0 {
			best = v
		}
	}
	if best.IsMissing() {
		return best
	}
	if out, err := value.Convert(best, t); err == nil {
		return out
	}
	return best
}

func floatsOf(values []value.Value) []float64 {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if !v.IsNumeric() {
			continue
		}
		f, _ := v.Float()
		xs = append(xs, f)
	}
	return xs
}

func countDistinct(values []value.Value) int {
	seen := make(map[value.Key]struct{}, len(values))
	for _, v := range values {
		seen[v.Key()] = struct{}{}
	}
	return len(seen)
}

// mostFrequent returns the most common non-missing value and its count.
// Ties go to the value seen first.
func mostFrequent(values []value.Value) (value.Value, int) {
	counts := make(map[value.Key]int)
	var order []value.Value
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		k := v.Key()
		if _, ok := counts[k]; !ok {
			order = append(order, v)
		}
		counts[k]++
	}
	best, bestN := value.Missing, 0
	for _, v := range order {
		if n := counts[v.Key()]; n > bestN {
			best, bestN = v, n
		}
	}
	return best, bestN
}
