package series

import (
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/validation"
	"github.com/paveg/tabula/internal/value"
	"golang.org/x/exp/constraints"
)

type number interface {
	constraints.Integer | constraints.Float
}

func add[T number](a, b T) T { return a + b }
func sub[T number](a, b T) T { return a - b }
func mul[T number](a, b T) T { return a * b }

// lane reads and writes one numeric representation of value.Value
type lane[T number] struct {
	get func(value.Value) T
	put func(T) value.Value
}

var (
	int32Lane   = lane[int32]{get: func(v value.Value) int32 { return int32(v.AsInt64()) }, put: value.Int32}
	int64Lane   = lane[int64]{get: value.Value.AsInt64, put: value.Int64}
	float32Lane = lane[float32]{get: func(v value.Value) float32 { f, _ := v.Float(); return float32(f) }, put: value.Float32}
	float64Lane = lane[float64]{get: func(v value.Value) float64 { f, _ := v.Float(); return f }, put: value.Float64}
)

// zip applies fn position by position. A missing operand yields Missing.
func zip[T number](l lane[T], left, right []value.Value, fn func(a, b T) T) []value.Value {
	out := make([]value.Value, len(left))
	for i := range left {
		if left[i].IsMissing() || right[i].IsMissing() {
			continue
		}
		out[i] = l.put(fn(l.get(left[i]), l.get(right[i])))
	}
	return out
}

type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
	opMul
)

func (o binaryOp) String() string {
	switch o {
	case opAdd:
		return "Add"
	case opSub:
		return "Sub"
	default:
		return "Mul"
	}
}

func kernel[T number](o binaryOp) func(a, b T) T {
	switch o {
	case opAdd:
		return add[T]
	case opSub:
		return sub[T]
	default:
		return mul[T]
	}
}

// Add returns s + other position by position
func (s *Series) Add(other *Series) (*Series, error) {
	return s.combine(opAdd, other)
}

// Sub returns s - other position by position
func (s *Series) Sub(other *Series) (*Series, error) {
	return s.combine(opSub, other)
}

// Mul returns s * other position by position
func (s *Series) Mul(other *Series) (*Series, error) {
	return s.combine(opMul, other)
}

// combine computes in the left operand's type. Right values are converted
// to it first; the result keeps the left name and index.
func (s *Series) combine(o binaryOp, other *Series) (*Series, error) {
	op := o.String()
	if other == nil {
		return nil, errors.NewInvalidInputError(op, "other Series cannot be nil")
	}
	if err := s.requireNumeric(op); err != nil {
		return nil, err
	}
	if err := validation.ValidateLength(s.Len(), other.Len(), op, "series"); err != nil {
		return nil, err
	}
	right := make([]value.Value, other.Len())
	for i, v := range other.values {
		c, err := value.Convert(v, s.colType)
		if err != nil {
			return nil, errors.NewTypeConversionError(op, other.name, s.colType.String(), err)
		}
		right[i] = c
	}

	var out []value.Value
	switch s.colType {
	case value.TypeInt32:
		out = zip(int32Lane, s.values, right, kernel[int32](o))
	case value.TypeInt64:
		out = zip(int64Lane, s.values, right, kernel[int64](o))
	case value.TypeFloat32:
		out = zip(float32Lane, s.values, right, kernel[float32](o))
	default:
		out = zip(float64Lane, s.values, right, kernel[float64](o))
	}
	return s.derive(out, s.index.Clone()), nil
}

// AddScalar adds x to every value. Integer series produce Float64; float
// series keep their width.
func (s *Series) AddScalar(x float64) (*Series, error) {
	return s.broadcast(opAdd, x)
}

// MulScalar multiplies every value by x, typed as in AddScalar
func (s *Series) MulScalar(x float64) (*Series, error) {
	return s.broadcast(opMul, x)
}

func (s *Series) broadcast(o binaryOp, x float64) (*Series, error) {
	op := o.String() + "Scalar"
	if err := s.requireNumeric(op); err != nil {
		return nil, err
	}
	if s.colType == value.TypeFloat32 {
		out := zip(float32Lane, s.values, repeat(value.Float32(float32(x)), s.Len()), kernel[float32](o))
		return s.derive(out, s.index.Clone()), nil
	}
	out := zip(float64Lane, s.values, repeat(value.Float64(x), s.Len()), kernel[float64](o))
	return &Series{name: s.name, index: s.index.Clone(), colType: value.TypeFloat64, values: out}, nil
}

func repeat(v value.Value, n int) []value.Value {
	out := make([]value.Value, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func (s *Series) requireNumeric(op string) error {
	if !s.colType.IsNumeric() {
		return errors.NewUnsupportedError(op, s.name, "arithmetic is not defined for "+s.colType.String()+" series")
	}
	return nil
}
