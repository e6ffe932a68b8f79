// Package value defines the tagged cell value stored in DataFrames and Series
// together with the column type tags that drive type-directed dispatch.
//
// A Value is a small comparable struct. Float cells compare with IEEE rules
// under ==, so engines that bucket cells use Key, which folds every NaN into
// one key and -0 into +0. The zero Value is Missing.
package value

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/paveg/tabula/internal/common"
	"github.com/paveg/tabula/internal/errors"
)

// Kind is the concrete representation held by a Value.
type Kind uint8

// Value kinds
const (
	KindMissing Kind = iota
	KindBool
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
	KindDateTime
)

var kindNames = [...]string{"Missing", "Bool", "Int32", "Int64", "Float32", "Float64", "String", "DateTime"}

// String returns the kind name
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is one heterogeneous cell.
type Value struct {
	kind Kind
	i    int64 // bool, int32, int64, unix nanoseconds
	f    float64
	s    string
}

// Missing is the shared sentinel for absent data. It is distinct from float NaN.
var Missing = Value{}

// MissingText is how Missing renders as text.
const MissingText = "NAN"

// Bool creates a boolean value
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, i: 1}
	}
	return Value{kind: KindBool}
}

// Int32 creates a 32-bit integer value
func Int32(v int32) Value { return Value{kind: KindInt32, i: int64(v)} }

// Int64 creates a 64-bit integer value
func Int64(v int64) Value { return Value{kind: KindInt64, i: v} }

// Float32 creates a 32-bit float value
func Float32(v float32) Value { return Value{kind: KindFloat32, f: float64(v)} }

// Float64 creates a 64-bit float value
func Float64(v float64) Value { return Value{kind: KindFloat64, f: v} }

// String creates a string value
func String(s string) Value { return Value{kind: KindString, s: s} }

// DateTime creates a timestamp value. Timestamps are normalized to UTC with
// nanosecond precision.
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, i: t.UnixNano()} }

// Of wraps a raw Go value. nil becomes Missing; plain int maps to Int64.
func Of(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Missing, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int8:
		return Int32(int32(x)), nil
	case int16:
		return Int32(int32(x)), nil
	case int32:
		return Int32(x), nil
	case uint8:
		return Int32(int32(x)), nil
	case uint16:
		return Int32(int32(x)), nil
	case int:
		return Int64(int64(x)), nil
	case int64:
		return Int64(x), nil
	case uint32:
		return Int64(int64(x)), nil
	case uint, uint64:
		i, err := common.ToInt64(x)
		if err != nil {
			return Missing, errors.NewTypeConversionError("value", "", "Int64", err)
		}
		return Int64(i), nil
	case float32:
		return Float32(x), nil
	case float64:
		return Float64(x), nil
	case string:
		return String(x), nil
	case time.Time:
		return DateTime(x), nil
	case *time.Time:
		if x == nil {
			return Missing, nil
		}
		return DateTime(*x), nil
	default:
		return Missing, errors.NewUnsupportedTypeError("value", fmt.Sprintf("%T", v))
	}
}

// MustOf is like Of but panics on unsupported input. Intended for literals.
func MustOf(v any) Value {
	val, err := Of(v)
	if err != nil {
		panic(err)
	}
	return val
}

// Values wraps a list of raw Go values, panicking on unsupported input.
func Values(vs ...any) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = MustOf(v)
	}
	return out
}

// FromSlice converts a typed slice into values.
func FromSlice[T any](vs []T) ([]Value, error) {
	out := make([]Value, len(vs))
	for i, v := range vs {
		val, err := Of(v)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

// Kind returns the concrete kind
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is the Missing sentinel
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// IsNumeric reports whether v holds an integer or float
func (v Value) IsNumeric() bool {
	switch v.kind {
	case KindInt32, KindInt64, KindFloat32, KindFloat64:
		return true
	default:
		return false
	}
}

// AsBool returns the boolean payload
func (v Value) AsBool() bool { return v.i != 0 }

// AsInt64 returns the integer payload (Int32, Int64, Bool as 0/1, DateTime as unix nanos)
func (v Value) AsInt64() int64 {
	if v.kind == KindFloat32 || v.kind == KindFloat64 {
		return int64(v.f)
	}
	return v.i
}

// AsString returns the string payload
func (v Value) AsString() string { return v.s }

// AsTime returns the timestamp payload in UTC
func (v Value) AsTime() time.Time { return time.Unix(0, v.i).UTC() }

// Float returns v as float64 when it is numeric or boolean.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindInt32, KindInt64, KindBool:
		return float64(v.i), true
	case KindFloat32, KindFloat64:
		return v.f, true
	default:
		return math.NaN(), false
	}
}

// Interface returns the payload as a plain Go value; Missing returns nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.i != 0
	case KindInt32:
		return int32(v.i)
	case KindInt64:
		return v.i
	case KindFloat32:
		return float32(v.f)
	case KindFloat64:
		return v.f
	case KindString:
		return v.s
	case KindDateTime:
		return v.AsTime()
	default:
		return nil
	}
}

// String renders v for display and text serialization.
func (v Value) String() string {
	switch v.kind {
	case KindMissing:
		return MissingText
	case KindBool:
		return strconv.FormatBool(v.i != 0)
	case KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindFloat32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindDateTime:
		t := v.AsTime()
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("Value(%d)", v.kind)
	}
}

// Equal reports whether two values are identical in kind and payload.
// Missing equals Missing, NaN equals NaN and -0 equals +0.
func Equal(a, b Value) bool { return a.Key() == b.Key() }

// Key is the comparable identity of a Value used for grouping, lookups and
// distinct counts.
type Key struct {
	kind Kind
	i    int64
	s    string
}

// Key returns the identity of v. Float payloads are stored as canonical bits.
func (v Value) Key() Key {
	switch v.kind {
	case KindFloat32, KindFloat64:
		return Key{kind: v.kind, i: int64(floatBits(v.f))}
	default:
		return Key{kind: v.kind, i: v.i, s: v.s}
	}
}

// canonicalNaN is the single bit pattern every NaN hashes to
var canonicalNaN = math.Float64bits(math.NaN())

func floatBits(f float64) uint64 {
	switch {
	case math.IsNaN(f):
		return canonicalNaN
	case f == 0:
		return 0
	default:
		return math.Float64bits(f)
	}
}

// Compare orders two values: Missing first, then numbers (compared across
// widths), then by kind for unrelated kinds. Within a kind: false < true,
// lexicographic strings, chronological timestamps. NaN sorts before every
// other number and equals itself, so Compare is a total order.
func Compare(a, b Value) int {
	if a.kind == KindMissing || b.kind == KindMissing {
		switch {
		case a.kind == b.kind:
			return 0
		case a.kind == KindMissing:
			return -1
		default:
			return 1
		}
	}
	if a.IsNumeric() && b.IsNumeric() {
		return compareNumeric(a, b)
	}
	if a.kind != b.kind {
		return cmpOrdered(a.kind, b.kind)
	}
	switch a.kind {
	case KindString:
		return cmpOrdered(a.s, b.s)
	default:
		return cmpOrdered(a.i, b.i)
	}
}

func compareNumeric(a, b Value) int {
	aInt := a.kind == KindInt32 || a.kind == KindInt64
	bInt := b.kind == KindInt32 || b.kind == KindInt64
	if aInt && bInt {
		return cmpOrdered(a.i, b.i)
	}
	af, _ := a.Float()
	bf, _ := b.Float()
	return cmp.Compare(af, bf)
}

func cmpOrdered[T int64 | string | Kind](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// AppendKey appends a canonical byte encoding of v to buf, suitable for hashing.
// Values that are Equal produce equal encodings.
func AppendKey(buf []byte, v Value) []byte {
	buf = append(buf, byte(v.kind))
	switch v.kind {
	case KindMissing:
	case KindString:
		buf = strconv.AppendInt(buf, int64(len(v.s)), 10)
		buf = append(buf, ':')
		buf = append(buf, v.s...)
	case KindFloat32, KindFloat64:
		bits := floatBits(v.f)
		for shift := 0; shift < 64; shift += 8 {
			buf = append(buf, byte(bits>>shift))
		}
	default:
		u := uint64(v.i)
		for shift := 0; shift < 64; shift += 8 {
			buf = append(buf, byte(u>>shift))
		}
	}
	return buf
}
