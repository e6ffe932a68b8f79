package value

import (
	"fmt"
	"time"

	"github.com/paveg/tabula/internal/common"
	"github.com/paveg/tabula/internal/errors"
)

// ColType is the per-column physical type tag.
type ColType int

// Column types
const (
	TypeBool ColType = iota
	TypeCategorical
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeStr
	TypeDateTime
)

// String returns the column type name
func (t ColType) String() string {
	return common.FormatColType(int(t))
}

// Valid reports whether t is one of the defined column types
func (t ColType) Valid() bool {
	return t >= TypeBool && t <= TypeDateTime
}

// IsNumeric reports whether t is an integer or floating type
func (t ColType) IsNumeric() bool {
	switch t {
	case TypeInt32, TypeInt64, TypeFloat32, TypeFloat64:
		return true
	default:
		return false
	}
}

// IsOrdered reports whether t supports Min/Max/percentile style reductions
func (t ColType) IsOrdered() bool {
	return t.IsNumeric() || t == TypeDateTime
}

// ParseColType parses a column type name (case-insensitive)
func ParseColType(s string) (ColType, error) {
	v, ok := common.ParseColType(s)
	if !ok {
		return 0, errors.NewUnsupportedTypeError("ParseColType", s)
	}
	return ColType(v), nil
}

// TypeOf returns the column type implied by a single non-missing value.
func TypeOf(v Value) (ColType, error) {
	switch v.kind {
	case KindBool:
		return TypeBool, nil
	case KindInt32:
		return TypeInt32, nil
	case KindInt64:
		return TypeInt64, nil
	case KindFloat32:
		return TypeFloat32, nil
	case KindFloat64:
		return TypeFloat64, nil
	case KindString:
		return TypeStr, nil
	case KindDateTime:
		return TypeDateTime, nil
	case KindMissing:
		return 0, &errors.DataFrameError{
			Op:      "TypeOf",
			Kind:    errors.KindType,
			Message: "cannot infer type of a missing value",
		}
	default:
		return 0, errors.NewUnsupportedTypeError("TypeOf", v.kind.String())
	}
}

// Infer returns the type of the first non-missing value. ok is false when all
// values are missing.
func Infer(values []Value) (t ColType, ok bool) {
	for _, v := range values {
		if !v.IsMissing() {
			ct, err := TypeOf(v)
			if err != nil {
				return TypeStr, false
			}
			return ct, true
		}
	}
	return TypeStr, false
}

// Convert coerces v into the representation of column type t.
// Missing stays Missing. Categorical keeps integer codes and strings as they are.
func Convert(v Value, t ColType) (Value, error) {
	if v.IsMissing() {
		return Missing, nil
	}
	raw := v.Interface()
	switch t {
	case TypeBool:
		if v.kind == KindBool {
			return v, nil
		}
		b, err := common.ToBool(raw)
		if err != nil {
			return Missing, errors.NewTypeConversionError("Convert", "", t.String(), err)
		}
		return Bool(b), nil
	case TypeCategorical:
		switch v.kind {
		case KindInt32, KindInt64, KindString:
			return v, nil
		}
		i, err := common.ToInt32(raw)
		if err != nil {
			return String(v.String()), nil
		}
		return Int32(i), nil
	case TypeInt32:
		if v.kind == KindInt32 {
			return v, nil
		}
		i, err := common.ToInt32(raw)
		if err != nil {
			return Missing, errors.NewTypeConversionError("Convert", "", t.String(), err)
		}
		return Int32(i), nil
	case TypeInt64:
		if v.kind == KindInt64 {
			return v, nil
		}
		i, err := common.ToInt64(raw)
		if err != nil {
			return Missing, errors.NewTypeConversionError("Convert", "", t.String(), err)
		}
		return Int64(i), nil
	case TypeFloat32:
		if v.kind == KindFloat32 {
			return v, nil
		}
		f, err := common.ToFloat64(raw)
		if err != nil {
			return Missing, errors.NewTypeConversionError("Convert", "", t.String(), err)
		}
		f32, err := common.SafeFloat64ToFloat32(f)
		if err != nil {
			return Missing, errors.NewTypeConversionError("Convert", "", t.String(), err)
		}
		return Float32(f32), nil
	case TypeFloat64:
		if v.kind == KindFloat64 {
			return v, nil
		}
		f, err := common.ToFloat64(raw)
		if err != nil {
			return Missing, errors.NewTypeConversionError("Convert", "", t.String(), err)
		}
		return Float64(f), nil
	case TypeStr:
		if v.kind == KindString {
			return v, nil
		}
		return String(v.String()), nil
	case TypeDateTime:
		if v.kind == KindDateTime {
			return v, nil
		}
		ts, err := common.ToTime(raw)
		if err != nil {
			return Missing, errors.NewTypeConversionError("Convert", "", t.String(), err)
		}
		return DateTime(ts), nil
	default:
		return Missing, errors.NewUnsupportedTypeError("Convert", fmt.Sprintf("ColType(%d)", int(t)))
	}
}

// Parse converts text into a value of column type t. Empty text and the
// missing token become Missing.
func Parse(s string, t ColType, missingToken string, layouts ...string) (Value, error) {
	if s == "" || s == missingToken || s == MissingText {
		return Missing, nil
	}
	if t == TypeDateTime && len(layouts) > 0 {
		for _, layout := range layouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return DateTime(ts), nil
			}
		}
	}
	return Convert(String(s), t)
}

// Detect guesses the narrowest column type for a text cell:
// Int32, Int64, Float64, Bool, DateTime, then Str.
func Detect(s string) ColType {
	if s == "" {
		return TypeStr
	}
	if i, err := common.ToInt64(s); err == nil && isIntegerText(s) {
		if i >= -1<<31 && i < 1<<31 {
			return TypeInt32
		}
		return TypeInt64
	}
	if _, err := common.ToFloat64(s); err == nil {
		return TypeFloat64
	}
	if _, err := common.ToBool(s); err == nil && !isIntegerText(s) {
		return TypeBool
	}
	if common.LooksLikeTime(s) {
		if _, err := common.ToTime(s); err == nil {
			return TypeDateTime
		}
	}
	return TypeStr
}

func isIntegerText(s string) bool {
	for i, r := range s {
		if r == '-' || r == '+' {
			if i != 0 {
				return false
			}
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0 && s != "-" && s != "+"
}
