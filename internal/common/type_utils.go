package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeLayouts are tried in order when parsing timestamps from text.
var DefaultTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// TypeConverter converts raw Go values handed over by ingestion code.
type TypeConverter struct {
	timeLayouts []string
}

// NewTypeConverter creates a new TypeConverter. Without layouts it uses DefaultTimeLayouts.
func NewTypeConverter(timeLayouts ...string) *TypeConverter {
	if len(timeLayouts) == 0 {
		timeLayouts = DefaultTimeLayouts
	}
	return &TypeConverter{timeLayouts: timeLayouts}
}

// SafeFloat64ToFloat32 safely converts float64 to float32, checking for overflow.
func (tc *TypeConverter) SafeFloat64ToFloat32(value float64) (float32, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return float32(value), nil
	}
	if value > math.MaxFloat32 || value < -math.MaxFloat32 {
		return 0, fmt.Errorf("float64 value %g overflows float32 range", value)
	}
	return float32(value), nil
}

// ToInt64 converts numeric, boolean and textual values to int64.
func (tc *TypeConverter) ToInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, fmt.Errorf("uint value %d overflows int64 range", v)
		}
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("uint64 value %d overflows int64 range", v)
		}
		return int64(v), nil
	case float32:
		return floatToInt64(float64(v))
	case float64:
		return floatToInt64(v)
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as integer: %w", v, err)
		}
		return floatToInt64(f)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int64", value)
	}
}

// ToInt32 converts a value to int32, rejecting out-of-range results.
func (tc *TypeConverter) ToInt32(value any) (int32, error) {
	i, err := tc.ToInt64(value)
	if err != nil {
		return 0, err
	}
	if i > math.MaxInt32 || i < math.MinInt32 {
		return 0, fmt.Errorf("value %d overflows int32 range", i)
	}
	return int32(i), nil
}

func floatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("float value %g overflows int64 range", f)
	}
	return int64(f), nil
}

// ToFloat64 converts numeric, boolean and textual values to float64.
func (tc *TypeConverter) ToFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case bool:
		if v {
			return 1.0, nil
		}
		return 0.0, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", value)
	}
}

// ToString converts various types to string.
func (tc *TypeConverter) ToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts various types to bool.
func (tc *TypeConverter) ToBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int, int8, int16, int32, int64:
		i, _ := tc.ToInt64(v)
		return i != 0, nil
	case uint, uint8, uint16, uint32, uint64:
		f, _ := tc.ToFloat64(v)
		return f != 0, nil
	case float32:
		return v != 0.0, nil
	case float64:
		return v != 0.0, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	default:
		return false, fmt.Errorf("cannot convert %T to bool", value)
	}
}

// ToTime converts a timestamp, unix seconds or text in one of the configured layouts to time.Time.
func (tc *TypeConverter) ToTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case int:
		return time.Unix(int64(v), 0).UTC(), nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range tc.timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse %q as timestamp", v)
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to time", value)
	}
}

// LooksLikeTime reports whether s plausibly holds a timestamp before attempting a parse.
func LooksLikeTime(s string) bool {
	if len(s) < 8 {
		return false
	}
	digits, seps := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-' || r == '/' || r == ':':
			seps++
		}
	}
	return digits >= 6 && seps >= 2
}

// IsNumericType checks if a value is of a numeric type.
func (tc *TypeConverter) IsNumericType(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}

// Default converter instance for convenience.
var defaultConverter = NewTypeConverter()

// Convenient functions using the default converter

// SafeFloat64ToFloat32 safely converts float64 to float32 using the default converter.
func SafeFloat64ToFloat32(value float64) (float32, error) {
	return defaultConverter.SafeFloat64ToFloat32(value)
}

// ToInt64 converts various types to int64 using the default converter.
func ToInt64(value any) (int64, error) {
	return defaultConverter.ToInt64(value)
}

// ToInt32 converts various types to int32 using the default converter.
func ToInt32(value any) (int32, error) {
	return defaultConverter.ToInt32(value)
}

// ToFloat64 converts various types to float64 using the default converter.
func ToFloat64(value any) (float64, error) {
	return defaultConverter.ToFloat64(value)
}

// ToString converts various types to string using the default converter.
func ToString(value any) string {
	return defaultConverter.ToString(value)
}

// ToBool converts various types to bool using the default converter.
func ToBool(value any) (bool, error) {
	return defaultConverter.ToBool(value)
}

// ToTime converts various types to time.Time using the default converter.
func ToTime(value any) (time.Time, error) {
	return defaultConverter.ToTime(value)
}

// IsNumericType checks if a value is numeric using the default converter.
func IsNumericType(value any) bool {
	return defaultConverter.IsNumericType(value)
}
