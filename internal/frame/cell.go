package frame

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// IsNull reports whether v represents a missing value. NaN floats count as
// null so values that went through a dataframe round-trip compare the same.
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	}
	return false
}

// AsFloat converts a numeric cell to float64. Strings are parsed leniently
// (surrounding whitespace allowed). ok is false for nulls and non-numeric
// values.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// AsInt converts an integral cell to int64. Floats with a fractional part
// are rejected.
func AsInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		if math.IsNaN(x) || x != math.Trunc(x) {
			return 0, false
		}
		return int64(x), true
	case string:
		s := strings.TrimSpace(x)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
			return int64(f), true
		}
	}
	return 0, false
}

// AsString returns the textual form of a non-null cell.
func AsString(v any) (string, bool) {
	if IsNull(v) {
		return "", false
	}
	return Format(v), true
}

// AsTime returns a time.Time cell. Strings are not parsed here; date parsing
// needs layouts and lives with the schema.
func AsTime(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

// Format renders a cell the way the CSV writer emits it. Null is the empty
// string; dates without a clock part are written as 2006-01-02.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(DateLayout)
		}
		return x.Format(DateTimeLayout)
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

const (
	// DateLayout is the canonical layout for dates without a time of day.
	DateLayout = "2006-01-02"
	// DateTimeLayout is used for timestamps that carry a time of day.
	DateTimeLayout = "2006-01-02 15:04:05"
)
