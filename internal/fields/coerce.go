package fields

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type floater interface {
	Float64() (float64, error)
}

// IsEmpty reports whether v counts as absent: nil, "", [] or {}.
// Zero numbers and false are present.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// IsNumeric reports whether v is a number or a string holding one.
func IsNumeric(v any) bool {
	switch t := v.(type) {
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return err == nil
	case bool, nil:
		return false
	}
	_, ok := ToFloat(v)
	return ok
}

// ToFloat converts numbers and numeric strings.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case floater:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}

// Float converts v or returns 0.
func Float(v any) float64 {
	f, _ := ToFloat(v)
	return f
}

// Int converts v, truncating fractions, or returns 0.
func Int(v any) int {
	f, ok := ToFloat(v)
	if !ok {
		return 0
	}
	return int(f)
}

// String renders scalars as text. Lists and objects yield "".
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case []any, map[string]any:
		return ""
	case floater:
		if s, ok := t.(fmt.Stringer); ok {
			return s.String()
		}
		if f, err := t.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return ""
}

// Strings flattens a comma separated string or a list of scalars into
// trimmed non-empty entries.
func Strings(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	case []any:
		for _, item := range t {
			if s := strings.TrimSpace(String(item)); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
