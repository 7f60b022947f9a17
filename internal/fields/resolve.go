package fields

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Record is one decoded JSON object. Values are string, json.Number or a Go
// number, bool, []any, map[string]any or nil.
type Record = map[string]any

// Resolve returns the value of the first candidate key holding a non-empty
// value. Exact keys are tried first, then a case-insensitive pass. Keys may
// be dotted paths into nested records.
func Resolve(rec Record, keys ...string) any {
	v, _ := ResolveKey(rec, keys...)
	return v
}

// ResolveKey is Resolve that also reports which candidate matched.
func ResolveKey(rec Record, keys ...string) (any, string) {
	if rec == nil {
		return nil, ""
	}
	for _, key := range keys {
		if v, ok := lookup(rec, key, false); ok && !IsEmpty(v) {
			return v, key
		}
	}
	for _, key := range keys {
		if v, ok := lookup(rec, key, true); ok && !IsEmpty(v) {
			return v, key
		}
	}
	return nil, ""
}

// Has reports whether any candidate key resolves to a non-empty value.
func Has(rec Record, keys ...string) bool {
	return Resolve(rec, keys...) != nil
}

// Lookup returns the raw value at key or dotted path, empty or not.
func Lookup(rec Record, key string) (any, bool) {
	if v, ok := lookup(rec, key, false); ok {
		return v, true
	}
	return lookup(rec, key, true)
}

func lookup(rec Record, key string, fold bool) (any, bool) {
	if v, ok := get(rec, key, fold); ok {
		return v, true
	}
	if !strings.Contains(key, ".") {
		return nil, false
	}

	var cur any = rec
	for _, part := range strings.Split(key, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := get(node, part, fold)
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

func get(rec map[string]any, key string, fold bool) (any, bool) {
	if !fold {
		v, ok := rec[key]
		return v, ok
	}
	// keys differing only by case resolve to the lexically smallest one
	for _, k := range slices.Sorted(maps.Keys(rec)) {
		if strings.EqualFold(k, key) {
			return rec[k], true
		}
	}
	return nil, false
}

// AsRecord returns v as a Record when it is a JSON object.
func AsRecord(v any) (Record, bool) {
	rec, ok := v.(map[string]any)
	return rec, ok
}

// AsList returns v as a list when it is a JSON array.
func AsList(v any) ([]any, bool) {
	list, ok := v.([]any)
	return list, ok
}

// Records returns the object elements of a JSON array, skipping the rest.
func Records(v any) []Record {
	list, ok := AsList(v)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(list))
	for _, item := range list {
		if rec, ok := AsRecord(item); ok {
			out = append(out, rec)
		}
	}
	return out
}
