package propstore

import (
	"encoding/json"
	"strconv"
	"time"
)

// dateLayouts lists the ISO-8601 layouts accepted for date coercion, most
// specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// coerceBool implements the bool column's accepted-inputs row: bool only.
func coerceBool(raw any) (bool, bool) {
	b, ok := raw.(bool)
	return b, ok
}

// coerceInt64 implements the int64 column's row: a native int/int64 (the
// ergonomic direct-Go-call form), a json.Number (the decoded-JSON form,
// produced by decoders using UseNumber), or uint64, reinterpreting an
// out-of-int64-range uint64 literal as signed bits.
func coerceInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case uint64:
		return int64(v), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		if u, err := strconv.ParseUint(v.String(), 10, 64); err == nil {
			return int64(u), true
		}
	}
	return 0, false
}

// coerceDouble implements the double column's row: a native float64,
// int64, int, or uint64 (the ergonomic direct-Go-call form), or a
// json.Number (the decoded-JSON form), all promoted to float64.
func coerceDouble(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f, true
		}
	}
	return 0, false
}

// coerceString implements the string column's row: string only.
func coerceString(raw any) (string, bool) {
	s, ok := raw.(string)
	return s, ok
}

// coerceDate implements the date column's row: any numeric form
// coerceDouble accepts, or an ISO-8601 string, all reduced to
// seconds-since-epoch.
func coerceDate(raw any) (float64, bool) {
	if f, ok := coerceDouble(raw); ok {
		return f, true
	}
	s, ok := raw.(string)
	if !ok {
		return 0, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return float64(t.UnixNano()) / 1e9, true
		}
	}
	return 0, false
}

// coerceList applies elem to every member of raw, failing the whole list
// (per spec.md §4.3, a setter tombstones the whole cell on failure) if
// any single element fails to coerce. raw may be a decoded-JSON array
// ([]any) or a native Go slice of T, so a direct Go call can pass
// []int64{1, 2, 3} just as naturally as JSON decoding produces []any.
func coerceList[T any](raw any, elem func(any) (T, bool)) ([]T, bool) {
	if native, ok := raw.([]T); ok {
		out := make([]T, len(native))
		copy(out, native)
		return out, true
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	out := make([]T, len(arr))
	for i, item := range arr {
		v, ok := elem(item)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
