package resolver

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// ChartPoint is one named value of a chart series.
type ChartPoint struct {
	Name  string  `json:"name" mapstructure:"name"`
	Value float64 `json:"value" mapstructure:"value"`
}

// ChartData is the input contract of chart displays.
type ChartData struct {
	ChartData []ChartPoint `json:"chartData"`
}

// LeaderboardEntry is one ranked row fed to a leaderboard.
type LeaderboardEntry struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// ItemList wraps list-shaped values for any "items" input.
type ItemList struct {
	Items []any `json:"items"`
}

// CounterValue is the input contract of counters.
type CounterValue struct {
	Value float64 `json:"value"`
}

// toNumber converts numeric kinds (not strings) to float64.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// coerceNumber converts numbers, numeric strings, and booleans; anything
// else, including NaN, becomes 0.
func coerceNumber(v any) float64 {
	if n, ok := toNumber(v); ok {
		if math.IsNaN(n) {
			return 0
		}
		return n
	}
	switch typed := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil || math.IsNaN(f) {
			return 0
		}
		return f
	case bool:
		if typed {
			return 1
		}
		return 0
	case CounterValue:
		return typed.Value
	default:
		return 0
	}
}

// asSlice flattens any slice or array value into []any.
func asSlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// isAbsent reports whether a value counts as "no value". Nil maps, slices,
// and pointers are absent; empty but non-nil collections are not.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

func nestedString(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	s, ok := data[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
