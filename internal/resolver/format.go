package resolver

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/mitchellh/mapstructure"

	"github.com/alexisbeaulieu97/hivelab/internal/element"
	"github.com/alexisbeaulieu97/hivelab/internal/state"
)

// totalLabel names the single point produced when a value collapses to a count.
const totalLabel = "Total"

func registerFormatters(t *Table) {
	t.Register(element.TypeChart, Strategy{Inputs: map[string]InputFunc{
		"data": chartInput,
	}})
	t.Register(element.TypeLeaderboard, Strategy{Inputs: map[string]InputFunc{
		"entries": leaderboardInput,
	}})
	t.Register(element.TypeCounter, Strategy{Inputs: map[string]InputFunc{
		"value": counterInput,
	}})
	t.RegisterPortInput("items", itemsInput)
}

func chartInput(raw any) (any, bool) {
	switch typed := raw.(type) {
	case ChartData:
		return typed, true
	case []ChartPoint:
		return ChartData{ChartData: typed}, true
	case CounterValue:
		return single(typed.Value), true
	}

	if n, ok := toNumber(raw); ok {
		return single(n), true
	}

	if items, ok := asSlice(raw); ok {
		if points, shaped := chartPoints(items); shaped {
			return ChartData{ChartData: points}, true
		}
		return single(float64(len(items))), true
	}

	if points, ok := mapPoints(raw); ok {
		return ChartData{ChartData: points}, true
	}

	return raw, true
}

func single(v float64) ChartData {
	return ChartData{ChartData: []ChartPoint{{Name: totalLabel, Value: v}}}
}

// chartPoints converts items that all carry a name and a value. The second
// result is false as soon as one item is an opaque record.
func chartPoints(items []any) ([]ChartPoint, bool) {
	points := make([]ChartPoint, 0, len(items))
	for _, item := range items {
		if p, ok := item.(ChartPoint); ok {
			points = append(points, p)
			continue
		}
		record, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		if _, hasName := record["name"]; !hasName {
			return nil, false
		}
		if _, hasValue := record["value"]; !hasValue {
			return nil, false
		}
		var p ChartPoint
		if err := weakDecode(record, &p); err != nil {
			p = ChartPoint{Name: fmt.Sprint(record["name"]), Value: coerceNumber(record["value"])}
		}
		points = append(points, p)
	}
	return points, true
}

// mapPoints turns a plain object such as {optionA: 5, optionB: 3} into
// points sorted by key.
func mapPoints(raw any) ([]ChartPoint, bool) {
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	points := make([]ChartPoint, 0, len(keys))
	for _, k := range keys {
		value := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()
		points = append(points, ChartPoint{Name: k, Value: coerceNumber(value)})
	}
	return points, true
}

func leaderboardInput(raw any) (any, bool) {
	if entries, ok := raw.([]LeaderboardEntry); ok {
		out := append([]LeaderboardEntry(nil), entries...)
		sortByScore(out)
		return out, true
	}
	items, ok := asSlice(raw)
	if !ok {
		return raw, true
	}
	entries := make([]LeaderboardEntry, 0, len(items))
	for i, item := range items {
		entries = append(entries, leaderboardEntry(item, i))
	}
	sortByScore(entries)
	return entries, true
}

func sortByScore(entries []LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
}

// scoredRecord is the loose shape of anything a leaderboard can rank.
type scoredRecord struct {
	ID        string         `mapstructure:"id"`
	Name      string         `mapstructure:"name"`
	CreatedBy string         `mapstructure:"createdBy"`
	Score     any            `mapstructure:"score"`
	Value     any            `mapstructure:"value"`
	Data      map[string]any `mapstructure:"data"`
}

func leaderboardEntry(item any, index int) LeaderboardEntry {
	rec, ok := toScoredRecord(item)
	if !ok {
		rec = scoredRecord{Score: item}
	}

	entry := LeaderboardEntry{ID: rec.ID, Name: displayName(rec)}
	if entry.ID == "" {
		entry.ID = nestedString(rec.Data, "id")
	}
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("entry-%d", index+1)
	}
	if entry.Name == "" {
		entry.Name = fmt.Sprintf("Entry %d", index+1)
	}

	switch {
	case rec.Data != nil && rec.Data["score"] != nil:
		entry.Score = coerceNumber(rec.Data["score"])
	case rec.Score != nil:
		entry.Score = coerceNumber(rec.Score)
	default:
		entry.Score = coerceNumber(rec.Value)
	}
	return entry
}

func toScoredRecord(item any) (scoredRecord, bool) {
	switch typed := item.(type) {
	case state.Entry:
		return scoredRecord{ID: typed.ID, CreatedBy: typed.CreatedBy, Data: typed.Data}, true
	case LeaderboardEntry:
		return scoredRecord{ID: typed.ID, Name: typed.Name, Score: typed.Score}, true
	case ChartPoint:
		return scoredRecord{Name: typed.Name, Score: typed.Value}, true
	case map[string]any:
		var rec scoredRecord
		if err := weakDecode(typed, &rec); err != nil {
			return scoredRecord{}, false
		}
		return rec, true
	default:
		return scoredRecord{}, false
	}
}

func displayName(rec scoredRecord) string {
	for _, candidate := range []string{
		nestedString(rec.Data, "displayName"),
		nestedString(rec.Data, "name"),
		rec.Name,
		rec.CreatedBy,
	} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func itemsInput(raw any) (any, bool) {
	if list, ok := raw.(ItemList); ok {
		return list, true
	}
	if items, ok := asSlice(raw); ok {
		return ItemList{Items: items}, true
	}
	return raw, true
}

func counterInput(raw any) (any, bool) {
	return CounterValue{Value: coerceNumber(raw)}, true
}

func weakDecode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
