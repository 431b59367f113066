package resolver

import (
	"sort"
	"strings"

	"github.com/alexisbeaulieu97/hivelab/internal/element"
	"github.com/alexisbeaulieu97/hivelab/internal/state"
)

// Collection and counter names used by the built-in elements.
const (
	keyAttendees   = "attendees"
	keyWaitlist    = "waitlist"
	keyValue       = "value"
	keySubmissions = "submissions"
	keyScores      = "scores"
	keySignups     = "signups"
	keyItems       = "items"
	keyCompleted   = "completed"
)

func registerExtractors(t *Table) {
	t.Register(element.TypePoll, Strategy{Outputs: map[string]OutputFunc{
		"results":    pollResults,
		"totalVotes": pollTotal,
	}})

	attendeeCount := countOf(keyAttendees)
	t.Register(element.TypeRSVP, Strategy{Outputs: map[string]OutputFunc{
		"attendees":     collectionOf(keyAttendees),
		"count":         attendeeCount,
		"attendeeCount": attendeeCount,
		"waitlist":      collectionOf(keyWaitlist),
	}})

	t.Register(element.TypeCounter, Strategy{Outputs: map[string]OutputFunc{
		"value": counterValue,
	}})

	submissions := collectionOf(keySubmissions)
	t.Register(element.TypeForm, Strategy{Outputs: map[string]OutputFunc{
		"submittedData":   submissions,
		"submissions":     submissions,
		"submissionCount": countOf(keySubmissions),
	}})

	t.Register(element.TypeLeaderboard, Strategy{Outputs: map[string]OutputFunc{
		"rankings":  rankings,
		"topScorer": rankings,
	}})

	t.Register(element.TypeSignup, Strategy{Outputs: map[string]OutputFunc{
		"signups":     collectionOf(keySignups),
		"signupCount": countOf(keySignups),
	}})

	t.Register(element.TypeChecklist, Strategy{Outputs: map[string]OutputFunc{
		"items":           collectionOf(keyItems),
		"completed":       collectionOf(keyCompleted),
		"completionCount": countOf(keyCompleted),
	}})
}

// genericOutput tries counter "{id}:{port}", then collection "{id}:{port}",
// then the instance's local state.
func genericOutput(src Source, port string) (any, bool) {
	key := state.Key(src.InstanceID, port)
	if v, ok := src.State.Counter(key); ok {
		return v, true
	}
	if entries, ok := src.State.Collection(key); ok {
		return entries, true
	}
	if v, ok := src.Local[port]; ok && !isAbsent(v) {
		return v, true
	}
	return nil, false
}

func pollResults(src Source) (any, bool) {
	counts := src.State.CountersWithPrefix(src.InstanceID)
	if len(counts) == 0 {
		return nil, false
	}

	points := make([]ChartPoint, 0, len(counts))
	seen := make(map[string]bool, len(counts))
	for _, option := range configuredOptions(src.Config) {
		value, ok := counts[option]
		if !ok || seen[option] {
			continue
		}
		seen[option] = true
		points = append(points, ChartPoint{Name: option, Value: value})
	}

	rest := make([]string, 0, len(counts))
	for option := range counts {
		if !seen[option] {
			rest = append(rest, option)
		}
	}
	sort.Strings(rest)
	for _, option := range rest {
		points = append(points, ChartPoint{Name: option, Value: counts[option]})
	}
	return points, true
}

func pollTotal(src Source) (any, bool) {
	counts := src.State.CountersWithPrefix(src.InstanceID)
	if len(counts) == 0 {
		return nil, false
	}
	var total float64
	for _, v := range counts {
		total += v
	}
	return total, true
}

// configuredOptions reads the poll's "options" config. Options are strings
// or records carrying an id or label.
func configuredOptions(config map[string]any) []string {
	items, ok := asSlice(config["options"])
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch typed := item.(type) {
		case string:
			out = append(out, strings.TrimSpace(typed))
		case map[string]any:
			if id := nestedString(typed, "id"); id != "" {
				out = append(out, id)
			} else if label := nestedString(typed, "label"); label != "" {
				out = append(out, label)
			}
		}
	}
	return out
}

func counterValue(src Source) (any, bool) {
	if v, ok := src.State.Counter(state.Key(src.InstanceID, keyValue)); ok {
		return v, true
	}
	if initial, ok := toNumber(src.Config["initialValue"]); ok {
		return initial, true
	}
	return float64(0), true
}

func collectionOf(name string) OutputFunc {
	return func(src Source) (any, bool) {
		entries, ok := src.State.Collection(state.Key(src.InstanceID, name))
		if !ok {
			return nil, false
		}
		return entries, true
	}
}

// countOf reads the counter sharing the collection's name, falling back to
// the number of entries in the collection.
func countOf(name string) OutputFunc {
	return func(src Source) (any, bool) {
		key := state.Key(src.InstanceID, name)
		if v, ok := src.State.Counter(key); ok {
			return v, true
		}
		if entries, ok := src.State.Collection(key); ok {
			return float64(len(entries)), true
		}
		return nil, false
	}
}

func rankings(src Source) (any, bool) {
	entries, ok := src.State.Collection(state.Key(src.InstanceID, keyScores))
	if !ok {
		return nil, false
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return coerceNumber(entries[i].Data["score"]) > coerceNumber(entries[j].Data["score"])
	})
	return entries, true
}
