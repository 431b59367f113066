package state

import (
	"sort"
	"strings"
)

// KeySeparator joins an instance id and a semantic name in state keys.
const KeySeparator = ":"

// Key namespaces a state key to one element instance: "{instanceId}:{name}".
func Key(instanceID, name string) string {
	return instanceID + KeySeparator + name
}

// Entry is one record of a collection (an RSVP, a submission, a score...).
type Entry struct {
	ID        string         `json:"id" yaml:"id" mapstructure:"id"`
	CreatedBy string         `json:"createdBy,omitempty" yaml:"createdBy,omitempty" mapstructure:"createdBy"`
	CreatedAt string         `json:"createdAt,omitempty" yaml:"createdAt,omitempty" mapstructure:"createdAt"`
	UpdatedAt string         `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty" mapstructure:"updatedAt"`
	Data      map[string]any `json:"data,omitempty" yaml:"data,omitempty" mapstructure:"data"`
}

// TimelineEntry records one interaction against the shared state.
type TimelineEntry struct {
	ID         string         `json:"id" yaml:"id"`
	Type       string         `json:"type" yaml:"type"`
	InstanceID string         `json:"instanceId,omitempty" yaml:"instanceId,omitempty"`
	UserID     string         `json:"userId,omitempty" yaml:"userId,omitempty"`
	Timestamp  string         `json:"timestamp" yaml:"timestamp"`
	Data       map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// Snapshot is an immutable view of the state shared by every instance of one
// running tool. Readers never mutate it.
type Snapshot struct {
	Counters     map[string]float64          `json:"counters" yaml:"counters"`
	Collections  map[string]map[string]Entry `json:"collections" yaml:"collections"`
	Timeline     []TimelineEntry             `json:"timeline" yaml:"timeline"`
	Computed     map[string]any              `json:"computed" yaml:"computed"`
	Version      int64                       `json:"version" yaml:"version"`
	LastModified string                      `json:"lastModified" yaml:"lastModified"`
}

// NewSnapshot returns an empty snapshot with initialised maps.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Counters:    make(map[string]float64),
		Collections: make(map[string]map[string]Entry),
		Timeline:    []TimelineEntry{},
		Computed:    make(map[string]any),
	}
}

// Counter returns the counter stored under key.
func (s *Snapshot) Counter(key string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s.Counters[key]
	return v, ok
}

// CountersWithPrefix returns every counter belonging to instanceID, keyed by
// the name after the "{instanceId}:" prefix.
func (s *Snapshot) CountersWithPrefix(instanceID string) map[string]float64 {
	out := make(map[string]float64)
	if s == nil {
		return out
	}
	prefix := instanceID + KeySeparator
	for key, value := range s.Counters {
		if name, ok := strings.CutPrefix(key, prefix); ok && name != "" {
			out[name] = value
		}
	}
	return out
}

// Collection returns the entries stored under key ordered by entry id.
// Entries without an id take the map key as their id.
func (s *Snapshot) Collection(key string) ([]Entry, bool) {
	if s == nil {
		return nil, false
	}
	raw, ok := s.Collections[key]
	if !ok {
		return nil, false
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Entry, 0, len(raw))
	for _, k := range keys {
		entry := raw[k]
		if entry.ID == "" {
			entry.ID = k
		}
		out = append(out, entry)
	}
	return out, true
}

// Clone returns a deep copy suitable for handing to another owner.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Counters:     make(map[string]float64, len(s.Counters)),
		Collections:  make(map[string]map[string]Entry, len(s.Collections)),
		Timeline:     make([]TimelineEntry, len(s.Timeline)),
		Computed:     cloneMap(s.Computed),
		Version:      s.Version,
		LastModified: s.LastModified,
	}
	for k, v := range s.Counters {
		out.Counters[k] = v
	}
	for key, entries := range s.Collections {
		copied := make(map[string]Entry, len(entries))
		for id, entry := range entries {
			entry.Data = cloneMap(entry.Data)
			copied[id] = entry
		}
		out.Collections[key] = copied
	}
	for i, item := range s.Timeline {
		item.Data = cloneMap(item.Data)
		out.Timeline[i] = item
	}
	return out
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneAny(v)
	}
	return out
}

func cloneAny(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return cloneMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneAny(item)
		}
		return out
	default:
		return v
	}
}
