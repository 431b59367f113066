package state

// LocalState holds the element-private state of each instance, keyed by
// instance id.
type LocalState map[string]map[string]any

// EnsureSlots returns a copy of l with an empty slot for every id that has
// none. Existing slots are carried over untouched, so repeated calls are
// idempotent.
func (l LocalState) EnsureSlots(instanceIDs []string) LocalState {
	out := make(LocalState, len(l)+len(instanceIDs))
	for id, slot := range l {
		out[id] = slot
	}
	for _, id := range instanceIDs {
		if _, ok := out[id]; !ok {
			out[id] = map[string]any{}
		}
	}
	return out
}

// Get reads one key from an instance's slot.
func (l LocalState) Get(instanceID, key string) (any, bool) {
	slot, ok := l[instanceID]
	if !ok {
		return nil, false
	}
	v, ok := slot[key]
	return v, ok
}
