package resolver

import (
	"github.com/alexisbeaulieu97/hivelab/internal/state"
)

// Source is everything an extractor may read about one source instance.
type Source struct {
	InstanceID string
	ElementID  string
	// Config is the effective configuration (instance values over defaults).
	Config map[string]any
	// Local is the instance's private element state; may be nil.
	Local map[string]any
	State *state.Snapshot
}

// OutputFunc extracts the current value of one output port. The boolean is
// false when the source has no value yet.
type OutputFunc func(src Source) (any, bool)

// InputFunc reshapes a raw value into the contract of one input port. The
// boolean is false when nothing should be delivered.
type InputFunc func(raw any) (any, bool)

// Strategy holds the port rules of one element type.
type Strategy struct {
	Outputs map[string]OutputFunc
	Inputs  map[string]InputFunc
}

// Table maps element type ids to strategies. Populate it before handing it
// to a Resolver; lookups are not synchronised with registration.
type Table struct {
	strategies map[string]Strategy
	portInputs map[string]InputFunc
}

// NewTable returns an empty table. Every lookup against it falls back to the
// generic extraction and pass-through formatting.
func NewTable() *Table {
	return &Table{
		strategies: make(map[string]Strategy),
		portInputs: make(map[string]InputFunc),
	}
}

// Register adds the ports of s to elementID's strategy. Ports already
// registered for the type are replaced.
func (t *Table) Register(elementID string, s Strategy) {
	current := t.strategies[elementID]
	if current.Outputs == nil {
		current.Outputs = make(map[string]OutputFunc)
	}
	if current.Inputs == nil {
		current.Inputs = make(map[string]InputFunc)
	}
	for port, fn := range s.Outputs {
		current.Outputs[port] = fn
	}
	for port, fn := range s.Inputs {
		current.Inputs[port] = fn
	}
	t.strategies[elementID] = current
}

// RegisterPortInput installs a formatter applied to the named input port of
// any element type without a type-specific rule for it.
func (t *Table) RegisterPortInput(port string, fn InputFunc) {
	t.portInputs[port] = fn
}

// Extract runs the type-specific rule for src's output port, or the generic
// fallback when the type does not special-case that port.
func (t *Table) Extract(src Source, port string) (any, bool) {
	if fn, ok := t.strategies[src.ElementID].Outputs[port]; ok {
		return fn(src)
	}
	return genericOutput(src, port)
}

// Format reshapes raw for the input port of a target element type: the
// type's own rule first, then the port-wide rule, then pass-through.
func (t *Table) Format(elementID, port string, raw any) (any, bool) {
	if isAbsent(raw) {
		return nil, false
	}
	if fn, ok := t.strategies[elementID].Inputs[port]; ok {
		return fn(raw)
	}
	if fn, ok := t.portInputs[port]; ok {
		return fn(raw)
	}
	return raw, true
}

// DefaultTable returns the rule set for the built-in element catalog.
func DefaultTable() *Table {
	t := NewTable()
	registerExtractors(t)
	registerFormatters(t)
	return t
}
