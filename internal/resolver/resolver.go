package resolver

import (
	"fmt"
	"sort"

	"github.com/alexisbeaulieu97/hivelab/internal/composition"
	"github.com/alexisbeaulieu97/hivelab/internal/element"
	"github.com/alexisbeaulieu97/hivelab/internal/logger"
	"github.com/alexisbeaulieu97/hivelab/internal/state"
	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

// ResolvedInputs maps instance id to input port to delivered value.
type ResolvedInputs map[string]map[string]any

// Get returns the value delivered to one input port.
func (r ResolvedInputs) Get(instanceID, port string) (any, bool) {
	ports, ok := r[instanceID]
	if !ok {
		return nil, false
	}
	v, ok := ports[port]
	return v, ok
}

func (r ResolvedInputs) set(instanceID, port string, value any) {
	ports, ok := r[instanceID]
	if !ok {
		ports = make(map[string]any)
		r[instanceID] = ports
	}
	ports[port] = value
}

// DuplicatePolicy decides what happens when several connections feed the
// same input port.
type DuplicatePolicy string

const (
	// LastWriteWins keeps the value of the connection processed last.
	LastWriteWins DuplicatePolicy = "last-write-wins"
	// RejectDuplicates fails the pass before any value is produced.
	RejectDuplicates DuplicatePolicy = "reject"
)

// ParseDuplicatePolicy maps a configuration value to a policy. An empty
// value selects LastWriteWins.
func ParseDuplicatePolicy(value string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(value) {
	case "", LastWriteWins:
		return LastWriteWins, nil
	case RejectDuplicates:
		return RejectDuplicates, nil
	default:
		return "", fmt.Errorf("unknown duplicate target policy %q", value)
	}
}

// SkipReason explains why a connection produced no value.
type SkipReason string

const (
	SkipDangling SkipReason = "dangling-connection"
	SkipAbsent   SkipReason = "absent-value"
)

// SkippedConnection records one connection that delivered nothing.
type SkippedConnection struct {
	Index      int                       `json:"index"`
	Connection composition.ConnectionRef `json:"connection"`
	Reason     SkipReason                `json:"reason"`
}

// Request is the input of one resolution pass.
type Request struct {
	Composition *composition.Composition
	State       *state.Snapshot
	Local       state.LocalState
	// Order is an optional dependency order of instance ids. Connections
	// are grouped by target following it; targets it does not list come
	// last in declaration order.
	Order []string
}

// Outcome is the result of one resolution pass.
type Outcome struct {
	Inputs  ResolvedInputs
	Skipped []SkippedConnection
}

// Resolver computes ResolvedInputs from a composition and a state snapshot.
// It never mutates its inputs and is safe for concurrent use.
type Resolver struct {
	table    *Table
	registry *element.Registry
	policy   DuplicatePolicy
	log      *logger.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTable replaces the default rule table.
func WithTable(t *Table) Option {
	return func(r *Resolver) {
		if t != nil {
			r.table = t
		}
	}
}

// WithDuplicatePolicy selects the duplicate target policy.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(r *Resolver) {
		if p != "" {
			r.policy = p
		}
	}
}

// WithLogger attaches a logger; skipped connections are logged at debug.
func WithLogger(log *logger.Logger) Option {
	return func(r *Resolver) {
		r.log = log
	}
}

// New builds a resolver. The registry supplies default configuration for
// source instances; a nil registry means instance config is used as is.
func New(registry *element.Registry, opts ...Option) *Resolver {
	r := &Resolver{
		table:    DefaultTable(),
		registry: registry,
		policy:   LastWriteWins,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the active duplicate target policy.
func (r *Resolver) Policy() DuplicatePolicy {
	return r.policy
}

// Resolve runs extraction and formatting for every connection. Dangling
// connections and absent values are skipped, never fatal.
func (r *Resolver) Resolve(req Request) (*Outcome, error) {
	out := &Outcome{Inputs: make(ResolvedInputs)}
	comp := req.Composition
	if comp == nil {
		return out, nil
	}

	instances := comp.InstanceMap()

	if r.policy == RejectDuplicates {
		for _, dup := range comp.DuplicateTargets() {
			if _, ok := instances[dup.Target.InstanceID]; !ok {
				continue
			}
			return nil, hiveerrors.NewDuplicateTargetError(dup.Target.InstanceID, dup.Target.Port, len(dup.Indexes))
		}
	}

	configs := make(map[string]map[string]any, len(instances))
	for _, idx := range r.connectionOrder(comp, req.Order) {
		conn := comp.Connections[idx]
		log := r.log.WithFields(map[string]any{
			"connection": idx,
			"from":       conn.From.InstanceID + "." + conn.From.Output,
			"to":         conn.To.InstanceID + "." + conn.To.Input,
		})

		source, srcOK := instances[conn.From.InstanceID]
		target, dstOK := instances[conn.To.InstanceID]
		if !srcOK || !dstOK {
			log.Debug("skipping dangling connection")
			out.Skipped = append(out.Skipped, SkippedConnection{Index: idx, Connection: conn, Reason: SkipDangling})
			continue
		}

		config, ok := configs[source.InstanceID]
		if !ok {
			config = r.effectiveConfig(source, log)
			configs[source.InstanceID] = config
		}

		raw, ok := r.table.Extract(Source{
			InstanceID: source.InstanceID,
			ElementID:  source.ElementID,
			Config:     config,
			Local:      req.Local[source.InstanceID],
			State:      req.State,
		}, conn.From.Output)
		if !ok || isAbsent(raw) {
			log.Debug("source has no value")
			out.Skipped = append(out.Skipped, SkippedConnection{Index: idx, Connection: conn, Reason: SkipAbsent})
			continue
		}

		value, ok := r.table.Format(target.ElementID, conn.To.Input, raw)
		if !ok || isAbsent(value) {
			log.Debug("formatted value is empty")
			out.Skipped = append(out.Skipped, SkippedConnection{Index: idx, Connection: conn, Reason: SkipAbsent})
			continue
		}

		out.Inputs.set(target.InstanceID, conn.To.Input, value)
	}

	return out, nil
}

func (r *Resolver) effectiveConfig(inst composition.Instance, log *logger.Logger) map[string]any {
	def, ok := r.registry.Get(inst.ElementID)
	if !ok {
		cfg, _ := inst.EffectiveConfig(nil)
		return cfg
	}
	cfg, err := inst.EffectiveConfig(def.DefaultConfig())
	if err != nil {
		log.Warn(fmt.Sprintf("falling back to instance config: %v", err))
		cfg, _ = inst.EffectiveConfig(nil)
	}
	return cfg
}

// connectionOrder returns connection indexes grouped by target instance in
// dependency order, declaration order within one target.
func (r *Resolver) connectionOrder(comp *composition.Composition, order []string) []int {
	indexes := make([]int, len(comp.Connections))
	for i := range indexes {
		indexes[i] = i
	}
	if len(order) == 0 {
		return indexes
	}

	rank := make(map[string]int, len(order))
	for i, id := range order {
		if _, seen := rank[id]; !seen {
			rank[id] = i
		}
	}
	rankOf := func(idx int) int {
		if v, ok := rank[comp.Connections[idx].To.InstanceID]; ok {
			return v
		}
		return len(order)
	}

	sort.SliceStable(indexes, func(a, b int) bool {
		return rankOf(indexes[a]) < rankOf(indexes[b])
	})
	return indexes
}
