package engine

import (
	"fmt"
	"time"

	"github.com/alexisbeaulieu97/hivelab/internal/composition"
	"github.com/alexisbeaulieu97/hivelab/internal/element"
	"github.com/alexisbeaulieu97/hivelab/internal/logger"
	"github.com/alexisbeaulieu97/hivelab/internal/resolver"
	"github.com/alexisbeaulieu97/hivelab/internal/state"
	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

// SkippedInstance is an instance whose element type is not registered. It
// stays in the composition but gets no hook execution.
type SkippedInstance struct {
	InstanceID string `json:"instanceId"`
	ElementID  string `json:"elementId"`
}

// Result is the outcome of one execution pass.
type Result struct {
	Order              []string                     `json:"order"`
	Levels             [][]string                   `json:"levels"`
	Inputs             resolver.ResolvedInputs      `json:"inputs"`
	Local              state.LocalState             `json:"localState"`
	Skipped            []SkippedInstance            `json:"skipped,omitempty"`
	SkippedConnections []resolver.SkippedConnection `json:"skippedConnections,omitempty"`
}

// Engine orders a composition's instances, runs element hooks, and
// resolves connections against a state snapshot.
type Engine struct {
	registry *element.Registry
	resolver *resolver.Resolver
	log      *logger.Logger
	observer Observer
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithObserver receives statistics after every execution.
func WithObserver(obs Observer) Option {
	return func(e *Engine) {
		e.observer = obs
	}
}

// New wires an engine. A nil resolver gets a default one bound to registry.
func New(registry *element.Registry, res *resolver.Resolver, opts ...Option) *Engine {
	if res == nil {
		res = resolver.New(registry)
	}
	e := &Engine{
		registry: registry,
		resolver: res,
		log:      logger.Nop(),
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.observer == nil {
		e.observer = nopObserver{}
	}
	return e
}

// Order validates comp and returns its dependency order without running
// hooks or resolving values.
func (e *Engine) Order(comp *composition.Composition) ([]string, error) {
	if err := comp.Validate(); err != nil {
		return nil, err
	}
	graph, err := BuildGraph(comp)
	if err != nil {
		return nil, err
	}
	return graph.Order()
}

// Execute runs one pass over comp. The snapshot and local state are read,
// never modified; the returned Local is a copy with a slot per instance.
// A cycle, an invalid composition, a failing hook, or a rejected duplicate
// target aborts the pass with no partial result.
func (e *Engine) Execute(comp *composition.Composition, snap *state.Snapshot, local state.LocalState) (*Result, error) {
	start := e.now()
	stats := Stats{}
	if comp != nil {
		stats.ToolID = comp.ID
		stats.Instances = len(comp.Elements)
		stats.Connections = len(comp.Connections)
	}

	result, err := e.execute(comp, snap, local, &stats)

	stats.Duration = e.now().Sub(start)
	stats.Err = err
	e.observer.ObserveExecution(stats)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) execute(comp *composition.Composition, snap *state.Snapshot, local state.LocalState, stats *Stats) (*Result, error) {
	if err := comp.Validate(); err != nil {
		return nil, err
	}

	log := e.log.With("tool", comp.ID)
	slots := local.EnsureSlots(comp.InstanceIDs())

	graph, err := BuildGraph(comp)
	if err != nil {
		return nil, err
	}

	order, err := graph.Order()
	if err != nil {
		log.With("error", err.Error()).Warn("composition has a connection cycle")
		return nil, err
	}
	log.With("order", order).Debug("dependency order computed")

	skipped, err := e.runHooks(comp, order, log)
	if err != nil {
		return nil, err
	}
	stats.UnknownTypes = len(skipped)

	outcome, err := e.resolver.Resolve(resolver.Request{
		Composition: comp,
		State:       snap,
		Local:       slots,
		Order:       order,
	})
	if err != nil {
		return nil, err
	}

	stats.Skipped = make(map[resolver.SkipReason]int)
	for _, s := range outcome.Skipped {
		stats.Skipped[s.Reason]++
	}
	for _, ports := range outcome.Inputs {
		stats.Delivered += len(ports)
	}

	log.WithFields(map[string]any{
		"instances": len(order),
		"delivered": stats.Delivered,
		"skipped":   len(outcome.Skipped),
	}).Debug("composition resolved")

	return &Result{
		Order:              order,
		Levels:             graph.Levels(),
		Inputs:             outcome.Inputs,
		Local:              slots,
		Skipped:            skipped,
		SkippedConnections: outcome.Skipped,
	}, nil
}

func (e *Engine) runHooks(comp *composition.Composition, order []string, log *logger.Logger) ([]SkippedInstance, error) {
	instances := comp.InstanceMap()
	var skipped []SkippedInstance

	for _, id := range order {
		inst := instances[id]
		def, ok := e.registry.Get(inst.ElementID)
		if !ok {
			log.WithFields(map[string]any{"instance": id, "element": inst.ElementID}).Warn("unknown element type")
			skipped = append(skipped, SkippedInstance{InstanceID: id, ElementID: inst.ElementID})
			continue
		}
		if def.Hook == nil {
			continue
		}

		cfg, err := inst.EffectiveConfig(def.DefaultConfig())
		if err != nil {
			return nil, hiveerrors.NewExecutionError(id, err)
		}
		if err := def.Hook(id, cfg); err != nil {
			return nil, hiveerrors.NewExecutionError(id, fmt.Errorf("%s hook: %w", inst.ElementID, err))
		}
	}

	return skipped, nil
}
