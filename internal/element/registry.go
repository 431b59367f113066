package element

import (
	"strings"
	"sync"

	"github.com/alexisbeaulieu97/hivelab/internal/logger"
	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

// Registry is the catalog of element definitions owned by whatever process or
// session hosts tool execution. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	order []string
	log   *logger.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		defs: make(map[string]Definition),
		log:  log,
	}
}

// NewDefaultRegistry returns a registry bootstrapped with Defaults().
func NewDefaultRegistry(log *logger.Logger) *Registry {
	r := NewRegistry(log)
	_, _ = r.Bootstrap(Defaults())
	return r
}

// Register inserts or overwrites a definition under its type id. An
// overwritten definition keeps its original registration position.
func (r *Registry) Register(def Definition) error {
	if err := validateID(def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.register(def)
	return nil
}

// Bootstrap registers defs only when the registry is empty, so repeated
// setup calls from different entry points leave the catalog unchanged. It
// reports whether anything was registered. The emptiness check and the
// inserts happen under one lock; an invalid definition registers nothing.
func (r *Registry) Bootstrap(defs []Definition) (bool, error) {
	for _, def := range defs {
		if err := validateID(def); err != nil {
			return false, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.defs) > 0 {
		return false, nil
	}
	for _, def := range defs {
		r.register(def)
	}
	r.log.With("elements", len(defs)).Debug("element registry bootstrapped")
	return true, nil
}

// register stores def; the caller holds the write lock.
func (r *Registry) register(def Definition) {
	if _, exists := r.defs[def.ID]; !exists {
		r.order = append(r.order, def.ID)
	} else {
		r.log.With("element", def.ID).Debug("overwriting element definition")
	}
	r.defs[def.ID] = def.clone()
}

func validateID(def Definition) error {
	if strings.TrimSpace(def.ID) == "" {
		return hiveerrors.NewValidationError("id", "element definition requires a non-empty type id", nil)
	}
	return nil
}

// Get looks up a definition by type id.
func (r *Registry) Get(id string) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[id]
	if !ok {
		return Definition{}, false
	}
	return def.clone(), true
}

// ListByCategory returns definitions of the given category in registration order.
func (r *Registry) ListByCategory(category Category) []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0)
	for _, id := range r.order {
		def := r.defs[id]
		if def.Category == category {
			out = append(out, def.clone())
		}
	}
	return out
}

// ListAll returns every definition in registration order.
func (r *Registry) ListAll() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id].clone())
	}
	return out
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}
