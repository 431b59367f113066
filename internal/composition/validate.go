package composition

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/hivelab/internal/validation"
	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
	validateErr   error

	// ':' is reserved as the state key separator.
	instanceIDPattern = regexp.MustCompile(`^[^:\s]+$`)
)

func validatorInstance() (*validator.Validate, error) {
	validatorOnce.Do(func() {
		validateInst, validateErr = validation.New(map[string]validator.Func{
			"instance_id": func(fl validator.FieldLevel) bool {
				return instanceIDPattern.MatchString(fl.Field().String())
			},
		})
	})

	return validateInst, validateErr
}

// Validate checks the structural invariants of a composition: required
// identifiers, known layout, well-formed ports, and unique instance ids.
// Dangling connections and duplicate targets are not errors; see
// DanglingConnections and DuplicateTargets.
func (c *Composition) Validate() error {
	if c == nil {
		return hiveerrors.NewValidationError("composition", "composition is nil", nil)
	}

	v, err := validatorInstance()
	if err != nil {
		return hiveerrors.NewValidationError("composition", "validator setup failed", err)
	}
	if err := v.Struct(c); err != nil {
		return validation.ConvertError(err, "composition")
	}

	seen := make(map[string]int, len(c.Elements))
	for i, inst := range c.Elements {
		if first, exists := seen[inst.InstanceID]; exists {
			return hiveerrors.NewValidationError(
				fmt.Sprintf("elements[%d].instanceId", i),
				fmt.Sprintf("duplicate instance id %q (first used by elements[%d])", inst.InstanceID, first),
				nil,
			)
		}
		seen[inst.InstanceID] = i
	}

	return nil
}

// Dangling describes a connection that references an instance the
// composition does not contain.
type Dangling struct {
	Index      int
	Connection ConnectionRef
	Missing    []string
}

// DanglingConnections lists connections whose source or target instance is
// absent from Elements, in declaration order.
func (c *Composition) DanglingConnections() []Dangling {
	instances := c.InstanceMap()
	var out []Dangling
	for i, conn := range c.Connections {
		var missing []string
		if _, ok := instances[conn.From.InstanceID]; !ok {
			missing = append(missing, conn.From.InstanceID)
		}
		if _, ok := instances[conn.To.InstanceID]; !ok && conn.To.InstanceID != conn.From.InstanceID {
			missing = append(missing, conn.To.InstanceID)
		}
		if len(missing) > 0 {
			out = append(out, Dangling{Index: i, Connection: conn, Missing: missing})
		}
	}
	return out
}

// Duplicate reports an input port fed by more than one connection.
type Duplicate struct {
	Target  Target
	Indexes []int
}

// DuplicateTargets lists input ports fed by several connections, ordered by
// the first connection feeding each.
func (c *Composition) DuplicateTargets() []Duplicate {
	indexes := make(map[Target][]int)
	var order []Target
	for i, conn := range c.Connections {
		target := Target{InstanceID: conn.To.InstanceID, Port: conn.To.Input}
		if _, ok := indexes[target]; !ok {
			order = append(order, target)
		}
		indexes[target] = append(indexes[target], i)
	}

	var out []Duplicate
	for _, target := range order {
		if len(indexes[target]) > 1 {
			out = append(out, Duplicate{Target: target, Indexes: indexes[target]})
		}
	}
	return out
}
