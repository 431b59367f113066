package composition

// Layout is the presentation mode of a composed tool.
type Layout string

const (
	LayoutGrid    Layout = "grid"
	LayoutFlow    Layout = "flow"
	LayoutTabs    Layout = "tabs"
	LayoutSidebar Layout = "sidebar"
)

// Composition is the authorable unit of a tool: placed element instances
// plus the connections wiring their ports together.
type Composition struct {
	ID          string          `json:"id" yaml:"id" validate:"required"`
	Name        string          `json:"name" yaml:"name" validate:"required,max=200"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Elements    []Instance      `json:"elements" yaml:"elements" validate:"dive"`
	Connections []ConnectionRef `json:"connections" yaml:"connections" validate:"dive"`
	Layout      Layout          `json:"layout,omitempty" yaml:"layout,omitempty" validate:"omitempty,oneof=grid flow tabs sidebar"`
}

// Instance is one placed occurrence of an element definition.
type Instance struct {
	ElementID  string         `json:"elementId" yaml:"elementId" validate:"required"`
	InstanceID string         `json:"instanceId" yaml:"instanceId" validate:"required,instance_id"`
	Config     map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
	Position   Position       `json:"position" yaml:"position"`
	Size       Size           `json:"size" yaml:"size"`
}

// Position is presentation-only geometry.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Size is presentation-only geometry.
type Size struct {
	Width  float64 `json:"width" yaml:"width" validate:"gte=0"`
	Height float64 `json:"height" yaml:"height" validate:"gte=0"`
}

// ConnectionRef is a directed edge: From's output port feeds To's input port.
type ConnectionRef struct {
	From OutputRef `json:"from" yaml:"from"`
	To   InputRef  `json:"to" yaml:"to"`
}

// OutputRef names an output port of an instance.
type OutputRef struct {
	InstanceID string `json:"instanceId" yaml:"instanceId" validate:"required"`
	Output     string `json:"output" yaml:"output" validate:"required"`
}

// InputRef names an input port of an instance.
type InputRef struct {
	InstanceID string `json:"instanceId" yaml:"instanceId" validate:"required"`
	Input      string `json:"input" yaml:"input" validate:"required"`
}

// Target identifies one input port of one instance.
type Target struct {
	InstanceID string
	Port       string
}

// EffectiveLayout returns the layout, defaulting to grid.
func (c *Composition) EffectiveLayout() Layout {
	if c.Layout == "" {
		return LayoutGrid
	}
	return c.Layout
}

// InstanceIDs returns instance ids in element order.
func (c *Composition) InstanceIDs() []string {
	out := make([]string, 0, len(c.Elements))
	for _, inst := range c.Elements {
		out = append(out, inst.InstanceID)
	}
	return out
}

// InstanceMap indexes instances by instance id.
func (c *Composition) InstanceMap() map[string]Instance {
	out := make(map[string]Instance, len(c.Elements))
	for _, inst := range c.Elements {
		out[inst.InstanceID] = inst
	}
	return out
}

// Instance looks up an instance by id.
func (c *Composition) Instance(instanceID string) (Instance, bool) {
	for _, inst := range c.Elements {
		if inst.InstanceID == instanceID {
			return inst, true
		}
	}
	return Instance{}, false
}
