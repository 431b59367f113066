package element

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category groups element definitions for authoring palettes.
type Category string

const (
	CategoryInput   Category = "input"
	CategoryDisplay Category = "display"
	CategoryFilter  Category = "filter"
	CategoryAction  Category = "action"
	CategoryLayout  Category = "layout"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryInput, CategoryDisplay, CategoryFilter, CategoryAction, CategoryLayout:
		return true
	default:
		return false
	}
}

// FieldType is the declared type of a configuration field.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldArray   FieldType = "array"
	FieldObject  FieldType = "object"
)

// ConfigField describes one entry of an element's configuration schema.
type ConfigField struct {
	Type        FieldType `json:"type" yaml:"type"`
	Default     any       `json:"default,omitempty" yaml:"default,omitempty"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// RenderFunc is the rendering capability supplied by the UI layer. The
// composition core never calls it; it only reports whether one exists.
type RenderFunc func(config map[string]any, data map[string]any) (any, error)

// ExecutionHook runs once per ordered instance during an engine pass.
type ExecutionHook func(instanceID string, config map[string]any) error

// Definition describes one kind of element (poll, leaderboard, counter...).
type Definition struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description,omitempty"`
	Category     Category               `json:"category"`
	ConfigSchema map[string]ConfigField `json:"configSchema,omitempty"`
	Inputs       []string               `json:"inputs,omitempty"`
	Outputs      []string               `json:"outputs,omitempty"`

	Render RenderFunc    `json:"-"`
	Hook   ExecutionHook `json:"-"`
}

// DisplayName returns Name, or a title-cased form of the type id.
func (d Definition) DisplayName() string {
	if strings.TrimSpace(d.Name) != "" {
		return d.Name
	}
	words := strings.NewReplacer("-", " ", "_", " ").Replace(d.ID)
	return cases.Title(language.English).String(words)
}

// Renderable reports whether the UI layer supplied a render capability.
func (d Definition) Renderable() bool {
	return d.Render != nil
}

// DefaultConfig materialises the schema defaults into a fresh map.
func (d Definition) DefaultConfig() map[string]any {
	out := make(map[string]any, len(d.ConfigSchema))
	for name, field := range d.ConfigSchema {
		if field.Default == nil {
			continue
		}
		out[name] = cloneValue(field.Default)
	}
	return out
}

// HasOutput reports whether the definition declares the named output port.
func (d Definition) HasOutput(port string) bool {
	return contains(d.Outputs, port)
}

// HasInput reports whether the definition declares the named input port.
func (d Definition) HasInput(port string) bool {
	return contains(d.Inputs, port)
}

func (d Definition) String() string {
	return fmt.Sprintf("%s (%s)", d.ID, d.Category)
}

// clone copies the mutable parts so registered definitions stay immutable.
func (d Definition) clone() Definition {
	out := d
	if d.ConfigSchema != nil {
		out.ConfigSchema = make(map[string]ConfigField, len(d.ConfigSchema))
		for k, v := range d.ConfigSchema {
			v.Default = cloneValue(v.Default)
			out.ConfigSchema[k] = v
		}
	}
	out.Inputs = append([]string(nil), d.Inputs...)
	out.Outputs = append([]string(nil), d.Outputs...)
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, val := range typed {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, val := range typed {
			out[i] = cloneValue(val)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return v
	}
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
