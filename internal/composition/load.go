package composition

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

// Load reads a YAML or JSON composition from disk and validates it.
func Load(path string) (*Composition, error) {
	comp, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := comp.Validate(); err != nil {
		return nil, err
	}
	return comp, nil
}

// Read decodes a composition file without validating it, for callers that
// report structural problems themselves.
func Read(path string) (*Composition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, hiveerrors.NewParseError(path, 0, err)
	}
	return Parse(data, path)
}

// Decode parses and validates a YAML or JSON composition document.
func Decode(data []byte, source string) (*Composition, error) {
	comp, err := Parse(data, source)
	if err != nil {
		return nil, err
	}
	if err := comp.Validate(); err != nil {
		return nil, err
	}
	return comp, nil
}

// Parse decodes a YAML or JSON composition document.
func Parse(data []byte, source string) (*Composition, error) {
	var comp Composition
	if err := yaml.Unmarshal(data, &comp); err != nil {
		return nil, hiveerrors.NewParseError(source, hiveerrors.YAMLLine(err), err)
	}
	return &comp, nil
}

// EffectiveConfig overlays the instance configuration on the element's
// default configuration. Instance values win; nested maps are merged.
func (i Instance) EffectiveConfig(defaults map[string]any) (map[string]any, error) {
	out := cloneConfig(i.Config)
	if len(defaults) == 0 {
		return out, nil
	}
	// Explicit zero values set by the author (false, 0, "") must survive the merge.
	if err := mergo.Merge(&out, cloneConfig(defaults), mergo.WithoutDereference); err != nil {
		return nil, fmt.Errorf("merge defaults for %s: %w", i.InstanceID, err)
	}
	return out, nil
}

func cloneConfig(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return cloneConfig(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
