package state

import (
	"os"

	"gopkg.in/yaml.v3"

	hiveerrors "github.com/alexisbeaulieu97/hivelab/pkg/errors"
)

// LoadSnapshot reads a YAML or JSON snapshot document from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, hiveerrors.NewParseError(path, 0, err)
	}
	return DecodeSnapshot(data, path)
}

// DecodeSnapshot decodes a YAML or JSON snapshot; source names the input in errors.
func DecodeSnapshot(data []byte, source string) (*Snapshot, error) {
	snap := NewSnapshot()
	if err := yaml.Unmarshal(data, snap); err != nil {
		return nil, hiveerrors.NewParseError(source, hiveerrors.YAMLLine(err), err)
	}
	normalize(snap)
	return snap, nil
}

// LoadLocalState reads a YAML or JSON map of instance id to local state.
func LoadLocalState(path string) (LocalState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, hiveerrors.NewParseError(path, 0, err)
	}

	local := LocalState{}
	if err := yaml.Unmarshal(data, &local); err != nil {
		return nil, hiveerrors.NewParseError(path, hiveerrors.YAMLLine(err), err)
	}
	return local, nil
}

func normalize(snap *Snapshot) {
	if snap.Counters == nil {
		snap.Counters = make(map[string]float64)
	}
	if snap.Collections == nil {
		snap.Collections = make(map[string]map[string]Entry)
	}
	if snap.Computed == nil {
		snap.Computed = make(map[string]any)
	}
	if snap.Timeline == nil {
		snap.Timeline = []TimelineEntry{}
	}
}
