package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/netrixframework/mbrl/mdp"
	"gopkg.in/yaml.v3"
)

// File is the serialized form of a Graph
type File struct {
	Initial int64       `json:"initial" yaml:"initial"`
	Setup   []string    `json:"setup,omitempty" yaml:"setup,omitempty"`
	States  []StateSpec `json:"states" yaml:"states"`
}

// StateSpec describes a state and its outgoing transitions
type StateSpec struct {
	ID          int64            `json:"id" yaml:"id"`
	Label       string           `json:"label,omitempty" yaml:"label,omitempty"`
	Transitions []TransitionSpec `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// TransitionSpec describes one edge
type TransitionSpec struct {
	ID     string  `json:"id,omitempty" yaml:"id,omitempty"`
	Name   string  `json:"name,omitempty" yaml:"name,omitempty"`
	To     int64   `json:"to" yaml:"to"`
	Reward float64 `json:"reward" yaml:"reward"`
}

// Load reads a graph file. Files ending in .yaml or .yml are decoded as
// YAML, everything else as JSON.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading graph file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON decodes a graph from JSON
func ParseJSON(data []byte) (*Graph, error) {
	f := &File{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("error unmarshalling graph: %w", err)
	}
	return FromFile(f)
}

// ParseYAML decodes a graph from YAML
func ParseYAML(data []byte) (*Graph, error) {
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("error unmarshalling graph: %w", err)
	}
	return FromFile(f)
}

// FromFile builds the graph described by f
func FromFile(f *File) (*Graph, error) {
	g := New(mdp.StateID(f.Initial))
	g.Setup(f.Setup...)
	for _, s := range f.States {
		g.AddState(mdp.StateID(s.ID), s.Label)
	}
	for _, s := range f.States {
		for _, t := range s.Transitions {
			err := g.AddTransition(mdp.StateID(s.ID), mdp.StateID(t.To), mdp.ActionID(t.ID), t.Name, t.Reward)
			if err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}
