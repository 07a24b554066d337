// Package definition loads Markov models from JSON or YAML documents of the form
//
//	{"model": {"markov": {"state_A": {"B": 0.5}, "state_B": {}}, "start": "A"}}
//
// State keys carry a "state_" prefix; destination keys are bare state names.
// State and destination order follow the document.
package definition

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/chainviz/pkg/markov"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// StatePrefix marks state keys in the "markov" mapping.
const StatePrefix = "state_"

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Destinations maps destination state names to probabilities.
type Destinations = orderedmap.OrderedMap[string, float64]

// Document is the on-disk representation of a model.
type Document struct {
	Model Body `json:"model" yaml:"model"`
}

// Body holds the chain and its start state.
type Body struct {
	Markov *orderedmap.OrderedMap[string, *Destinations] `json:"markov" yaml:"markov"`
	Start  string                                        `json:"start" yaml:"start"`
}

// Parse decodes a document.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse model json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse model yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported model format %q", format)
	}
	if doc.Model.Markov == nil {
		return nil, fmt.Errorf("model document has no 'model.markov' mapping")
	}
	return &doc, nil
}

// ParseFile reads a document, choosing the format from the file extension.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	return Parse(data, FormatFromPath(path))
}

// FormatFromPath maps .json to JSON and anything else to YAML.
func FormatFromPath(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// LoadFile parses path and builds the model.
func LoadFile(path string, opts ...markov.Option) (*markov.Model, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return doc.Build(opts...)
}

// Build creates one State per state key, attaches the transitions and
// positions the model at the start state.
func (d *Document) Build(opts ...markov.Option) (*markov.Model, error) {
	states := make([]*markov.State, 0, d.Model.Markov.Len())
	byName := make(map[string]*markov.State, d.Model.Markov.Len())
	for pair := d.Model.Markov.Oldest(); pair != nil; pair = pair.Next() {
		name := strings.TrimPrefix(pair.Key, StatePrefix)
		if _, ok := byName[name]; ok {
			return nil, fmt.Errorf("%w: %q", markov.ErrDuplicateState, name)
		}
		s := markov.NewState(name)
		byName[name] = s
		states = append(states, s)
	}

	for pair := d.Model.Markov.Oldest(); pair != nil; pair = pair.Next() {
		from := byName[strings.TrimPrefix(pair.Key, StatePrefix)]
		if pair.Value == nil {
			continue
		}
		transitions := make([]*markov.Transition, 0, pair.Value.Len())
		for dest := pair.Value.Oldest(); dest != nil; dest = dest.Next() {
			to, ok := byName[dest.Key]
			if !ok {
				return nil, fmt.Errorf("%w: state %q has a transition to undeclared state %q",
					markov.ErrMissingState, from.Name, dest.Key)
			}
			transitions = append(transitions, markov.NewTransition(from, to, dest.Value))
		}
		if err := from.AddTransitions(transitions...); err != nil {
			return nil, fmt.Errorf("state %q: %w", from.Name, err)
		}
	}

	start, ok := byName[d.Model.Start]
	if !ok {
		return nil, fmt.Errorf("%w: start state %q is not declared", markov.ErrMissingState, d.Model.Start)
	}
	return markov.NewModel(states, start, opts...)
}

// FromModel converts a model back into a document. The start state is the
// first entry of the model's history.
func FromModel(m *markov.Model) *Document {
	chain := orderedmap.New[string, *Destinations]()
	for _, s := range m.States() {
		dests := orderedmap.New[string, float64]()
		for _, t := range s.Transitions() {
			dests.Set(t.End().Name, t.Probability())
		}
		chain.Set(StatePrefix+s.Name, dests)
	}
	return &Document{
		Model: Body{
			Markov: chain,
			Start:  m.History()[0],
		},
	}
}

// Encode serializes the document.
func (d *Document) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	case FormatYAML:
		return yaml.Marshal(d)
	default:
		return nil, fmt.Errorf("unsupported model format %q", format)
	}
}
