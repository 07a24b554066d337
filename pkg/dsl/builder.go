package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/chainviz/pkg/markov"
)

// Builder manages the model construction.
type Builder struct {
	states []*markov.State
	byName map[string]*markov.State
	start  string
	errs   []error
}

// New creates a new model builder.
func New() *Builder {
	return &Builder{
		byName: make(map[string]*markov.State),
	}
}

// State declares a state. If the state already exists, it returns the existing builder.
func (b *Builder) State(name string) *StateBuilder {
	return &StateBuilder{state: b.get(name), builder: b}
}

// Start sets the start state. Defaults to the first declared state.
func (b *Builder) Start(name string) *Builder {
	b.start = name
	return b
}

// Build validates the collected definition and creates the model.
func (b *Builder) Build(opts ...markov.Option) (*markov.Model, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	if len(b.states) == 0 {
		return nil, fmt.Errorf("%w: model has no states", markov.ErrMissingState)
	}

	start := b.states[0]
	if b.start != "" {
		s, ok := b.byName[b.start]
		if !ok {
			return nil, fmt.Errorf("%w: start state %q is not declared", markov.ErrMissingState, b.start)
		}
		start = s
	}
	return markov.NewModel(b.states, start, opts...)
}

func (b *Builder) get(name string) *markov.State {
	if s, ok := b.byName[name]; ok {
		return s
	}
	s := markov.NewState(name)
	b.byName[name] = s
	b.states = append(b.states, s)
	return s
}
