package dsl

import (
	"fmt"

	"github.com/aretw0/chainviz/pkg/markov"
)

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	state   *markov.State
	builder *Builder
}

// To adds a transition to target with probability p. Validation failures are
// reported by Build.
func (s *StateBuilder) To(target string, p float64) *StateBuilder {
	dest := s.builder.get(target)
	if err := s.state.AddTransitionTo(dest, p); err != nil {
		s.builder.errs = append(s.builder.errs, fmt.Errorf("state %q: %w", s.state.Name, err))
	}
	return s
}

// Action attaches an opaque payload to the state.
func (s *StateBuilder) Action(action any) *StateBuilder {
	s.state.Action = action
	return s
}

// State switches to another state, continuing the chain.
func (s *StateBuilder) State(name string) *StateBuilder {
	return s.builder.State(name)
}

// Start sets the start state on the parent builder.
func (s *StateBuilder) Start(name string) *Builder {
	return s.builder.Start(name)
}

// Build creates the model from the parent builder.
func (s *StateBuilder) Build(opts ...markov.Option) (*markov.Model, error) {
	return s.builder.Build(opts...)
}
