package markov

import "fmt"

// Edge is a destination/probability pair used to build transitions.
type Edge struct {
	To *State
	P  float64
}

// State is a named node of the chain.
type State struct {
	Name string

	// Action is an opaque payload carried for the caller. The engine never uses it.
	Action any

	transitions []*Transition
	attrs       *Attributes
}

// NewState creates a state without transitions.
func NewState(name string) *State {
	return &State{
		Name:  name,
		attrs: NewAttributes(),
	}
}

// Transitions returns the outgoing transitions in order.
// The returned slice must not be modified.
func (s *State) Transitions() []*Transition {
	return s.transitions
}

// NumTransitions returns the number of outgoing transitions.
func (s *State) NumTransitions() int {
	return len(s.transitions)
}

// Attributes returns the display attributes of the state.
func (s *State) Attributes() *Attributes {
	if s.attrs == nil {
		s.attrs = NewAttributes()
	}
	return s.attrs
}

// StayProbability is the probability left over after all outgoing transitions.
func (s *State) StayProbability() float64 {
	stay := 1 - sumProbabilities(s.transitions)
	if stay < 0 {
		return 0
	}
	return stay
}

// SetTransitions validates transitions and replaces the outgoing list.
// On error the previous list is kept.
func (s *State) SetTransitions(transitions []*Transition) error {
	if err := validateTransitions(s, transitions); err != nil {
		return err
	}
	s.transitions = transitions
	return nil
}

// AddTransition appends t, re-validating the whole resulting list.
func (s *State) AddTransition(t *Transition) error {
	next := make([]*Transition, 0, len(s.transitions)+1)
	next = append(next, s.transitions...)
	next = append(next, t)
	return s.SetTransitions(next)
}

// AddTransitions adds each transition in order. It is not atomic: when the
// k-th transition is rejected, the first k-1 stay applied.
func (s *State) AddTransitions(transitions ...*Transition) error {
	for _, t := range transitions {
		if err := s.AddTransition(t); err != nil {
			return err
		}
	}
	return nil
}

// AddTransitionTo builds a transition from s to dest and adds it.
func (s *State) AddTransitionTo(dest *State, probability float64) error {
	return s.AddTransition(NewTransition(s, dest, probability))
}

// AddTransitionsTo adds one transition per edge, with the same partial
// failure behavior as AddTransitions.
func (s *State) AddTransitionsTo(edges ...Edge) error {
	for _, e := range edges {
		if err := s.AddTransitionTo(e.To, e.P); err != nil {
			return err
		}
	}
	return nil
}

func (s *State) String() string {
	return fmt.Sprintf("State %s", s.Name)
}
