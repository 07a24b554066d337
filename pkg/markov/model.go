package markov

import (
	"fmt"
	"strconv"
)

// Display attribute keys and values used by the model.
const (
	AttrLabel    = "label"
	AttrLabelLoc = "labelloc"
	AttrFontSize = "fontsize"
	AttrStyle    = "style"
	AttrColor    = "color"

	StyleFilled = "filled"
	StyleBold   = "bold"

	ColorInitial = "blue"
	ColorVisited = "red"
)

// Model is a Markov chain with a current state and the history of visits.
type Model struct {
	states  []*State
	current *State
	t       int
	history []string
	attrs   *Attributes

	random RandomSource
	hooks  Hooks
}

// NewModel creates a model positioned at start. The initial placement counts as
// the first step: StepCount is 1 and History holds start's name.
func NewModel(states []*State, start *State, opts ...Option) (*Model, error) {
	if start == nil {
		return nil, fmt.Errorf("%w: start state is nil", ErrMissingState)
	}

	seen := make(map[string]bool, len(states))
	found := false
	for i, s := range states {
		if s == nil {
			return nil, fmt.Errorf("%w: state %d is nil", ErrMissingState, i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateState, s.Name)
		}
		seen[s.Name] = true
		if s == start {
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: start state %q is not part of the model", ErrMissingState, start.Name)
	}

	m := &Model{
		states:  states,
		history: []string{},
		random:  globalSource{},
	}
	for _, opt := range opts {
		opt(m)
	}

	m.setCurrent(start)
	markInitial(start)

	m.attrs = NewAttributes()
	m.attrs.Set(AttrLabel, "START")
	m.attrs.Set(AttrLabelLoc, "t")
	m.attrs.Set(AttrFontSize, "30")

	return m, nil
}

// States returns the states of the model in order.
func (m *Model) States() []*State { return m.states }

// Current returns the active state.
func (m *Model) Current() *State { return m.current }

// StepCount returns the number of assignments to the current state, the
// initial one included.
func (m *Model) StepCount() int { return m.t }

// History returns the names of visited states, one per assignment.
func (m *Model) History() []string {
	out := make([]string, len(m.history))
	copy(out, m.history)
	return out
}

// Attributes returns the model level display attributes.
func (m *Model) Attributes() *Attributes { return m.attrs }

// State looks up a state by name.
func (m *Model) State(name string) (*State, bool) {
	for _, s := range m.states {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Transitions returns every transition of every state, in state order.
func (m *Model) Transitions() []*Transition {
	var out []*Transition
	for _, s := range m.states {
		out = append(out, s.Transitions()...)
	}
	return out
}

// Select picks the outcome for draw r without changing the model. Each
// transition owns the interval [sum before, sum before + p); a draw outside
// every interval means the chain stays.
func (m *Model) Select(r float64) Outcome {
	var cumulative float64
	for _, t := range m.current.Transitions() {
		cumulative += t.Probability()
		if cumulative > r {
			return Move(t)
		}
	}
	return Stay()
}

// Step draws a random number, selects the outcome and advances.
func (m *Model) Step() Outcome {
	o := m.Select(m.random.Float64())
	m.Advance(o)
	return o
}

// StepN runs n steps and returns their outcomes. n <= 0 does nothing.
func (m *Model) StepN(n int) []Outcome {
	if n <= 0 {
		return nil
	}
	out := make([]Outcome, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, m.Step())
	}
	return out
}

// Advance applies an outcome: one assignment to the current state followed by
// the display marks for the next frame. It panics with ErrTransitionMismatch
// when a moved outcome does not leave the current state.
func (m *Model) Advance(o Outcome) {
	from := m.current
	next := from
	if o.Kind() == Moved {
		if o.Transition().Start() != from {
			panic(fmt.Errorf("%w: %s, current state is %q", ErrTransitionMismatch, o.Transition(), from.Name))
		}
		next = o.Transition().End()
	}
	m.setCurrent(next)

	m.attrs.Set(AttrLabel, strconv.Itoa(len(m.history)-1))
	next.Attributes().Set(AttrStyle, StyleFilled)
	next.Attributes().Set(AttrColor, ColorVisited)
	if o.Kind() == Moved {
		o.Transition().attrs.Set(AttrStyle, StyleBold)
	}

	if m.hooks.OnStep != nil {
		m.hooks.OnStep(&StepEvent{
			Step: m.t,
			From: from.Name,
			To:   next.Name,
			Kind: o.Kind(),
		})
	}
}

func (m *Model) setCurrent(s *State) {
	m.history = append(m.history, s.Name)
	m.t++
	m.current = s
}

func markInitial(s *State) {
	s.Attributes().Set(AttrStyle, StyleFilled)
	s.Attributes().Set(AttrColor, ColorInitial)
}
