package markov

// OutcomeKind tells whether a step moved the chain.
type OutcomeKind int

const (
	// Stayed means no transition interval contained the draw.
	Stayed OutcomeKind = iota
	// Moved means a transition was taken.
	Moved
)

func (k OutcomeKind) String() string {
	switch k {
	case Moved:
		return "moved"
	default:
		return "stayed"
	}
}

// Outcome is the result of one step.
type Outcome struct {
	kind       OutcomeKind
	transition *Transition
}

// Stay is the outcome of a step that keeps the current state.
func Stay() Outcome {
	return Outcome{kind: Stayed}
}

// Move is the outcome of a step that takes t.
func Move(t *Transition) Outcome {
	if t == nil {
		return Stay()
	}
	return Outcome{kind: Moved, transition: t}
}

// Kind returns Stayed or Moved.
func (o Outcome) Kind() OutcomeKind { return o.kind }

// Transition returns the taken transition, nil when the chain stayed.
func (o Outcome) Transition() *Transition { return o.transition }
