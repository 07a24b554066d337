package markov

import (
	"fmt"
	"strconv"
	"strings"
)

// Transition is a directed, probability-weighted edge between two states.
// Start, end and probability are fixed at construction; only the display
// attributes change afterwards.
type Transition struct {
	start       *State
	end         *State
	probability float64
	attrs       *Attributes
}

// NewTransition creates a transition without validating it. Validation happens
// when the transition is added to its start state.
func NewTransition(start, end *State, probability float64) *Transition {
	t := &Transition{
		start:       start,
		end:         end,
		probability: probability,
		attrs:       NewAttributes(),
	}
	t.attrs.Set(AttrLabel, quote(FormatProbability(probability)))
	return t
}

// Start returns the state the transition leaves.
func (t *Transition) Start() *State { return t.start }

// End returns the state the transition enters.
func (t *Transition) End() *State { return t.end }

// Probability returns the transition probability.
func (t *Transition) Probability() float64 { return t.probability }

// Attributes returns the display attributes of the transition.
func (t *Transition) Attributes() *Attributes { return t.attrs }

func (t *Transition) String() string {
	return fmt.Sprintf("Transition(%s, %s, %s)", stateName(t.start), stateName(t.end), FormatProbability(t.probability))
}

// FormatProbability formats p with the shortest representation that round-trips.
func FormatProbability(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quote renders s as a DOT quoted string. Only the quote and the backslash
// need escaping there.
func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

func stateName(s *State) string {
	if s == nil {
		return "<nil>"
	}
	return s.Name
}
