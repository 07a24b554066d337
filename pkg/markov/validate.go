package markov

import (
	"fmt"
	"math"
	"strings"
)

// DuplicateSearchLimit is the largest transition list for which a duplicate
// destination error names the offending states.
const DuplicateSearchLimit = 1000

// sumTolerance absorbs float rounding, e.g. 0.1+0.2+0.7.
const sumTolerance = 1e-9

func validateTransitions(owner *State, transitions []*Transition) error {
	checks := []func(*State, []*Transition) error{
		validateOwnership,
		validateSum,
		validatePositive,
		validateUniqueDestinations,
		validateNoSelfTransition,
	}
	for _, check := range checks {
		if err := check(owner, transitions); err != nil {
			return err
		}
	}
	return nil
}

// validateOwnership rejects nil entries and transitions that leave another
// state. Either would make a later step fail instead of this call.
func validateOwnership(owner *State, transitions []*Transition) error {
	for i, t := range transitions {
		if t == nil {
			return fmt.Errorf("%w: transition %d of state %q is nil", ErrMissingState, i, stateName(owner))
		}
		if t.End() == nil {
			return fmt.Errorf("%w: %s has no destination", ErrMissingState, t)
		}
		if t.Start() != owner {
			return fmt.Errorf("%w: %s cannot be added to state %q", ErrTransitionMismatch, t, stateName(owner))
		}
	}
	return nil
}

func validateSum(owner *State, transitions []*Transition) error {
	sum := sumProbabilities(transitions)
	if sum > 1+sumTolerance {
		return fmt.Errorf("%w: transition probabilities of state %q sum to %s, must be <= 1",
			ErrInvalidProbability, stateName(owner), FormatProbability(sum))
	}
	return nil
}

func validatePositive(_ *State, transitions []*Transition) error {
	for _, t := range transitions {
		p := t.Probability()
		if !(p > 0) {
			return fmt.Errorf("%w: transition probability to state %q is %s, all transition probabilities must be > 0",
				ErrInvalidProbability, stateName(t.End()), FormatProbability(p))
		}
	}
	return nil
}

func validateUniqueDestinations(_ *State, transitions []*Transition) error {
	counts := make(map[string]int, len(transitions))
	for _, t := range transitions {
		counts[stateName(t.End())]++
	}
	if len(counts) == len(transitions) {
		return nil
	}
	if len(transitions) > DuplicateSearchLimit {
		return fmt.Errorf("%w: at least one destination is repeated (not searched, list has more than %d transitions)",
			ErrDuplicateTransition, DuplicateSearchLimit)
	}

	var repeated []string
	seen := make(map[string]bool)
	for _, t := range transitions {
		name := stateName(t.End())
		if counts[name] > 1 && !seen[name] {
			seen[name] = true
			repeated = append(repeated, name)
		}
	}
	return fmt.Errorf("%w: the following destinations are represented multiple times: %s",
		ErrDuplicateTransition, strings.Join(repeated, ", "))
}

func validateNoSelfTransition(owner *State, transitions []*Transition) error {
	for _, t := range transitions {
		if t.End() == owner || (t.End() != nil && owner != nil && t.End().Name == owner.Name) {
			return fmt.Errorf("%w: state %q cannot have an explicit transition to itself",
				ErrSelfTransition, stateName(owner))
		}
	}
	return nil
}

func sumProbabilities(transitions []*Transition) float64 {
	var sum float64
	for _, t := range transitions {
		sum += t.Probability()
	}
	if math.IsNaN(sum) {
		return 0
	}
	return sum
}
