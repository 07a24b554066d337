package markov

import "errors"

// ErrInvalidProbability is returned when a transition probability is not > 0
// or when the outgoing probabilities of a state sum to more than 1.
var ErrInvalidProbability = errors.New("invalid probability")

// ErrDuplicateTransition is returned when a state has two transitions to the same destination.
var ErrDuplicateTransition = errors.New("duplicate transition")

// ErrSelfTransition is returned when a transition targets its own start state.
var ErrSelfTransition = errors.New("self transition")

// ErrTransitionMismatch is returned when a transition is added to a state other
// than its start. Advance panics with it when an explicit transition does not
// leave the current state.
var ErrTransitionMismatch = errors.New("transition does not start at current state")

// ErrMissingState is returned when a start or destination state is nil or not
// part of the model.
var ErrMissingState = errors.New("missing state")

// ErrDuplicateState is returned when two states of a model share a name.
var ErrDuplicateState = errors.New("duplicate state")
