/*
Package markov contains the Markov chain engine: states, probability-weighted
transitions and the model that walks them one random step at a time.

A State owns its outgoing transitions and validates the whole list on every
write, so a State never holds an invalid transition list. Probabilities of a
state may sum to less than 1; the remainder is the probability of staying put.

	a := markov.NewState("Active")
	b := markov.NewState("Disabled")
	if err := a.AddTransitionTo(b, 0.5); err != nil {
		return err
	}
	m, err := markov.NewModel([]*markov.State{a, b}, a)
	if err != nil {
		return err
	}
	dot := m.Serialize() // frame for the current step
	m.Step()

# Display attributes

Every state, transition and the model itself carry display attributes that are
only meaningful to the renderer. Advancing the model marks the new current state
and the traversed transition; Serialize renders the marks and resets them, so a
mark set for one frame never leaks into the next one.

The package is not safe for concurrent use. Serialize mutates attributes, so a
long rendering loop should work on a Clone.
*/
package markov
