package markov

// Clone returns a deep copy of the model. States and transitions are copied
// with their display attributes and the copy's transitions point at the
// copy's states, so rendering the clone leaves m untouched. The random source
// and hooks are shared unless opts replace them.
func (m *Model) Clone(opts ...Option) *Model {
	copies := make(map[*State]*State, len(m.states))
	states := make([]*State, len(m.states))
	for i, s := range m.states {
		c := &State{
			Name:   s.Name,
			Action: s.Action,
			attrs:  s.Attributes().Copy(),
		}
		copies[s] = c
		states[i] = c
	}

	for _, s := range m.states {
		c := copies[s]
		c.transitions = make([]*Transition, len(s.transitions))
		for i, t := range s.transitions {
			c.transitions[i] = &Transition{
				start:       resolve(copies, t.start),
				end:         resolve(copies, t.end),
				probability: t.probability,
				attrs:       t.attrs.Copy(),
			}
		}
	}

	history := make([]string, len(m.history))
	copy(history, m.history)

	c := &Model{
		states:  states,
		current: resolve(copies, m.current),
		t:       m.t,
		history: history,
		attrs:   m.attrs.Copy(),
		random:  m.random,
		hooks:   m.hooks,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// resolve maps a state to its copy. Destinations outside the model are kept as is.
func resolve(copies map[*State]*State, s *State) *State {
	if c, ok := copies[s]; ok {
		return c
	}
	return s
}
