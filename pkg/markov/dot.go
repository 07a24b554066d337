package markov

import (
	"fmt"
	"strings"
)

// Serialize renders the model in Graphviz DOT form and resets the per-frame
// display attributes in the same pass: state attributes are cleared and
// transitions keep only their label. Model level attributes are kept.
// Calling Serialize twice without a step in between yields the same nodes and
// edges, minus the transient marks.
//
// See https://graphviz.org/doc/info/lang.html.
func (m *Model) Serialize() string {
	return fmt.Sprintf("digraph G {%s %s%s}", m.attrs.statements(), m.serializeStates(), m.serializeTransitions())
}

// Encode returns Serialize as bytes, ready to pipe to a renderer.
func (m *Model) Encode() []byte {
	return []byte(m.Serialize())
}

func (m *Model) serializeStates() string {
	decls := make([]string, 0, len(m.states))
	for _, s := range m.states {
		attrs := s.Attributes()
		decls = append(decls, fmt.Sprintf("\n%s%s", quote(s.Name), attrs.bracketed()))
		attrs.Clear()
	}
	return strings.Join(decls, " ;") + " ;"
}

func (m *Model) serializeTransitions() string {
	transitions := m.Transitions()
	decls := make([]string, 0, len(transitions))
	for _, t := range transitions {
		decls = append(decls, fmt.Sprintf("\n%s -> %s %s", quote(t.Start().Name), quote(t.End().Name), t.attrs.bracketed()))
		t.attrs.Retain(AttrLabel)
	}
	return strings.Join(decls, " ;") + " ;\n"
}
