// Package analysis inspects the structure of a Markov model: which states can
// be reached from the start, which never leave, and how the states group into
// communicating classes.
package analysis

import (
	"fmt"
	"slices"

	"github.com/aretw0/chainviz/pkg/markov"
	"github.com/dominikbraun/graph"
)

// Class is a set of states that can all reach each other. A closed class has
// no transition leaving it.
type Class struct {
	States []string `json:"states"`
	Closed bool     `json:"closed"`
}

// Report summarizes the structure of a model.
type Report struct {
	Start       string             `json:"start"`
	Reachable   []string           `json:"reachable"`
	Unreachable []string           `json:"unreachable,omitempty"`
	Absorbing   []string           `json:"absorbing,omitempty"`
	Stay        map[string]float64 `json:"stay,omitempty"`
	Classes     []Class            `json:"classes"`
}

// Analyze builds a directed graph of m and reports on it. The start state is
// the first entry of the model's history.
func Analyze(m *markov.Model) (*Report, error) {
	g, err := Graph(m)
	if err != nil {
		return nil, err
	}

	start := m.History()[0]
	report := &Report{
		Start: start,
		Stay:  make(map[string]float64),
	}

	seen := make(map[string]bool)
	err = graph.BFS(g, start, func(name string) bool {
		seen[name] = true
		return false
	})
	if err != nil {
		return nil, fmt.Errorf("failed to traverse model: %w", err)
	}

	for _, s := range m.States() {
		if seen[s.Name] {
			report.Reachable = append(report.Reachable, s.Name)
		} else {
			report.Unreachable = append(report.Unreachable, s.Name)
		}
		if s.NumTransitions() == 0 {
			report.Absorbing = append(report.Absorbing, s.Name)
		} else if stay := s.StayProbability(); stay > 1e-9 {
			report.Stay[s.Name] = stay
		}
	}

	report.Classes, err = classes(g, m)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Graph converts the model into a directed graph keyed by state name. Edge
// weights are probabilities in parts per million.
func Graph(m *markov.Model) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed())
	for _, s := range m.States() {
		if err := g.AddVertex(s.Name); err != nil {
			return nil, fmt.Errorf("failed to add state %q: %w", s.Name, err)
		}
	}
	for _, t := range m.Transitions() {
		weight := int(t.Probability() * 1e6)
		if err := g.AddEdge(t.Start().Name, t.End().Name, graph.EdgeWeight(weight)); err != nil {
			return nil, fmt.Errorf("failed to add transition %s: %w", t, err)
		}
	}
	return g, nil
}

func classes(g graph.Graph[string, string], m *markov.Model) ([]Class, error) {
	components, err := graph.StronglyConnectedComponents(g)
	if err != nil {
		return nil, fmt.Errorf("failed to compute classes: %w", err)
	}
	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return nil, err
	}

	order := make(map[string]int, len(m.States()))
	for i, s := range m.States() {
		order[s.Name] = i
	}
	byOrder := func(a, b string) int { return order[a] - order[b] }

	out := make([]Class, 0, len(components))
	for _, component := range components {
		members := make(map[string]bool, len(component))
		for _, name := range component {
			members[name] = true
		}
		closed := true
		for _, name := range component {
			for target := range adjacency[name] {
				if !members[target] {
					closed = false
				}
			}
		}
		names := slices.Clone(component)
		slices.SortFunc(names, byOrder)
		out = append(out, Class{States: names, Closed: closed})
	}
	slices.SortFunc(out, func(a, b Class) int { return byOrder(a.States[0], b.States[0]) })
	return out, nil
}
