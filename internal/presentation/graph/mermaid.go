package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/chainviz/pkg/markov"
)

// stayEpsilon hides stay loops that only exist because of float rounding.
const stayEpsilon = 1e-9

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFromModel marks the states m has visited and its current state.
func OverlayFromModel(m *markov.Model) *GraphOverlay {
	return &GraphOverlay{
		VisitedNodes: m.History(),
		CurrentNode:  m.Current().Name,
	}
}

// GenerateMermaid produces a Mermaid flowchart of the model.
// It applies semantic styling:
// - Start: ((Circle))
// - Absorbing (no transitions): ([Stadium])
// - Default: [Rectangle]
// Edges carry their probability; the implicit stay remainder is drawn as a
// dotted self loop. Overlay styles (Visited/Current) are applied if provided.
func GenerateMermaid(m *markov.Model, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	start := m.History()[0]
	for _, s := range m.States() {
		safeID := sanitizeMermaidID(s.Name)

		opener, closer := "[", "]"
		switch {
		case s.Name == start:
			opener, closer = "((", "))"
		case s.NumTransitions() == 0:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(s.Name), closer)

		for _, t := range s.Transitions() {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n",
				safeID, markov.FormatProbability(t.Probability()), sanitizeMermaidID(t.End().Name))
		}
		if stay := s.StayProbability(); stay > stayEpsilon && s.NumTransitions() > 0 {
			fmt.Fprintf(&sb, "    %s -. \"%.3g\" .-> %s\n", safeID, stay, safeID)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on light fills in both themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(
		".", "_",
		"-", "_",
		"/", "_",
		"\\", "_",
		" ", "_",
	).Replace(id)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
