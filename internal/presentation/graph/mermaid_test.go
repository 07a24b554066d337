package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/chainviz/internal/presentation/graph"
	"github.com/aretw0/chainviz/pkg/dsl"
	"github.com/aretw0/chainviz/pkg/markov"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		builder  *dsl.Builder
		contains []string
		excludes []string
	}{
		{
			name:     "Start Node Shape",
			builder:  dsl.New().State("start").To("end", 1).State("end").To("start", 1).Start("start"),
			contains: []string{`start(("start"))`, `end["end"]`},
		},
		{
			name:     "Absorbing Node Shape",
			builder:  dsl.New().State("A").To("sink", 0.5).State("sink").Start("A"),
			contains: []string{`sink(["sink"])`},
		},
		{
			name:     "ID Sanitization",
			builder:  dsl.New().State("path/to.x").To("hyphen-ated", 1).State("hyphen-ated").To("path/to.x", 1).Start("path/to.x"),
			contains: []string{`path_to_x(("path/to.x"))`, `hyphen_ated["hyphen-ated"]`},
		},
		{
			name:     "Probability Labels",
			builder:  dsl.New().State("A").To("B", 0.5).To("C", 0.02).State("B").To("A", 1).State("C").To("A", 1).Start("A"),
			contains: []string{`A -- "0.5" --> B`, `A -- "0.02" --> C`, `A -. "0.48" .-> A`},
			excludes: []string{`B -. `},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.builder.Build()
			require.NoError(t, err)

			got := graph.GenerateMermaid(m, nil)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
			assert.NotContains(t, got, "classDef")
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	m, err := dsl.New().
		State("A").To("B", 1).
		State("B").To("A", 1).
		State("C").
		Start("A").
		Build(markov.WithRandom(&markov.Sequence{Draws: []float64{0.5}}))
	require.NoError(t, err)
	m.StepN(2)

	got := graph.GenerateMermaid(m, graph.OverlayFromModel(m))

	assert.Equal(t, 1, strings.Count(got, "class A visited;"), "visited states are deduplicated")
	assert.Contains(t, got, "class B visited;")
	assert.Contains(t, got, "class A current;")
	assert.NotContains(t, got, "class C")
}
