package analysis_test

import (
	"testing"

	"github.com/aretw0/chainviz/pkg/analysis"
	"github.com/aretw0/chainviz/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	m, err := dsl.New().
		State("A").To("B", 0.5).To("C", 0.25).
		State("B").To("A", 1).
		State("C").
		State("Orphan").To("A", 0.1).
		Start("A").
		Build()
	require.NoError(t, err)

	report, err := analysis.Analyze(m)
	require.NoError(t, err)

	assert.Equal(t, "A", report.Start)
	assert.Equal(t, []string{"A", "B", "C"}, report.Reachable)
	assert.Equal(t, []string{"Orphan"}, report.Unreachable)
	assert.Equal(t, []string{"C"}, report.Absorbing)
	assert.InDelta(t, 0.25, report.Stay["A"], 1e-9)
	assert.InDelta(t, 0.9, report.Stay["Orphan"], 1e-9)
	assert.NotContains(t, report.Stay, "B")

	assert.Equal(t, []analysis.Class{
		{States: []string{"A", "B"}, Closed: false},
		{States: []string{"C"}, Closed: true},
		{States: []string{"Orphan"}, Closed: false},
	}, report.Classes)
}

func TestAnalyze_DoesNotAdvanceModel(t *testing.T) {
	m, err := dsl.New().State("A").To("B", 1).Build()
	require.NoError(t, err)

	_, err = analysis.Analyze(m)
	require.NoError(t, err)
	assert.Equal(t, 1, m.StepCount())
}

func TestGraph_Edges(t *testing.T) {
	m, err := dsl.New().State("A").To("B", 0.5).State("B").To("A", 0.25).Build()
	require.NoError(t, err)

	g, err := analysis.Graph(m)
	require.NoError(t, err)

	edge, err := g.Edge("A", "B")
	require.NoError(t, err)
	assert.Equal(t, 500000, edge.Properties.Weight)

	size, err := g.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)
}
