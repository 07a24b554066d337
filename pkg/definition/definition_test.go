package definition_test

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/chainviz/pkg/definition"
	"github.com/aretw0/chainviz/pkg/markov"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_JSON(t *testing.T) {
	m, err := definition.LoadFile(filepath.Join("testdata", "ecosystem.json"))
	require.NoError(t, err)

	var names []string
	for _, s := range m.States() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Active", "Disabled", "Dead", "Dirt", "Plant", "Cheetah", "Man"}, names)
	assert.Equal(t, "Active", m.Current().Name)

	dead, ok := m.State("Dead")
	require.True(t, ok)
	require.Len(t, dead.Transitions(), 4)
	assert.Equal(t, "Dirt", dead.Transitions()[0].End().Name)
	assert.Equal(t, 0.8, dead.Transitions()[0].Probability())
}

func TestLoadFile_YAML(t *testing.T) {
	m, err := definition.LoadFile(filepath.Join("testdata", "weather.yaml"))
	require.NoError(t, err)

	rainy, ok := m.State("Rainy")
	require.True(t, ok)
	require.Len(t, rainy.Transitions(), 1)
	assert.Equal(t, 1.0, rainy.Transitions()[0].Probability())
	assert.Equal(t, "Sunny", m.Current().Name)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "Undeclared Destination",
			doc:     `{"model":{"markov":{"state_A":{"B":0.5}},"start":"A"}}`,
			wantErr: markov.ErrMissingState,
		},
		{
			name:    "Undeclared Start",
			doc:     `{"model":{"markov":{"state_A":{}},"start":"Z"}}`,
			wantErr: markov.ErrMissingState,
		},
		{
			name:    "Invalid Sum",
			doc:     `{"model":{"markov":{"state_A":{"B":0.6,"C":0.5},"state_B":{},"state_C":{}},"start":"A"}}`,
			wantErr: markov.ErrInvalidProbability,
		},
		{
			name:    "Self Transition",
			doc:     `{"model":{"markov":{"state_A":{"A":0.5}},"start":"A"}}`,
			wantErr: markov.ErrSelfTransition,
		},
		{
			name:    "Duplicate After Prefix Strip",
			doc:     `{"model":{"markov":{"state_A":{},"A":{}},"start":"A"}}`,
			wantErr: markov.ErrDuplicateState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := definition.Parse([]byte(tt.doc), definition.FormatJSON)
			require.NoError(t, err)

			_, err = doc.Build()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := definition.Parse([]byte(`{"model":{}}`), definition.FormatJSON)
	assert.Error(t, err)

	_, err = definition.Parse([]byte(`{`), definition.FormatJSON)
	assert.Error(t, err)

	_, err = definition.Parse([]byte(`model: [1, 2`), definition.FormatYAML)
	assert.Error(t, err)

	_, err = definition.Parse([]byte(`{}`), definition.Format("toml"))
	assert.Error(t, err)
}

func TestFromModel_Reload(t *testing.T) {
	original, err := definition.LoadFile(filepath.Join("testdata", "ecosystem.json"))
	require.NoError(t, err)

	for _, format := range []definition.Format{definition.FormatJSON, definition.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := definition.FromModel(original).Encode(format)
			require.NoError(t, err)

			doc, err := definition.Parse(data, format)
			require.NoError(t, err)
			reloaded, err := doc.Build()
			require.NoError(t, err)

			assert.Equal(t, original.Clone().Serialize(), reloaded.Serialize())
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, definition.FormatJSON, definition.FormatFromPath("model.JSON"))
	assert.Equal(t, definition.FormatYAML, definition.FormatFromPath("model.yml"))
	assert.Equal(t, definition.FormatYAML, definition.FormatFromPath("model"))
}
