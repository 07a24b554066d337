package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/chainviz"
	"github.com/aretw0/chainviz/internal/config"
	"github.com/aretw0/chainviz/pkg/markov"
	"github.com/aretw0/chainviz/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weather = `model:
  markov:
    state_Sunny:
      Cloudy: 0.3
      Rainy: 0.1
    state_Cloudy:
      Sunny: 0.4
      Rainy: 0.4
    state_Rainy:
      Cloudy: 1
    state_Fog: {}
  start: Sunny
`

func writeModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.LogLevel = "off"
	cfg.Tools = filepath.Join(t.TempDir(), "absent.yaml")
	cfg.WorkDir = t.TempDir()
	seed := uint64(5)
	app, err := newApp(cfg, &seed)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

type copyRenderer struct{}

func (copyRenderer) RenderFrame(ctx context.Context, dot []byte, path string) error {
	return os.WriteFile(path, dot, 0o644)
}

type touchAnimator struct{}

func (touchAnimator) Animate(ctx context.Context, anim ports.Animation) error {
	return os.WriteFile(anim.Output, []byte("GIF89a"), 0o644)
}

func TestRunSimulate(t *testing.T) {
	app := testApp(t)
	path := writeModel(t, weather)

	var out bytes.Buffer
	require.NoError(t, RunSimulate(context.Background(), app, path, 10, true, &out))

	var run markov.Run
	require.NoError(t, json.Unmarshal(out.Bytes(), &run))
	assert.Equal(t, 11, run.StepCount)
	assert.Equal(t, "Sunny", run.Start)

	stored, err := app.Store.Load(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.History, stored.History)

	out.Reset()
	require.NoError(t, RunSimulate(context.Background(), app, path, 3, false, &out))
	assert.Contains(t, out.String(), "steps: 4")
	assert.Contains(t, out.String(), "path:  Sunny -> ")
}

func TestRunGraph(t *testing.T) {
	app := testApp(t)
	path := writeModel(t, weather)

	tests := []struct {
		format string
		steps  int
		want   []string
	}{
		{"dot", 0, []string{"digraph G {label=START;", `"Sunny"[style=filled] [color=blue]`}},
		{"mermaid", 0, []string{"graph TD", `Sunny(("Sunny"))`, `Fog(["Fog"])`}},
		{"mermaid", 3, []string{"class Sunny visited;"}},
		{"json", 0, []string{`"state_Sunny"`, `"start": "Sunny"`}},
		{"yaml", 0, []string{"state_Sunny:", "start: Sunny"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, RunGraph(app, path, tt.format, tt.steps, &out))
			for _, want := range tt.want {
				assert.Contains(t, out.String(), want)
			}
		})
	}

	assert.Error(t, RunGraph(app, path, "svg", 0, io.Discard))

	var out bytes.Buffer
	err := RunGraph(app, path, "dot", -1, &out)
	assert.EqualError(t, err, "steps must be >= 0, got -1")
	assert.Empty(t, out.String())
}

func TestRunValidate(t *testing.T) {
	app := testApp(t)
	path := writeModel(t, weather)

	var out bytes.Buffer
	require.NoError(t, RunValidate(app, path, false, false, &out))
	assert.Contains(t, out.String(), "unreachable: Fog")
	assert.Contains(t, out.String(), "absorbing:   Fog")
	assert.Contains(t, out.String(), "stay:        Sunny 0.")

	err := RunValidate(app, path, true, true, io.Discard)
	assert.ErrorIs(t, err, ErrValidation)

	bad := writeModel(t, "model:\n  markov:\n    state_A:\n      B: 0.5\n  start: A\n")
	err = RunValidate(app, bad, false, false, io.Discard)
	assert.ErrorIs(t, err, markov.ErrMissingState)
}

func TestRunGif(t *testing.T) {
	app := testApp(t)
	app.Engine = chainviz.New(
		chainviz.WithRenderer(copyRenderer{}),
		chainviz.WithAnimator(touchAnimator{}),
		chainviz.WithStore(app.Store),
	)
	path := writeModel(t, weather)
	output := filepath.Join(t.TempDir(), "weather.gif")

	var out bytes.Buffer
	err := RunGif(context.Background(), app, GifOptions{Model: path, Output: output, Iterations: 5}, &out)
	require.NoError(t, err)
	assert.FileExists(t, output)
	assert.True(t, strings.HasPrefix(out.String(), ">>> Wrote "+output+" (5 frames"), out.String())

	ids, err := app.Store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestRunGif_Cancelled(t *testing.T) {
	app := testApp(t)
	app.Engine = chainviz.New(chainviz.WithRenderer(copyRenderer{}), chainviz.WithAnimator(touchAnimator{}))
	path := writeModel(t, weather)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RunGif(ctx, app, GifOptions{Model: path, Output: filepath.Join(t.TempDir(), "x.gif")}, io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, HandleExecutionError(err))
}

func TestServe_Shutdown(t *testing.T) {
	app := testApp(t)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.NoError(t, Serve(ctx, app, "127.0.0.1:0", io.Discard))
}

func TestServeMCP(t *testing.T) {
	app := testApp(t)

	err := ServeMCP(context.Background(), app, "websocket", 0, io.Discard)
	assert.ErrorIs(t, err, ErrUnknownTransport)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	var out bytes.Buffer
	require.NoError(t, ServeMCP(ctx, app, "sse", 0, &out))
	assert.Contains(t, out.String(), ">>> MCP server stopped gracefully")
}
