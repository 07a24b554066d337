package animation_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/chainviz/pkg/adapters/memory"
	"github.com/aretw0/chainviz/pkg/animation"
	"github.com/aretw0/chainviz/pkg/dsl"
	"github.com/aretw0/chainviz/pkg/markov"
	"github.com/aretw0/chainviz/pkg/metrics"
	"github.com/aretw0/chainviz/pkg/ports"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fileRenderer writes the DOT text itself as the frame.
type fileRenderer struct {
	dots   []string
	failAt int
}

func (r *fileRenderer) RenderFrame(ctx context.Context, dot []byte, path string) error {
	r.dots = append(r.dots, string(dot))
	if r.failAt > 0 && len(r.dots) == r.failAt {
		return errors.New("renderer crashed")
	}
	return os.WriteFile(path, dot, 0o644)
}

type mockAnimator struct {
	mock.Mock
}

func (m *mockAnimator) Animate(ctx context.Context, anim ports.Animation) error {
	args := m.Called(ctx, anim)
	return args.Error(0)
}

func newModel(t *testing.T) *markov.Model {
	t.Helper()
	m, err := dsl.New().
		State("A").To("B", 0.5).
		State("B").To("A", 0.5).
		Build(markov.WithRandom(&markov.Sequence{Draws: []float64{0.1, 0.9}}))
	require.NoError(t, err)
	return m
}

func TestGenerate(t *testing.T) {
	workDir := t.TempDir()
	renderer := &fileRenderer{}
	animator := &mockAnimator{}
	animator.On("Animate", mock.Anything, mock.MatchedBy(func(a ports.Animation) bool {
		return a.Delay == 25 && a.Output == "out.gif" && strings.HasSuffix(a.Frames, "*.png")
	})).Return(nil).Once()

	store := memory.NewStore()
	gen := animation.NewGenerator(renderer, animator, animation.WithStore(store))

	m := newModel(t)
	res, err := gen.Generate(context.Background(), m, animation.Settings{
		Iterations:      12,
		StatesPerSecond: 4,
		Output:          "out.gif",
		WorkDir:         workDir,
		RunID:           "run-1",
	})
	require.NoError(t, err)
	animator.AssertExpectations(t)

	require.Len(t, res.Frames, 12)
	assert.Equal(t, "01.png", filepath.Base(res.Frames[0]))
	assert.Equal(t, "12.png", filepath.Base(res.Frames[11]))
	assert.Len(t, res.History, 13)
	assert.Equal(t, 13, res.StepCount)

	// Frame directory is removed afterwards.
	_, err = os.Stat(res.FrameDir)
	assert.True(t, os.IsNotExist(err))

	// The caller's model is untouched.
	assert.Equal(t, []string{"A"}, m.History())
	assert.Contains(t, m.Serialize(), `"A"[style=filled] [color=blue]`)

	// First frame shows the initial state, the second one the first move.
	assert.Contains(t, renderer.dots[0], "color=blue")
	assert.Contains(t, renderer.dots[1], `"B"[style=filled] [color=red]`)
	assert.Contains(t, renderer.dots[1], "label=1;")

	run, err := store.Load(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, res.History, run.History)
}

func TestGenerate_KeepFrames(t *testing.T) {
	animator := &mockAnimator{}
	animator.On("Animate", mock.Anything, mock.Anything).Return(nil)

	gen := animation.NewGenerator(&fileRenderer{}, animator)
	res, err := gen.Generate(context.Background(), newModel(t), animation.Settings{
		Iterations:      3,
		StatesPerSecond: 1,
		WorkDir:         t.TempDir(),
		KeepFrames:      true,
		Format:          "svg",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)

	entries, err := os.ReadDir(res.FrameDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, "1.svg", entries[0].Name())
}

func TestGenerate_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("Invalid Settings", func(t *testing.T) {
		gen := animation.NewGenerator(&fileRenderer{}, &mockAnimator{})
		_, err := gen.Generate(ctx, newModel(t), animation.Settings{Iterations: 0, StatesPerSecond: 1})
		assert.Error(t, err)
		_, err = gen.Generate(ctx, newModel(t), animation.Settings{Iterations: 1, StatesPerSecond: 0})
		assert.Error(t, err)
	})

	t.Run("Renderer Failure Stops Loop", func(t *testing.T) {
		renderer := &fileRenderer{failAt: 2}
		animator := &mockAnimator{}
		gen := animation.NewGenerator(renderer, animator)

		_, err := gen.Generate(ctx, newModel(t), animation.Settings{Iterations: 5, StatesPerSecond: 1, WorkDir: t.TempDir()})
		assert.ErrorContains(t, err, "renderer crashed")
		assert.Len(t, renderer.dots, 2)
		animator.AssertNotCalled(t, "Animate", mock.Anything, mock.Anything)
	})

	t.Run("Canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		gen := animation.NewGenerator(&fileRenderer{}, &mockAnimator{})

		_, err := gen.Generate(canceled, newModel(t), animation.Settings{Iterations: 5, StatesPerSecond: 1, WorkDir: t.TempDir()})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Animator Failure Is Counted", func(t *testing.T) {
		animator := &mockAnimator{}
		animator.On("Animate", mock.Anything, mock.Anything).Return(errors.New("magick missing"))
		rec := metrics.NewRecorder()
		gen := animation.NewGenerator(&fileRenderer{}, animator, animation.WithMetrics(rec))

		_, err := gen.Generate(ctx, newModel(t), animation.Settings{Iterations: 2, StatesPerSecond: 1, WorkDir: t.TempDir()})
		assert.ErrorContains(t, err, "magick missing")

		frames, err := testutil.GatherAndCount(rec.Registry(), "chainviz_frames_rendered_total")
		require.NoError(t, err)
		assert.Equal(t, 1, frames)
	})
}

func TestPaddingAndDelay(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{1, 1}, {9, 1}, {10, 2}, {99, 2}, {100, 3}, {1000, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, animation.Padding(tt.n), "n=%d", tt.n)
	}

	assert.Equal(t, "007.png", animation.FrameName(7, 100, "png"))
	assert.Equal(t, 100.0, animation.Delay(1))
	assert.Equal(t, 20.0, animation.Delay(5))
}
