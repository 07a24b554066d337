package animation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aretw0/chainviz/pkg/markov"
	"github.com/aretw0/chainviz/pkg/metrics"
	"github.com/aretw0/chainviz/pkg/ports"
	"github.com/google/uuid"
)

// Settings describes one animation.
type Settings struct {
	// Iterations is the number of frames, one per step.
	Iterations int
	// StatesPerSecond is the playback rate.
	StatesPerSecond float64
	// Output is the path of the animated image.
	Output string
	// Format is the frame file extension. Defaults to "png".
	Format string
	// WorkDir is where the frame directory is created. Defaults to os.TempDir.
	WorkDir string
	// KeepFrames leaves the frame directory in place.
	KeepFrames bool
	// RunID names the stored run. Generated when empty.
	RunID string
}

// Result reports what was produced.
type Result struct {
	RunID     string
	Output    string
	FrameDir  string
	Frames    []string
	History   []string
	StepCount int
}

// Generator renders models into animations.
type Generator struct {
	renderer ports.FrameRenderer
	animator ports.Animator
	logger   *slog.Logger
	store    ports.RunStore
	metrics  *metrics.Recorder
}

// NewGenerator creates a Generator.
func NewGenerator(renderer ports.FrameRenderer, animator ports.Animator, opts ...Option) *Generator {
	g := &Generator{
		renderer: renderer,
		animator: animator,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Padding is the frame number width for n frames, so that lexical order of
// the file names matches numeric order.
func Padding(n int) int {
	if n < 1 {
		return 1
	}
	return len(strconv.Itoa(n))
}

// Delay converts a playback rate into the animator delay in hundredths of a second.
func Delay(statesPerSecond float64) float64 {
	return 100 / statesPerSecond
}

// FrameName returns the file name of frame i (1-based) out of n.
func FrameName(i, n int, format string) string {
	return fmt.Sprintf("%0*d.%s", Padding(n), i, format)
}

// Generate renders settings.Iterations frames of a copy of m and assembles
// them. m itself is left untouched.
func (g *Generator) Generate(ctx context.Context, m *markov.Model, settings Settings) (*Result, error) {
	if settings.Iterations < 1 {
		return nil, fmt.Errorf("iterations must be >= 1, got %d", settings.Iterations)
	}
	if !(settings.StatesPerSecond > 0) {
		return nil, fmt.Errorf("states per second must be > 0, got %v", settings.StatesPerSecond)
	}
	if settings.Format == "" {
		settings.Format = "png"
	}
	if settings.RunID == "" {
		settings.RunID = uuid.NewString()
	}

	dir, err := os.MkdirTemp(settings.WorkDir, "chainviz-frames-")
	if err != nil {
		return nil, fmt.Errorf("failed to create frame directory: %w", err)
	}
	if !settings.KeepFrames {
		defer os.RemoveAll(dir)
	}

	logger := g.logger.With("run_id", settings.RunID)
	logger.Info("Generating animation", "iterations", settings.Iterations, "frame_dir", dir)

	var cloneOpts []markov.Option
	if g.metrics != nil {
		cloneOpts = append(cloneOpts, markov.WithHooks(g.metrics.Hooks()))
	}
	model := m.Clone(cloneOpts...)

	frames := make([]string, 0, settings.Iterations)
	for i := 1; i <= settings.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, FrameName(i, settings.Iterations, settings.Format))
		started := time.Now()
		if err := g.renderer.RenderFrame(ctx, model.Encode(), path); err != nil {
			logger.Error("Frame render failed", "frame", i, "error", err)
			return nil, err
		}
		if g.metrics != nil {
			g.metrics.ObserveFrame(time.Since(started))
		}
		frames = append(frames, path)

		outcome := model.Step()
		logger.Debug("Frame rendered", "frame", i, "state", model.Current().Name, "outcome", outcome.Kind())
	}

	anim := ports.Animation{
		Delay:  Delay(settings.StatesPerSecond),
		Frames: filepath.Join(dir, "*."+settings.Format),
		Output: settings.Output,
	}
	err = g.animator.Animate(ctx, anim)
	if g.metrics != nil {
		g.metrics.ObserveAnimation(err)
	}
	if err != nil {
		logger.Error("Animation failed", "error", err)
		return nil, err
	}

	run := model.Record(settings.RunID)
	if g.store != nil {
		if err := g.store.Save(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to save run: %w", err)
		}
	}

	logger.Info("Animation written", "output", settings.Output, "steps", run.StepCount)
	return &Result{
		RunID:     run.ID,
		Output:    settings.Output,
		FrameDir:  dir,
		Frames:    frames,
		History:   run.History,
		StepCount: run.StepCount,
	}, nil
}
