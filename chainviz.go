package chainviz

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/chainviz/pkg/adapters/process"
	"github.com/aretw0/chainviz/pkg/analysis"
	"github.com/aretw0/chainviz/pkg/animation"
	"github.com/aretw0/chainviz/pkg/definition"
	"github.com/aretw0/chainviz/pkg/markov"
	"github.com/aretw0/chainviz/pkg/metrics"
	"github.com/aretw0/chainviz/pkg/ports"
	"github.com/google/uuid"
)

// Engine is the high-level entry point for the chainviz library.
// It wires model loading, the external renderer/animator, the run store and
// metrics behind one API.
type Engine struct {
	tools    process.ConfigFile
	dpi      int
	format   string
	seed     *uint64
	renderer ports.FrameRenderer
	animator ports.Animator
	store    ports.RunStore
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithTools sets the external programs used by the default renderer and animator.
func WithTools(cfg process.ConfigFile) Option {
	return func(e *Engine) {
		e.tools = cfg
	}
}

// WithDPI sets the frame resolution of the default renderer.
func WithDPI(dpi int) Option {
	return func(e *Engine) {
		e.dpi = dpi
	}
}

// WithFormat sets the frame format of the default renderer (default: png).
func WithFormat(format string) Option {
	return func(e *Engine) {
		e.format = format
	}
}

// WithSeed makes every loaded model draw from a deterministic source.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = &seed
	}
}

// WithRenderer injects a custom FrameRenderer, bypassing Graphviz.
func WithRenderer(r ports.FrameRenderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

// WithAnimator injects a custom Animator, bypassing ImageMagick.
func WithAnimator(a ports.Animator) Option {
	return func(e *Engine) {
		e.animator = a
	}
}

// WithStore persists every simulation and animation run.
func WithStore(store ports.RunStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithMetrics records steps, frames and animations.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = rec
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine. Unset adapters default to Graphviz dot and
// ImageMagick magick from PATH.
func New(opts ...Option) *Engine {
	e := &Engine{
		tools:  process.DefaultConfig(),
		dpi:    320,
		format: "png",
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.renderer == nil {
		e.renderer = process.NewDotRenderer(e.tools.Renderer,
			process.WithDPI(e.dpi),
			process.WithFormat(e.format),
		)
	}
	if e.animator == nil {
		e.animator = process.NewMagickAnimator(e.tools.Animator, "")
	}
	return e
}

// ModelOptions returns the options applied to every model the engine builds.
func (e *Engine) ModelOptions() []markov.Option {
	var opts []markov.Option
	if e.seed != nil {
		opts = append(opts, markov.WithRandom(markov.NewSeeded(*e.seed)))
	}
	if e.metrics != nil {
		opts = append(opts, markov.WithHooks(e.metrics.Hooks()))
	}
	return opts
}

// Load reads a model document (JSON or YAML) and builds the model.
func (e *Engine) Load(path string) (*markov.Model, error) {
	m, err := definition.LoadFile(path, e.ModelOptions()...)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Model loaded", "model", filepath.Base(path), "states", len(m.States()))
	return m, nil
}

// Parse builds a model from an in-memory document.
func (e *Engine) Parse(data []byte, format definition.Format) (*markov.Model, error) {
	doc, err := definition.Parse(data, format)
	if err != nil {
		return nil, err
	}
	return doc.Build(e.ModelOptions()...)
}

// Simulate advances m by steps and records the run.
func (e *Engine) Simulate(ctx context.Context, m *markov.Model, steps int) (*markov.Run, error) {
	if steps < 0 {
		return nil, fmt.Errorf("steps must be >= 0, got %d", steps)
	}
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.Step()
	}

	run := m.Record(uuid.NewString())
	if e.store != nil {
		if err := e.store.Save(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to save run: %w", err)
		}
	}
	e.logger.Info("Simulation finished", "run_id", run.ID, "steps", steps, "final", run.Final)
	return run, nil
}

// Animate renders an animation of a copy of m.
func (e *Engine) Animate(ctx context.Context, m *markov.Model, settings animation.Settings) (*animation.Result, error) {
	if settings.Format == "" {
		settings.Format = e.format
	}
	opts := []animation.Option{animation.WithLogger(e.logger)}
	if e.store != nil {
		opts = append(opts, animation.WithStore(e.store))
	}
	if e.metrics != nil {
		opts = append(opts, animation.WithMetrics(e.metrics))
	}
	return animation.NewGenerator(e.renderer, e.animator, opts...).Generate(ctx, m, settings)
}

// Analyze reports reachability and absorbing states of m.
func (e *Engine) Analyze(m *markov.Model) (*analysis.Report, error) {
	return analysis.Analyze(m)
}

// Store returns the configured run store, or nil.
func (e *Engine) Store() ports.RunStore {
	return e.store
}
