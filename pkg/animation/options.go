package animation

import (
	"log/slog"

	"github.com/aretw0/chainviz/pkg/metrics"
	"github.com/aretw0/chainviz/pkg/ports"
)

// Option defines a functional option for configuring the Generator.
type Option func(*Generator)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithStore persists the run history of every generated animation.
func WithStore(store ports.RunStore) Option {
	return func(g *Generator) {
		g.store = store
	}
}

// WithMetrics records frames, steps and animations.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(g *Generator) {
		g.metrics = rec
	}
}
