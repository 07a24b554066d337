// Package metrics exposes Prometheus collectors for simulations and frame
// rendering.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/chainviz/pkg/markov"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultStateLimit is the number of distinct state names used as step labels
// before further names are folded into OtherState.
const DefaultStateLimit = 32

// OtherState is the from/to label of states beyond the limit.
const OtherState = "other"

// Recorder groups the chainviz collectors on one registry.
type Recorder struct {
	registry *prometheus.Registry

	mu         sync.Mutex
	stateLimit int
	states     map[string]struct{}

	steps      *prometheus.CounterVec
	frames     prometheus.Counter
	renderTime prometheus.Histogram
	animations *prometheus.CounterVec
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithStateLimit bounds the distinct state names kept as step labels. Models
// posted to a long running server carry arbitrary names, so the step series
// must not grow with them. A limit of 0 drops state names entirely.
func WithStateLimit(n int) Option {
	return func(r *Recorder) {
		r.stateLimit = n
	}
}

// NewRecorder creates the collectors and registers them on a fresh registry.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		registry:   prometheus.NewRegistry(),
		stateLimit: DefaultStateLimit,
		states:     make(map[string]struct{}),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chainviz_steps_total",
				Help: "Total number of chain steps",
			},
			[]string{"from", "to", "kind"},
		),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chainviz_frames_rendered_total",
			Help: "Total number of rendered frames",
		}),
		renderTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chainviz_frame_render_seconds",
			Help:    "Duration of frame renders",
			Buckets: prometheus.DefBuckets,
		}),
		animations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chainviz_animations_total",
				Help: "Total number of assembled animations",
			},
			[]string{"result"},
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.registry.MustRegister(r.steps, r.frames, r.renderTime, r.animations)
	return r
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Hooks returns model hooks that count steps.
func (r *Recorder) Hooks() markov.Hooks {
	return markov.Hooks{
		OnStep: r.ObserveStep,
	}
}

// ObserveStep counts one step.
func (r *Recorder) ObserveStep(e *markov.StepEvent) {
	r.steps.WithLabelValues(r.stateLabel(e.From), r.stateLabel(e.To), e.Kind.String()).Inc()
}

// stateLabel admits names first come first served until the limit is reached.
func (r *Recorder) stateLabel(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.states[name]; ok {
		return name
	}
	if len(r.states) >= r.stateLimit {
		return OtherState
	}
	r.states[name] = struct{}{}
	return name
}

// ObserveFrame counts one rendered frame and its duration.
func (r *Recorder) ObserveFrame(d time.Duration) {
	r.frames.Inc()
	r.renderTime.Observe(d.Seconds())
}

// ObserveAnimation counts an animation attempt.
func (r *Recorder) ObserveAnimation(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.animations.WithLabelValues(result).Inc()
}
