package markov

// StepEvent describes one advance of a model.
type StepEvent struct {
	Step int
	From string
	To   string
	Kind OutcomeKind
}

// Hooks are observability callbacks. Nil fields are skipped.
type Hooks struct {
	OnStep func(*StepEvent)
}

// Option configures a Model.
type Option func(*Model)

// WithRandom sets the source of uniform draws used by Step.
func WithRandom(src RandomSource) Option {
	return func(m *Model) {
		m.random = src
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks Hooks) Option {
	return func(m *Model) {
		m.hooks = hooks
	}
}
