package markov

import "math/rand/v2"

// RandomSource produces uniform draws in [0, 1).
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// NewSeeded returns a deterministic source for reproducible runs.
func NewSeeded(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sequence replays fixed draws, cycling when exhausted. Useful in tests.
type Sequence struct {
	Draws []float64
	next  int
}

// Float64 returns the next draw.
func (s *Sequence) Float64() float64 {
	if len(s.Draws) == 0 {
		return 0
	}
	r := s.Draws[s.next%len(s.Draws)]
	s.next++
	return r
}
