package markov

import (
	"errors"
	"time"
)

// ErrRunNotFound is returned when a run ID cannot be found in a run store.
var ErrRunNotFound = errors.New("run not found")

// Run is the persisted result of a simulation.
type Run struct {
	ID        string    `json:"id"`
	Start     string    `json:"start"`
	Final     string    `json:"final"`
	StepCount int       `json:"step_count"`
	History   []string  `json:"history"`
	CreatedAt time.Time `json:"created_at"`
}

// Record captures the current history of m as a Run.
func (m *Model) Record(id string) *Run {
	history := m.History()
	return &Run{
		ID:        id,
		Start:     history[0],
		Final:     m.current.Name,
		StepCount: m.t,
		History:   history,
		CreatedAt: time.Now().UTC(),
	}
}
