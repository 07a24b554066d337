package ports

import (
	"context"

	"github.com/aretw0/chainviz/pkg/markov"
)

// RunStore defines the interface for persisting simulation runs.
type RunStore interface {
	// Save persists the run under run.ID.
	Save(ctx context.Context, run *markov.Run) error

	// Load retrieves a run.
	// Returns markov.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, id string) (*markov.Run, error)

	// Delete removes a run.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of stored runs.
	List(ctx context.Context) ([]string, error)
}
