package memory

import (
	"context"
	"sync"

	"github.com/aretw0/chainviz/pkg/markov"
)

// Store implements ports.RunStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*markov.Run
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*markov.Run),
	}
}

// Save persists the run in memory.
func (s *Store) Save(ctx context.Context, run *markov.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[run.ID] = copyRun(run)
	return nil
}

// Load retrieves the run from memory.
func (s *Store) Load(ctx context.Context, id string) (*markov.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.data[id]
	if !ok {
		return nil, markov.ErrRunNotFound
	}

	// Copy on read so callers can't mutate the stored run through the pointer.
	return copyRun(run), nil
}

// Delete removes the run.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored run IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func copyRun(run *markov.Run) *markov.Run {
	c := *run
	c.History = append([]string(nil), run.History...)
	return &c
}
