package genstore

import (
	"context"
	"sync"
)

// LocalGenStore keeps generations in-process.
type LocalGenStore struct {
	mu   sync.RWMutex
	gens map[string]uint64
}

var _ GenStore = (*LocalGenStore)(nil)

func NewLocalGenStore() *LocalGenStore {
	return &LocalGenStore{gens: make(map[string]uint64)}
}

var shared = sync.OnceValue(NewLocalGenStore)

// Shared returns the process-wide store used by managers that were not given
// one. Managers pointing at the same file therefore see each other's commits.
func Shared() *LocalGenStore { return shared() }

func (s *LocalGenStore) Snapshot(_ context.Context, loc string) (uint64, error) {
	s.mu.RLock()
	g := s.gens[loc]
	s.mu.RUnlock()
	return g, nil
}

func (s *LocalGenStore) Bump(_ context.Context, loc string) (uint64, error) {
	s.mu.Lock()
	s.gens[loc]++
	g := s.gens[loc]
	s.mu.Unlock()
	return g, nil
}

// Close is a no-op; the map is garbage collected with the store.
func (s *LocalGenStore) Close(context.Context) error { return nil }
