package streak

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu sync.RWMutex
	n  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.n, nil
}

func (s *MemoryStore) Set(_ context.Context, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = n
	return nil
}
