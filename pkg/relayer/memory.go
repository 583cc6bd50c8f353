package relayer

import (
	"context"
	"sync"
)

// MemoryCursorStore keeps cursors in process memory. Progress is lost on restart.
type MemoryCursorStore struct {
	mu      sync.Mutex
	cursors map[string]int64
}

// NewMemoryCursorStore creates an empty in-memory cursor store.
func NewMemoryCursorStore() *MemoryCursorStore {
	return &MemoryCursorStore{cursors: make(map[string]int64)}
}

func (s *MemoryCursorStore) LoadCursor(_ context.Context, key string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	block, ok := s.cursors[key]
	return block, ok, nil
}

func (s *MemoryCursorStore) SaveCursor(_ context.Context, key string, block int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[key] = block
	return nil
}
