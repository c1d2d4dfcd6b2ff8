package storage

import (
	"context"
	"sync"

	"spendlog/internal/core"
)

// MemoryStore keeps the snapshot in process memory. It backs the memory
// data backend and tests; nothing survives a restart.
type MemoryStore struct {
	mu       sync.Mutex
	expenses []core.Expense
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, expenses []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = make([]core.Expense, len(expenses))
	copy(s.expenses, expenses)
	return nil
}
