// Package memory is an in-process SnapshotWriter for tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"sync"

	"spendlog/internal/core"
)

type Store struct {
	mu       sync.Mutex
	snapshot []core.Expense
	replaces int
}

func New() *Store {
	return &Store{}
}

func (s *Store) ReplaceSnapshot(_ context.Context, expenses []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = make([]core.Expense, len(expenses))
	copy(s.snapshot, expenses)
	s.replaces++
	return nil
}

// Snapshot returns a copy of the last mirrored snapshot.
func (s *Store) Snapshot() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Replaces returns how many times the snapshot was rewritten.
func (s *Store) Replaces() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaces
}
