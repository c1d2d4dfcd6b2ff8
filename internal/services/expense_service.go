// Package services holds the expense store: the single source of truth for
// the session's expense list, synchronized to persistent storage on every
// mutation.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"spendlog/internal/core"
)

// Snapshots is the persistence port: one named slot, full-list reads and
// writes.
type Snapshots interface {
	Load(ctx context.Context) ([]core.Expense, error)
	Save(ctx context.Context, expenses []core.Expense) error
}

// SyncPublisher announces snapshot changes to the cloud-sync worker.
type SyncPublisher interface {
	PublishSnapshotSync(ctx context.Context, revision int64, count int) error
}

// ExpenseService owns the in-memory expense list. Every mutation persists a
// full snapshot; persistence failures are logged and swallowed so the UI
// keeps working with the in-memory copy, which stays authoritative for the
// rest of the session.
type ExpenseService struct {
	mu        sync.Mutex
	expenses  []core.Expense
	revision  int64
	snapshots Snapshots
	publisher SyncPublisher
}

// NewExpenseService wires the store to its persistence slot and an optional
// sync publisher (nil disables cloud sync).
func NewExpenseService(snapshots Snapshots, publisher SyncPublisher) *ExpenseService {
	return &ExpenseService{
		snapshots: snapshots,
		publisher: publisher,
	}
}

// Initialize loads the persisted snapshot. A missing or malformed snapshot
// degrades to an empty list; only a failing storage backend is reported, and
// even then the store starts empty and stays usable.
func (s *ExpenseService) Initialize(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	expenses, err := s.snapshots.Load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load expense snapshot, starting empty", "error", err)
		return fmt.Errorf("load snapshot: %w", err)
	}
	s.mu.Lock()
	s.expenses = expenses
	s.mu.Unlock()
	slog.InfoContext(ctx, "Expense store initialized", "count", len(expenses))
	return nil
}

// Add assigns a fresh ID to the draft and appends it (insertion order, not
// sorted). Validation belongs to the entry boundary; Add stores what it is
// given.
func (s *ExpenseService) Add(ctx context.Context, draft core.Draft) core.Expense {
	expense := draft.Expense(uuid.NewString())

	s.mu.Lock()
	s.expenses = append(s.expenses, expense)
	s.revision++
	snapshot := s.copyLocked()
	rev := s.revision
	s.mu.Unlock()

	s.persist(ctx, snapshot, rev)

	slog.InfoContext(ctx, "Expense added",
		"id", expense.ID,
		"category", string(expense.Category),
		"amount_cents", expense.Amount.Cents)
	return expense
}

// Update replaces the record whose ID matches. An unknown ID is a silent
// no-op by contract, not an error.
func (s *ExpenseService) Update(ctx context.Context, expense core.Expense) {
	s.mu.Lock()
	replaced := false
	for i := range s.expenses {
		if s.expenses[i].ID == expense.ID {
			s.expenses[i] = expense
			replaced = true
			break
		}
	}
	if !replaced {
		s.mu.Unlock()
		slog.WarnContext(ctx, "Update for unknown expense id ignored", "id", expense.ID)
		return
	}
	s.revision++
	snapshot := s.copyLocked()
	rev := s.revision
	s.mu.Unlock()

	s.persist(ctx, snapshot, rev)
	slog.InfoContext(ctx, "Expense updated", "id", expense.ID)
}

// Delete removes the record with the given ID; absent IDs are a no-op.
func (s *ExpenseService) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	idx := -1
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		slog.WarnContext(ctx, "Delete for unknown expense id ignored", "id", id)
		return
	}
	s.expenses = append(s.expenses[:idx], s.expenses[idx+1:]...)
	s.revision++
	snapshot := s.copyLocked()
	rev := s.revision
	s.mu.Unlock()

	s.persist(ctx, snapshot, rev)
	slog.InfoContext(ctx, "Expense deleted", "id", id)
}

// List returns a defensive copy of the current list.
func (s *ExpenseService) List(_ context.Context) []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Revision is a monotonic counter bumped on every mutation. View caches key
// on it instead of invalidating entries one by one.
func (s *ExpenseService) Revision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func (s *ExpenseService) copyLocked() []core.Expense {
	out := make([]core.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out
}

// persist writes the snapshot and notifies the sync worker, both best
// effort: a stale durable copy is acceptable for a single-user local tool
// and must never surface as a UI failure.
func (s *ExpenseService) persist(ctx context.Context, snapshot []core.Expense, revision int64) {
	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, snapshot); err != nil {
			slog.ErrorContext(ctx, "Failed to persist expense snapshot",
				"error", err,
				"revision", revision,
				"count", len(snapshot))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishSnapshotSync(ctx, revision, len(snapshot)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish snapshot sync message",
				"error", err,
				"revision", revision)
		}
	}
}
