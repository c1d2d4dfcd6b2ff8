package sheets

import (
	"context"

	"spendlog/internal/core"
)

// SnapshotWriter mirrors the full expense snapshot to an external backup
// target. Replace semantics: the target always reflects the latest snapshot,
// never an append log.
type SnapshotWriter interface {
	ReplaceSnapshot(ctx context.Context, expenses []core.Expense) error
}
