// Package worker mirrors the persisted expense snapshot to a cloud backup
// target in response to sync messages from the app.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"spendlog/internal/amqp"
	"spendlog/internal/services"
	"spendlog/internal/sheets"
)

// SyncWorker reads the current snapshot from storage and replaces the
// backup target's contents. Messages carry only a revision, so handling is
// idempotent: replaying an old message rewrites the same data.
type SyncWorker struct {
	snapshots services.Snapshots
	writer    sheets.SnapshotWriter

	mu           sync.Mutex
	lastRevision int64
}

func NewSyncWorker(snapshots services.Snapshots, writer sheets.SnapshotWriter) *SyncWorker {
	return &SyncWorker{
		snapshots: snapshots,
		writer:    writer,
	}
}

// HandleSyncMessage processes one snapshot-sync message. Only an exact
// repeat of the last mirrored revision is skipped (a redelivered message).
// A lower revision means the app restarted and its counter started over,
// so the message is fresh work; mirroring reads the current snapshot
// either way, so acting on it is always safe.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.SnapshotSyncMessage) error {
	w.mu.Lock()
	if msg.Revision != 0 && msg.Revision == w.lastRevision {
		w.mu.Unlock()
		slog.InfoContext(ctx, "Skipping duplicate sync message",
			"revision", msg.Revision)
		return nil
	}
	w.mu.Unlock()

	if err := w.mirror(ctx); err != nil {
		return err
	}

	w.mu.Lock()
	if msg.Revision != 0 {
		w.lastRevision = msg.Revision
	}
	w.mu.Unlock()

	slog.InfoContext(ctx, "Snapshot sync completed",
		"revision", msg.Revision,
		"count", msg.Count)
	return nil
}

// Resync mirrors the snapshot unconditionally. Run periodically as a
// catch-up for lost messages.
func (w *SyncWorker) Resync(ctx context.Context) error {
	if err := w.mirror(ctx); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Periodic resync completed")
	return nil
}

// RunPeriodicResync resyncs on the given interval until ctx is done.
func (w *SyncWorker) RunPeriodicResync(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Resync(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic resync failed", "error", err)
			}
		}
	}
}

func (w *SyncWorker) mirror(ctx context.Context) error {
	expenses, err := w.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if err := w.writer.ReplaceSnapshot(ctx, expenses); err != nil {
		return fmt.Errorf("replace backup snapshot: %w", err)
	}
	return nil
}
