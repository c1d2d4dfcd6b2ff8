// Package storage persists the expense snapshot. The durable state is a
// single named slot holding a JSON-encoded array of expense records; every
// save rewrites the whole array, there are no partial updates.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"spendlog/internal/core"

	_ "modernc.org/sqlite"
)

// DefaultSlot is the snapshot slot the application reads and writes, the
// counterpart of the browser original's single localStorage key.
const DefaultSlot = "expenses"

type SQLiteRepository struct {
	db   *sql.DB
	slot string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, slot: DefaultSlot}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load reads the snapshot slot. An absent slot or a payload that is not a
// well-formed array of records degrades to an empty list with a log; the
// caller never sees an error for corrupt data, only for the database itself
// being unreachable.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Expense, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE slot = ?`, r.slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot slot %q: %w", r.slot, err)
	}

	expenses, ok := decodeSnapshot(payload)
	if !ok {
		slog.WarnContext(ctx, "Snapshot payload malformed, starting empty",
			"slot", r.slot,
			"payload_bytes", len(payload))
		return nil, nil
	}

	slog.InfoContext(ctx, "Snapshot loaded",
		"slot", r.slot,
		"count", len(expenses))
	return expenses, nil
}

// Save serializes the whole list and upserts it into the slot.
func (r *SQLiteRepository) Save(ctx context.Context, expenses []core.Expense) error {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	payload, err := json.Marshal(expenses)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (slot, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (slot) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		r.slot, payload)
	if err != nil {
		return fmt.Errorf("write snapshot slot %q: %w", r.slot, err)
	}

	slog.DebugContext(ctx, "Snapshot saved",
		"slot", r.slot,
		"count", len(expenses),
		"payload_bytes", len(payload))
	return nil
}

// decodeSnapshot validates the payload shape defensively: it must be a JSON
// array of records with the expected field types. Semantic junk inside a
// structurally sound record (negative amount, unknown category) is kept
// as-is; the slot may have been edited behind the store's back and the store
// holds whatever it is given.
func decodeSnapshot(payload []byte) ([]core.Expense, bool) {
	var expenses []core.Expense
	if err := json.Unmarshal(payload, &expenses); err != nil {
		return nil, false
	}
	return expenses, true
}
