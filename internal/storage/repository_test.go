package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"spendlog/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "spendlog.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sample() []core.Expense {
	return []core.Expense{
		{ID: "a", Date: "2025-01-10T00:00:00.000Z", Amount: core.Money{Cents: 5000}, Category: core.Food, Description: "Groceries"},
		{ID: "b", Date: "2025-02-05T00:00:00.000Z", Amount: core.Money{Cents: 3000}, Category: core.Bills, Description: "Water"},
	}
}

func TestLoadEmptySlot(t *testing.T) {
	repo := newTestRepo(t)
	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("fresh slot should be empty, got %d", len(got))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	want := sample()
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("want %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d mismatch: %+v != %+v", i, got[i], want[i])
		}
	}

	// Every save is a full snapshot: a shorter list replaces the slot.
	if err := repo.Save(ctx, want[:1]); err != nil {
		t.Fatalf("save shorter: %v", err)
	}
	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("snapshot not replaced: %+v", got)
	}
}

func TestLoadMalformedPayloadDegradesToEmpty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, payload := range []string{`{"not":"an array"}`, `not json`, `42`} {
		writeRawPayload(t, repo.db, repo.slot, payload)
		got, err := repo.Load(ctx)
		if err != nil {
			t.Fatalf("payload %q: load should not error, got %v", payload, err)
		}
		if len(got) != 0 {
			t.Fatalf("payload %q: want empty, got %d", payload, len(got))
		}
	}
}

func TestLoadKeepsSemanticJunk(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Structurally sound records with out-of-contract values stay as given.
	writeRawPayload(t, repo.db, repo.slot,
		`[{"id":"x","date":"not-a-date","amount":-3.5,"category":"Mystery","description":""}]`)
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 record, got %d", len(got))
	}
	if got[0].Amount.Cents != -350 || got[0].Category != "Mystery" {
		t.Fatalf("junk not preserved: %+v", got[0])
	}
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, nil); err != nil {
		t.Fatalf("save nil: %v", err)
	}
	var payload string
	if err := repo.db.QueryRow(`SELECT payload FROM snapshots WHERE slot = ?`, repo.slot).Scan(&payload); err != nil {
		t.Fatalf("read slot: %v", err)
	}
	if payload != "[]" {
		t.Fatalf("want [], got %s", payload)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2, got %d", len(got))
	}
	// Load hands out copies.
	got[0].Description = "mutated"
	again, _ := store.Load(ctx)
	if again[0].Description == "mutated" {
		t.Fatalf("load should return a copy")
	}
}

func writeRawPayload(t *testing.T, db *sql.DB, slot, payload string) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO snapshots (slot, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (slot) DO UPDATE SET payload = excluded.payload`,
		slot, []byte(payload))
	if err != nil {
		t.Fatalf("write raw payload: %v", err)
	}
}
