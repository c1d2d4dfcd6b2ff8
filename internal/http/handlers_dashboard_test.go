package http

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"spendlog/internal/core"
)

func seedExpenses(store *fakeStore) {
	drafts := []core.Draft{
		{Date: "2025-01-10", Amount: core.Money{Cents: 5000}, Category: core.Food, Description: "Groceries"},
		{Date: "2025-02-05", Amount: core.Money{Cents: 3000}, Category: core.Food, Description: "Takeout"},
		{Date: "2025-02-20", Amount: core.Money{Cents: 10000}, Category: core.Bills, Description: "Electricity"},
	}
	for _, d := range drafts {
		store.Add(context.Background(), d)
	}
}

func TestDashboardRendersTotals(t *testing.T) {
	s, store := newTestServer(t)
	seedExpenses(store)

	rec := doRequest(s, http.MethodGet, "/ui/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rec.Code)
	}
	body := rec.Body.String()

	if !strings.Contains(body, "$180.00") {
		t.Errorf("dashboard missing total $180.00:\n%s", body)
	}
	if !strings.Contains(body, "Bills") || !strings.Contains(body, "$100.00") {
		t.Error("dashboard missing top category Bills / $100.00")
	}
	for _, desc := range []string{"Groceries", "Takeout", "Electricity"} {
		if !strings.Contains(body, desc) {
			t.Errorf("dashboard missing expense %q", desc)
		}
	}
}

func TestDashboardEmptyState(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/ui/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No expenses yet") {
		t.Error("empty dashboard missing empty-state message")
	}
}

func TestDashboardCategoryFilter(t *testing.T) {
	s, store := newTestServer(t)
	seedExpenses(store)

	rec := doRequest(s, http.MethodGet, "/ui/dashboard?category=Food", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rec.Code)
	}
	body := rec.Body.String()

	if !strings.Contains(body, "Groceries") || !strings.Contains(body, "Takeout") {
		t.Error("Food filter dropped Food expenses")
	}
	if strings.Contains(body, "Electricity") {
		t.Error("Food filter kept a Bills expense")
	}
}

func TestDashboardCardsFollowFilter(t *testing.T) {
	s, store := newTestServer(t)
	seedExpenses(store)

	rec := doRequest(s, http.MethodGet, "/ui/dashboard?category=Food", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rec.Code)
	}
	body := rec.Body.String()

	// Total card sums only the two Food expenses.
	if !strings.Contains(body, "$80.00") {
		t.Errorf("filtered total card missing $80.00:\n%s", body)
	}
	if strings.Contains(body, "$180.00") {
		t.Error("filtered dashboard still shows the unfiltered total")
	}
	// Bills is out of view, so Food becomes the top category.
	if strings.Contains(body, "Bills") {
		t.Error("filtered dashboard still mentions the filtered-out category")
	}
}

func TestDashboardDateFilter(t *testing.T) {
	s, store := newTestServer(t)
	seedExpenses(store)

	rec := doRequest(s, http.MethodGet, "/ui/dashboard?category=Food&from=2025-02-01", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rec.Code)
	}
	body := rec.Body.String()

	if strings.Contains(body, "Groceries") {
		t.Error("from=2025-02-01 kept a January expense")
	}
	if !strings.Contains(body, "Takeout") {
		t.Error("from=2025-02-01 dropped the February Food expense")
	}
}

func TestDashboardRejectsUnknownCategory(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/ui/dashboard?category=Gadgets", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown category = %d, want 422", rec.Code)
	}
}

func TestDashboardCachesByRevision(t *testing.T) {
	s, store := newTestServer(t)
	seedExpenses(store)

	first := doRequest(s, http.MethodGet, "/ui/dashboard", nil)
	callsAfterFirst := store.listCalls

	second := doRequest(s, http.MethodGet, "/ui/dashboard", nil)
	if store.listCalls != callsAfterFirst {
		t.Errorf("second identical request hit the store (%d -> %d list calls)", callsAfterFirst, store.listCalls)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached dashboard differs from original render")
	}

	// A mutation bumps the revision, so the next request recomputes.
	store.Add(context.Background(), core.Draft{
		Date: "2025-03-01", Amount: core.Money{Cents: 700}, Category: core.Other, Description: "Stamps",
	})
	third := doRequest(s, http.MethodGet, "/ui/dashboard", nil)
	if store.listCalls == callsAfterFirst {
		t.Error("request after mutation served stale cache")
	}
	if !strings.Contains(third.Body.String(), "Stamps") {
		t.Error("dashboard after mutation missing new expense")
	}
}

func TestDashboardDistinctFiltersDistinctCacheEntries(t *testing.T) {
	s, store := newTestServer(t)
	seedExpenses(store)

	all := doRequest(s, http.MethodGet, "/ui/dashboard", nil)
	food := doRequest(s, http.MethodGet, "/ui/dashboard?category=Food", nil)

	if all.Body.String() == food.Body.String() {
		t.Error("different filters produced identical partials")
	}
}
