package report

import (
	"testing"
	"time"

	"spendlog/internal/core"
)

func exp(id string, cat core.Category, cents int64, date string) core.Expense {
	return core.Expense{
		ID:          id,
		Date:        date,
		Amount:      core.Money{Cents: cents},
		Category:    cat,
		Description: "test " + id,
	}
}

// The fixture from the dashboard scenario: Food 50 in January, Food 30 and
// Bills 100 in February.
func fixture() []core.Expense {
	return []core.Expense{
		exp("a", core.Food, 5000, "2025-01-10T00:00:00.000Z"),
		exp("b", core.Food, 3000, "2025-02-05T00:00:00.000Z"),
		exp("c", core.Bills, 10000, "2025-02-20T00:00:00.000Z"),
	}
}

func TestTotalSpend(t *testing.T) {
	if got := TotalSpend(nil); got.Cents != 0 {
		t.Fatalf("empty list: want 0, got %d", got.Cents)
	}
	if got := TotalSpend(fixture()); got.Cents != 18000 {
		t.Fatalf("want 18000, got %d", got.Cents)
	}
	// Order invariance.
	f := fixture()
	reversed := []core.Expense{f[2], f[1], f[0]}
	if got := TotalSpend(reversed); got.Cents != 18000 {
		t.Fatalf("reversed: want 18000, got %d", got.Cents)
	}
}

func TestCurrentMonthSpend(t *testing.T) {
	now := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
	if got := CurrentMonthSpend(fixture(), now); got.Cents != 13000 {
		t.Fatalf("want 13000, got %d", got.Cents)
	}
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := CurrentMonthSpend(fixture(), jan); got.Cents != 5000 {
		t.Fatalf("want 5000, got %d", got.Cents)
	}
	if got := CurrentMonthSpend(nil, now); got.Cents != 0 {
		t.Fatalf("empty: want 0, got %d", got.Cents)
	}
	// An unparsable date never counts toward a month.
	in := append(fixture(), exp("d", core.Food, 9999, "garbage"))
	if got := CurrentMonthSpend(in, now); got.Cents != 13000 {
		t.Fatalf("invalid date counted: got %d", got.Cents)
	}
}

func TestTopCategory(t *testing.T) {
	if _, ok := TopCategory(nil); ok {
		t.Fatalf("empty list should have no top category")
	}
	top, ok := TopCategory(fixture())
	if !ok {
		t.Fatalf("expected a top category")
	}
	// Food sums to 80, Bills to 100.
	if top.Category != core.Bills || top.Amount.Cents != 10000 {
		t.Fatalf("want Bills/10000, got %s/%d", top.Category, top.Amount.Cents)
	}

	// On a tie only the amount is contractual.
	tied := []core.Expense{
		exp("a", core.Food, 5000, "2025-01-10"),
		exp("b", core.Bills, 5000, "2025-01-11"),
	}
	top, ok = TopCategory(tied)
	if !ok || top.Amount.Cents != 5000 {
		t.Fatalf("tie: want amount 5000, got %d (ok=%v)", top.Amount.Cents, ok)
	}
}

func TestSpendByCategory(t *testing.T) {
	if got := SpendByCategory(nil); len(got) != 0 {
		t.Fatalf("empty list: want no groups, got %d", len(got))
	}

	groups := SpendByCategory(fixture())
	if len(groups) != 2 {
		t.Fatalf("want 2 groups, got %d", len(groups))
	}
	// First-occurrence order.
	if groups[0].Category != core.Food || groups[0].Amount.Cents != 8000 {
		t.Fatalf("group 0: got %s/%d", groups[0].Category, groups[0].Amount.Cents)
	}
	if groups[1].Category != core.Bills || groups[1].Amount.Cents != 10000 {
		t.Fatalf("group 1: got %s/%d", groups[1].Category, groups[1].Amount.Cents)
	}

	// Groups always sum to the total.
	var sum int64
	for _, g := range groups {
		sum += g.Amount.Cents
	}
	if sum != TotalSpend(fixture()).Cents {
		t.Fatalf("groups sum %d != total %d", sum, TotalSpend(fixture()).Cents)
	}
}

func TestFilterByCategoryAll(t *testing.T) {
	in := fixture()
	got := FilterByCategory(in, core.CategoryAll, DateRange{})
	if len(got) != len(in) {
		t.Fatalf("all/unbounded should keep everything: got %d", len(got))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Fatalf("order not preserved at %d", i)
		}
	}
	// Input untouched.
	if in[0].ID != "a" || len(in) != 3 {
		t.Fatalf("input mutated")
	}
}

func TestFilterByCategoryScenario(t *testing.T) {
	// Food from 2025-02-01 on the fixture keeps exactly the February Food row.
	got := FilterByCategory(fixture(), core.Food, DateRange{From: core.ParseDate("2025-02-01")})
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("want exactly expense b, got %+v", got)
	}
}

func TestFilterDateBounds(t *testing.T) {
	f := fixture()

	onlyFrom := FilterByCategory(f, core.CategoryAll, DateRange{From: core.ParseDate("2025-02-01")})
	if len(onlyFrom) != 2 {
		t.Fatalf("from-only: want 2, got %d", len(onlyFrom))
	}
	onlyTo := FilterByCategory(f, core.CategoryAll, DateRange{To: core.ParseDate("2025-01-31")})
	if len(onlyTo) != 1 || onlyTo[0].ID != "a" {
		t.Fatalf("to-only: want [a], got %+v", onlyTo)
	}
	// Inclusive boundary.
	exact := FilterByCategory(f, core.CategoryAll, DateRange{
		From: core.ParseDate("2025-02-05"),
		To:   core.ParseDate("2025-02-05"),
	})
	if len(exact) != 1 || exact[0].ID != "b" {
		t.Fatalf("inclusive bounds: want [b], got %+v", exact)
	}
	// Invalid stored date is excluded once a bound is set, kept otherwise.
	in := append(f, exp("d", core.Food, 100, "garbage"))
	if got := FilterByCategory(in, core.CategoryAll, DateRange{}); len(got) != 4 {
		t.Fatalf("unbounded should keep invalid-date record: got %d", len(got))
	}
	if got := FilterByCategory(in, core.CategoryAll, DateRange{From: core.ParseDate("2000-01-01")}); len(got) != 3 {
		t.Fatalf("bounded should drop invalid-date record: got %d", len(got))
	}
}

func TestFilterByCategories(t *testing.T) {
	f := fixture()

	// Empty set means no restriction.
	if got := FilterByCategories(f, nil, DateRange{}); len(got) != 3 {
		t.Fatalf("empty set: want 3, got %d", len(got))
	}
	got := FilterByCategories(f, []core.Category{core.Food, core.Shopping}, DateRange{})
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("set filter: got %+v", got)
	}
	got = FilterByCategories(f, []core.Category{core.Bills}, DateRange{To: core.ParseDate("2025-02-28")})
	if len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("set+range: got %+v", got)
	}
}
